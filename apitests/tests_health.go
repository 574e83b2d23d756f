package apitests

import (
	"github.com/stretchr/testify/assert"
)

func doPingScenario(t *T) {
	healthy := t.Client().HealthCheck(t.Context())
	assert.True(t, healthy, "service did not answer the ping probe with its liveness status")
}

func doHealthCheckScenario(t *T) {
	// HealthCheck is defined to swallow transport failures into false, so a true
	// result is the only acceptable outcome against a reachable service.
	assert.True(t, t.Client().HealthCheck(t.Context()))
}
