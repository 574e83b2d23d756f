package apitests

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailqa/storefront-contract-tests/booker/fakebooker"
	"github.com/retailqa/storefront-contract-tests/framework"
)

func runAgainstFakeService(t *testing.T, opts framework.RunnerOptions) (framework.Results, *fakebooker.Service) {
	service := fakebooker.New("admin", "password123")
	server := httptest.NewServer(service.Handler())
	defer server.Close()

	cfg := Config{BaseURL: server.URL, Username: "admin", Password: "password123"}
	return framework.RunProject(Project(cfg), opts), service
}

func TestAPIProjectPassesAgainstFakeService(t *testing.T) {
	results, _ := runAgainstFakeService(t, framework.RunnerOptions{Workers: 4})
	for _, f := range results.Failures {
		for _, err := range f.Errors {
			t.Errorf("scenario %s failed: %s", f.TestID, err)
		}
	}
	assert.True(t, results.OK())
	assert.Empty(t, results.Skips)
	assert.Equal(t, len(Project(Config{}).Scenarios), len(results.Tests))
}

func TestAPIProjectCleansUpEveryBookingItCreated(t *testing.T) {
	results, service := runAgainstFakeService(t, framework.RunnerOptions{Workers: 4})
	require.True(t, results.OK())
	assert.Equal(t, 0, service.BookingCount(), "scenarios left bookings behind")
}

func TestAPIProjectScenariosFailCleanlyWhenServiceIsDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	cfg := Config{BaseURL: server.URL, Username: "admin", Password: "password123"}
	results := framework.RunProject(Project(cfg), framework.RunnerOptions{Workers: 2})
	assert.False(t, results.OK())
	// Every failure must be an ordinary recorded error, not a panic escaping the
	// scenario goroutine.
	for _, f := range results.Failures {
		assert.NotEmpty(t, f.Errors)
	}
}

func TestAPIProjectWrongCredentialsFailAuthScenarios(t *testing.T) {
	service := fakebooker.New("admin", "password123")
	server := httptest.NewServer(service.Handler())
	defer server.Close()

	cfg := Config{BaseURL: server.URL, Username: "admin", Password: "wrong"}
	results := framework.RunProject(Project(cfg), framework.RunnerOptions{Workers: 2})
	assert.False(t, results.OK())
}

func TestAPIProjectHonorsFilter(t *testing.T) {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("ping"))

	service := fakebooker.New("admin", "password123")
	server := httptest.NewServer(service.Handler())
	defer server.Close()

	cfg := Config{BaseURL: server.URL, Username: "admin", Password: "password123"}
	results := framework.RunProject(Project(cfg), framework.RunnerOptions{Filter: filters.AsFilter})
	assert.True(t, results.OK())
	assert.Equal(t, len(results.Tests)-1, len(results.Skips))
}
