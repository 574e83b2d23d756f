package apitests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailqa/storefront-contract-tests/fixtures"
)

const badCredentialsReason = "Bad credentials"

func doValidAuthScenario(t *T) {
	token := t.RequireToken()
	assert.NotEmpty(t, token)
}

func doInvalidAuthScenario(t *T) {
	// The service reports a credential mismatch as a success status with a reason
	// field, not as an HTTP error; the tagged result makes that observable.
	result, err := t.Client().Authenticate(t.Context(),
		fixtures.UniqueName("invalid_user"), fixtures.UniqueName("wrong_password"))
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Empty(t, result.Token)
	assert.Equal(t, badCredentialsReason, result.FailureReason)
}

func doRepeatedAuthScenario(t *T) {
	first := t.RequireToken()
	second := t.RequireToken()
	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
}
