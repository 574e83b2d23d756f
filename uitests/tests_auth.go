package uitests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailqa/storefront-contract-tests/fixtures"
)

func doValidSignInScenario(t *T) {
	t.SignInAsStandardUser()

	message, err := t.Login().ErrorMessage()
	require.NoError(t, err)
	assert.Empty(t, message)
}

func doLockedOutScenario(t *T) {
	user := fixtures.StorefrontUsers.Locked
	require.NoError(t, t.Login().Open())
	require.NoError(t, t.Login().SignIn(user.Username, user.Password))

	// A failed sign-in does not raise; the page stays put with the indicator set.
	message, err := t.Login().ErrorMessage()
	require.NoError(t, err)
	assert.Contains(t, message, "Sorry, this user has been locked out")

	displayed, err := t.Inventory().Displayed()
	require.NoError(t, err)
	assert.False(t, displayed, "locked-out user must stay on the sign-in page")
}

func doInvalidSignInScenario(t *T) {
	require.NoError(t, t.Login().Open())
	require.NoError(t, t.Login().SignIn(fixtures.UniqueName("nobody"), "wrong_password"))

	message, err := t.Login().ErrorMessage()
	require.NoError(t, err)
	assert.Contains(t, message, "Username and password do not match")
}

func doSignOutScenario(t *T) {
	t.SignInAsStandardUser()

	require.NoError(t, t.Inventory().SignOut())

	displayed, err := t.Login().Displayed()
	require.NoError(t, err)
	assert.True(t, displayed, "sign-out must land back on the sign-in page")
}

func doSignInAfterSignOutScenario(t *T) {
	t.SignInAsStandardUser()
	require.NoError(t, t.Inventory().SignOut())

	t.SignInAsStandardUser()
}
