package uitests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailqa/storefront-contract-tests/storefront"
)

const (
	backpack  = "Sauce Labs Backpack"
	bikeLight = "Sauce Labs Bike Light"
	boltShirt = "Sauce Labs Bolt T-Shirt"
)

func doAddItemScenario(t *T) {
	t.SignInAsStandardUser()

	t.RequireCartCount(0)
	require.NoError(t, t.Inventory().AddToCart(backpack))
	t.RequireCartCount(1)
}

func doAddSeveralItemsScenario(t *T) {
	t.SignInAsStandardUser()

	require.NoError(t, t.Inventory().AddToCart(backpack))
	require.NoError(t, t.Inventory().AddToCart(bikeLight))
	require.NoError(t, t.Inventory().AddToCart(boltShirt))
	t.RequireCartCount(3)

	require.NoError(t, t.Inventory().GoToCart())
	names, err := t.Cart().ItemNames()
	require.NoError(t, err)

	// Display order, not insertion order, so compare as a set.
	assert.Len(t, names, 3)
	assert.Contains(t, names, backpack)
	assert.Contains(t, names, bikeLight)
	assert.Contains(t, names, boltShirt)
}

func doRemoveItemScenario(t *T) {
	t.SignInAsStandardUser()

	require.NoError(t, t.Inventory().AddToCart(backpack))
	require.NoError(t, t.Inventory().AddToCart(bikeLight))
	t.RequireCartCount(2)

	require.NoError(t, t.Inventory().GoToCart())
	require.NoError(t, t.Cart().RemoveItem(backpack))

	names, err := t.Cart().ItemNames()
	require.NoError(t, err)
	assert.Equal(t, []string{bikeLight}, names)
}

func doFullCheckoutScenario(t *T) {
	t.SignInAsStandardUser()

	require.NoError(t, t.Inventory().AddToCart(backpack))
	t.RequireCartCount(1)
	require.NoError(t, t.Inventory().GoToCart())

	checkout, err := t.Cart().ProceedToCheckout()
	require.NoError(t, err)
	require.Equal(t, storefront.StageInformation, checkout.Stage())

	require.NoError(t, checkout.SubmitInformation("John", "Doe", "12345"))
	require.Equal(t, storefront.StageOverview, checkout.Stage())

	require.NoError(t, checkout.Finish())
	require.NoError(t, checkout.AssertComplete())
}

func doCancelCheckoutScenario(t *T) {
	t.SignInAsStandardUser()

	require.NoError(t, t.Inventory().AddToCart(backpack))
	require.NoError(t, t.Inventory().GoToCart())

	checkout, err := t.Cart().ProceedToCheckout()
	require.NoError(t, err)
	require.NoError(t, checkout.SubmitInformation("John", "Doe", "12345"))
	require.NoError(t, checkout.Cancel())
	require.Equal(t, storefront.StageCart, checkout.Stage())

	// Cancelling keeps the cart intact.
	names, err := t.Cart().ItemNames()
	require.NoError(t, err)
	assert.Equal(t, []string{backpack}, names)
}

func doContinueShoppingScenario(t *T) {
	t.SignInAsStandardUser()

	require.NoError(t, t.Inventory().AddToCart(backpack))
	require.NoError(t, t.Inventory().GoToCart())
	require.NoError(t, t.Cart().ContinueShopping())

	displayed, err := t.Inventory().Displayed()
	require.NoError(t, err)
	assert.True(t, displayed)
	t.RequireCartCount(1)
}

func doCartPersistenceScenario(t *T) {
	t.SignInAsStandardUser()

	require.NoError(t, t.Inventory().AddToCart(backpack))
	require.NoError(t, t.Inventory().AddToCart(bikeLight))

	require.NoError(t, t.Inventory().GoToCart())
	names, err := t.Cart().ItemNames()
	require.NoError(t, err)
	assert.Len(t, names, 2)

	require.NoError(t, t.Cart().ContinueShopping())
	t.RequireCartCount(2)

	require.NoError(t, t.Inventory().GoToCart())
	names, err = t.Cart().ItemNames()
	require.NoError(t, err)
	assert.Len(t, names, 2)
}
