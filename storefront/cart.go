package storefront

import "fmt"

const (
	selCartItemNames          = `[data-test="inventory-item-name"]`
	selCheckoutButton         = `[data-test="checkout"]`
	selContinueShoppingButton = `[data-test="continue-shopping"]`
)

// CartPage models the shopping cart page.
type CartPage struct {
	driver PageDriver
}

func NewCartPage(driver PageDriver) *CartPage {
	return &CartPage{driver: driver}
}

// ItemNames returns the names of the products in the cart, in display order (which
// is not guaranteed to be insertion order).
func (p *CartPage) ItemNames() ([]string, error) {
	return p.driver.Texts(selCartItemNames)
}

// RemoveItem removes the named product from the cart.
func (p *CartPage) RemoveItem(productName string) error {
	return p.driver.Click(fmt.Sprintf(`[data-test="remove-%s"]`, ProductID(productName)))
}

// ProceedToCheckout starts the checkout flow; the returned CheckoutPage is at the
// information stage.
func (p *CartPage) ProceedToCheckout() (*CheckoutPage, error) {
	if err := p.driver.Click(selCheckoutButton); err != nil {
		return nil, err
	}
	return newCheckoutPage(p.driver), nil
}

// ContinueShopping returns to the inventory page, preserving the cart contents.
func (p *CartPage) ContinueShopping() error {
	return p.driver.Click(selContinueShoppingButton)
}
