package storefront

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	selPageTitle  = `[data-test="title"]`
	selCartBadge  = `[data-test="shopping-cart-badge"]`
	selCartLink   = `[data-test="shopping-cart-link"]`
	selBurgerMenu = `#react-burger-menu-btn`
	selLogoutLink = `#logout_sidebar_link`
)

const inventoryTitle = "Products"

// InventoryPage models the product listing page.
type InventoryPage struct {
	driver PageDriver
}

func NewInventoryPage(driver PageDriver) *InventoryPage {
	return &InventoryPage{driver: driver}
}

// Displayed reports whether the inventory page is currently shown, verified by the
// page title in a single query.
func (p *InventoryPage) Displayed() (bool, error) {
	text, visible, err := p.driver.VisibleText(selPageTitle)
	if err != nil {
		return false, err
	}
	return visible && text == inventoryTitle, nil
}

// AddToCart adds the named product. Adding a product that is already in the cart is a
// no-op on the storefront side, observable as an unchanged count.
func (p *InventoryPage) AddToCart(productName string) error {
	return p.driver.Click(fmt.Sprintf(`[data-test="add-to-cart-%s"]`, ProductID(productName)))
}

// RemoveFromCart removes the named product from the cart without leaving the page.
func (p *InventoryPage) RemoveFromCart(productName string) error {
	return p.driver.Click(fmt.Sprintf(`[data-test="remove-%s"]`, ProductID(productName)))
}

// CartCount reads the cart badge. An absent badge is the canonical signal for an
// empty cart, not an error.
func (p *InventoryPage) CartCount() (int, error) {
	text, visible, err := p.driver.VisibleText(selCartBadge)
	if err != nil {
		return 0, err
	}
	if !visible {
		return 0, nil
	}
	count, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("cart badge contained %q, not a number", text)
	}
	return count, nil
}

// GoToCart navigates to the cart page. Cart contents persist across this navigation
// for the lifetime of the session.
func (p *InventoryPage) GoToCart() error {
	return p.driver.Click(selCartLink)
}

// SignOut ends the session via the side menu, returning to the sign-in page.
func (p *InventoryPage) SignOut() error {
	if err := p.driver.Click(selBurgerMenu); err != nil {
		return err
	}
	return p.driver.Click(selLogoutLink)
}
