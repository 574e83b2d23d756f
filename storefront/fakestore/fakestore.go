// Package fakestore is an in-memory simulation of the storefront, implementing
// storefront.PageDriver selector-for-selector. The harness's own tests run the UI
// page abstractions and scenarios against it instead of a real browser.
package fakestore

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/retailqa/storefront-contract-tests/storefront"
)

var _ storefront.PageDriver = (*Driver)(nil)
var _ storefront.Screenshotter = (*Driver)(nil)
var _ storefront.VideoRecorder = (*Driver)(nil)

const (
	pageLogin            = "login"
	pageInventory        = "inventory"
	pageCart             = "cart"
	pageCheckoutInfo     = "checkout-step-one"
	pageCheckoutOverview = "checkout-step-two"
	pageCheckoutComplete = "checkout-complete"
)

const (
	lockedOutMessage = "Epic sadface: Sorry, this user has been locked out."
	mismatchMessage  = "Epic sadface: Username and password do not match any user in this service"
)

// Catalog order is display order; the cart lists items in this order, not in
// insertion order.
var catalog = []struct{ id, name string }{
	{"sauce-labs-backpack", "Sauce Labs Backpack"},
	{"sauce-labs-bike-light", "Sauce Labs Bike Light"},
	{"sauce-labs-bolt-t-shirt", "Sauce Labs Bolt T-Shirt"},
	{"sauce-labs-fleece-jacket", "Sauce Labs Fleece Jacket"},
	{"sauce-labs-onesie", "Sauce Labs Onesie"},
	{"test.allthethings()-t-shirt-(red)", "Test.allTheThings() T-Shirt (Red)"},
}

var validUsers = map[string]bool{
	"standard_user":           true,
	"problem_user":            true,
	"performance_glitch_user": true,
	"error_user":              true,
	"visual_user":             true,
}

const validPassword = "secret_sauce"

// Driver simulates one browser session. Like a real session, it holds the signed-in
// state and cart contents until sign-out.
type Driver struct {
	lock     sync.Mutex
	page     string
	signedIn bool
	cart     map[string]bool
	fields   map[string]string
	errorMsg string

	// ScreenshotData is returned by Screenshot, so artifact capture can be observed
	// in tests. Video is what VideoFile reports.
	ScreenshotData []byte
	Video          string
}

func New() *Driver {
	return &Driver{
		page:   pageLogin,
		cart:   make(map[string]bool),
		fields: make(map[string]string),
	}
}

func (d *Driver) Navigate(path string) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	switch path {
	case "/", "":
		if d.signedIn {
			d.page = pageInventory
		} else {
			d.page = pageLogin
		}
	case "/inventory.html":
		if !d.signedIn {
			return fmt.Errorf("navigation to %s requires a signed-in session", path)
		}
		d.page = pageInventory
	default:
		return fmt.Errorf("unknown path %s", path)
	}
	return nil
}

func (d *Driver) Fill(selector, value string) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	name, ok := dataTest(selector)
	if !ok {
		return fmt.Errorf("cannot fill element %s", selector)
	}
	switch name {
	case "username", "password":
		if d.page != pageLogin {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
	case "firstName", "lastName", "postalCode":
		if d.page != pageCheckoutInfo {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
	default:
		return fmt.Errorf("cannot fill element %s", selector)
	}
	d.fields[name] = value
	return nil
}

func (d *Driver) Click(selector string) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if selector == `#react-burger-menu-btn` {
		if d.page == pageLogin {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
		return nil
	}
	if selector == `#logout_sidebar_link` {
		d.signedIn = false
		d.page = pageLogin
		d.cart = make(map[string]bool)
		d.fields = make(map[string]string)
		return nil
	}

	name, ok := dataTest(selector)
	if !ok {
		return fmt.Errorf("cannot click element %s", selector)
	}
	switch {
	case name == "login-button":
		return d.attemptSignIn()
	case strings.HasPrefix(name, "add-to-cart-"):
		if d.page != pageInventory {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
		d.cart[strings.TrimPrefix(name, "add-to-cart-")] = true
	case strings.HasPrefix(name, "remove-"):
		if d.page != pageInventory && d.page != pageCart {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
		delete(d.cart, strings.TrimPrefix(name, "remove-"))
	case name == "shopping-cart-link":
		if !d.signedIn {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
		d.page = pageCart
	case name == "checkout":
		if d.page != pageCart {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
		d.page = pageCheckoutInfo
	case name == "continue-shopping":
		if d.page != pageCart {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
		d.page = pageInventory
	case name == "continue":
		if d.page != pageCheckoutInfo {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
		if d.fields["firstName"] == "" || d.fields["lastName"] == "" || d.fields["postalCode"] == "" {
			d.errorMsg = "Error: First Name is required"
			return nil
		}
		d.page = pageCheckoutOverview
	case name == "finish":
		if d.page != pageCheckoutOverview {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
		d.page = pageCheckoutComplete
		d.cart = make(map[string]bool)
	case name == "cancel":
		if d.page != pageCheckoutOverview {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
		d.page = pageCart
	case name == "back-to-products":
		if d.page != pageCheckoutComplete {
			return fmt.Errorf("element %s is not present on page %s", selector, d.page)
		}
		d.page = pageInventory
	default:
		return fmt.Errorf("cannot click element %s", selector)
	}
	return nil
}

func (d *Driver) attemptSignIn() error {
	if d.page != pageLogin {
		return fmt.Errorf("login button is not present on page %s", d.page)
	}
	username, password := d.fields["username"], d.fields["password"]
	switch {
	case username == "locked_out_user" && password == validPassword:
		d.errorMsg = lockedOutMessage
	case validUsers[username] && password == validPassword:
		d.signedIn = true
		d.page = pageInventory
		d.errorMsg = ""
	default:
		d.errorMsg = mismatchMessage
	}
	return nil
}

func (d *Driver) Text(selector string) (string, error) {
	text, _, err := d.VisibleText(selector)
	return text, err
}

func (d *Driver) Texts(selector string) ([]string, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if name, ok := dataTest(selector); ok && name == "inventory-item-name" {
		if d.page != pageCart {
			return nil, nil
		}
		var names []string
		for _, product := range catalog {
			if d.cart[product.id] {
				names = append(names, product.name)
			}
		}
		return names, nil
	}
	return nil, fmt.Errorf("unknown selector %s", selector)
}

func (d *Driver) Visible(selector string) (bool, error) {
	_, visible, err := d.VisibleText(selector)
	return visible, err
}

func (d *Driver) VisibleText(selector string) (string, bool, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	name, ok := dataTest(selector)
	if !ok {
		return "", false, nil
	}
	switch name {
	case "title":
		if d.page == pageInventory {
			return "Products", true, nil
		}
	case "shopping-cart-badge":
		if d.signedIn && len(d.cart) > 0 {
			return strconv.Itoa(len(d.cart)), true, nil
		}
	case "error":
		if d.errorMsg != "" && (d.page == pageLogin || d.page == pageCheckoutInfo) {
			return d.errorMsg, true, nil
		}
	case "complete-header":
		if d.page == pageCheckoutComplete {
			return "Thank you for your order!", true, nil
		}
	case "login-button":
		if d.page == pageLogin {
			return "Login", true, nil
		}
	}
	return "", false, nil
}

func (d *Driver) Screenshot() ([]byte, error) {
	return d.ScreenshotData, nil
}

func (d *Driver) VideoFile() string {
	return d.Video
}

// Page reports which simulated page the session is on, for white-box assertions.
func (d *Driver) Page() string {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.page
}

func dataTest(selector string) (string, bool) {
	if strings.HasPrefix(selector, `[data-test="`) && strings.HasSuffix(selector, `"]`) {
		return strings.TrimSuffix(strings.TrimPrefix(selector, `[data-test="`), `"]`), true
	}
	return "", false
}
