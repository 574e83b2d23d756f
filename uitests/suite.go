package uitests

import (
	"github.com/stretchr/testify/require"

	"github.com/retailqa/storefront-contract-tests/fixtures"
	"github.com/retailqa/storefront-contract-tests/framework"
	"github.com/retailqa/storefront-contract-tests/storefront"
)

// Config is everything the UI project needs, supplied as opaque parameters.
type Config struct {
	// BaseURL of the storefront under test.
	BaseURL string

	// DriverServiceURL is the root endpoint of the external browser-automation
	// service. When it is empty and no NewDriver override is given, every UI
	// scenario is skipped with a reason, the same way a missing capability is
	// handled elsewhere in the harness.
	DriverServiceURL string

	// NewDriver overrides how a page driver session is constructed. The harness's
	// own tests substitute an in-memory storefront here.
	NewDriver func(tag string, logger framework.Logger) (storefront.PageDriver, error)
}

func (cfg Config) driverFactory() func(tag string, logger framework.Logger) (storefront.PageDriver, error) {
	if cfg.NewDriver != nil {
		return cfg.NewDriver
	}
	if cfg.DriverServiceURL == "" {
		return nil
	}
	return func(tag string, logger framework.Logger) (storefront.PageDriver, error) {
		return storefront.NewSession(cfg.DriverServiceURL, cfg.BaseURL, tag, logger)
	}
}

type sessionCloser interface {
	Close() error
}

// T represents one scenario's scope in the UI test suite. Every T owns a fresh
// browser session and page abstractions over it; the session is closed at teardown.
type T struct {
	c         *framework.Context
	driver    storefront.PageDriver
	login     *storefront.LoginPage
	inventory *storefront.InventoryPage
	cart      *storefront.CartPage
}

func newTestScope(c *framework.Context, cfg Config) *T {
	factory := cfg.driverFactory()
	if factory == nil {
		c.SkipWithReason("no browser driver service configured")
	}
	driver, err := factory(c.ID().String(), c.DebugLogger())
	if err != nil {
		c.Errorf("could not start a browser session: %s", err)
		c.FailNow()
	}

	if shooter, ok := driver.(storefront.Screenshotter); ok {
		c.RegisterScreenshot(shooter.Screenshot)
	}
	if recorder, ok := driver.(storefront.VideoRecorder); ok {
		c.RegisterVideo(recorder.VideoFile)
	}
	if closer, ok := driver.(sessionCloser); ok {
		c.Defer(func() {
			if err := closer.Close(); err != nil {
				c.Debug("could not close browser session: %s", err)
			}
		})
	}

	return &T{
		c:         c,
		driver:    driver,
		login:     storefront.NewLoginPage(driver),
		inventory: storefront.NewInventoryPage(driver),
		cart:      storefront.NewCartPage(driver),
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an
// immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.c.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The
// methods in the require package call FailNow.
func (t *T) FailNow() {
	t.c.FailNow()
}

// Debug logs some debug output for the scenario.
func (t *T) Debug(format string, args ...interface{}) {
	t.c.Debug(format, args...)
}

func (t *T) Login() *storefront.LoginPage         { return t.login }
func (t *T) Inventory() *storefront.InventoryPage { return t.inventory }
func (t *T) Cart() *storefront.CartPage           { return t.cart }

// SignInAsStandardUser opens the storefront and signs in with the standard account,
// failing the scenario immediately if the inventory page does not appear.
func (t *T) SignInAsStandardUser() {
	user := fixtures.StorefrontUsers.Standard
	require.NoError(t, t.login.Open())
	require.NoError(t, t.login.SignIn(user.Username, user.Password))
	displayed, err := t.inventory.Displayed()
	require.NoError(t, err)
	require.True(t, displayed, "inventory page did not appear after sign-in")
}

// RequireCartCount reads the badge and fails the scenario on a mismatch.
func (t *T) RequireCartCount(expected int) {
	count, err := t.inventory.CartCount()
	require.NoError(t, err)
	require.Equal(t, expected, count, "cart badge count")
}

func scenario(name string, cfg Config, action func(*T)) framework.Scenario {
	return framework.Scenario{
		Name: name,
		Action: func(c *framework.Context) {
			action(newTestScope(c, cfg))
		},
	}
}

// Project assembles the UI-oriented scenario group.
func Project(cfg Config) framework.Project {
	return framework.Project{
		Name: "ui",
		Scenarios: []framework.Scenario{
			scenario("sign-in with valid credentials shows the products page", cfg, doValidSignInScenario),
			scenario("locked-out user sees an error indicator", cfg, doLockedOutScenario),
			scenario("invalid credentials see an error indicator", cfg, doInvalidSignInScenario),
			scenario("sign-out returns to the sign-in page", cfg, doSignOutScenario),
			scenario("sign-in works again after sign-out", cfg, doSignInAfterSignOutScenario),
			scenario("adding an item updates the cart badge", cfg, doAddItemScenario),
			scenario("adding several items lists them all in the cart", cfg, doAddSeveralItemsScenario),
			scenario("removing an item from the cart", cfg, doRemoveItemScenario),
			scenario("full checkout flow ends with the confirmation banner", cfg, doFullCheckoutScenario),
			scenario("checkout can be cancelled from the overview", cfg, doCancelCheckoutScenario),
			scenario("continue shopping returns to the products page", cfg, doContinueShoppingScenario),
			scenario("cart contents survive navigation", cfg, doCartPersistenceScenario),
		},
	}
}
