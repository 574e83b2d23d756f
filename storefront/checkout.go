package storefront

import "fmt"

const (
	selFirstNameInput  = `[data-test="firstName"]`
	selLastNameInput   = `[data-test="lastName"]`
	selPostalCodeInput = `[data-test="postalCode"]`
	selContinueButton  = `[data-test="continue"]`
	selFinishButton    = `[data-test="finish"]`
	selCancelButton    = `[data-test="cancel"]`
	selCompleteHeader  = `[data-test="complete-header"]`
	selBackHomeButton  = `[data-test="back-to-products"]`
)

// CompletionBannerText is the exact confirmation the storefront displays when an
// order has been placed.
const CompletionBannerText = "Thank you for your order!"

// CheckoutStage identifies a state in the checkout flow.
type CheckoutStage int

const (
	StageCart CheckoutStage = iota
	StageInformation
	StageOverview
	StageComplete
)

func (s CheckoutStage) String() string {
	switch s {
	case StageCart:
		return "cart"
	case StageInformation:
		return "information"
	case StageOverview:
		return "overview"
	case StageComplete:
		return "complete"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// CheckoutPage drives the checkout state machine:
//
//	Cart -> Information -> Overview -> Complete
//
// with Cancel transitioning Overview back to Cart. Each transition has
// prerequisites; an operation attempted from the wrong stage or with required
// fields missing fails with StateTransitionError before touching the page.
// Complete is terminal for the session; re-entering the flow from the cart starts
// fresh, with the cart contents unaffected unless items were removed.
type CheckoutPage struct {
	driver PageDriver
	stage  CheckoutStage
}

// A CheckoutPage is only obtained via CartPage.ProceedToCheckout, which is the
// Cart -> Information transition.
func newCheckoutPage(driver PageDriver) *CheckoutPage {
	return &CheckoutPage{driver: driver, stage: StageInformation}
}

func (p *CheckoutPage) Stage() CheckoutStage {
	return p.stage
}

// SubmitInformation fills the buyer form and advances Information -> Overview. All
// three fields must be non-empty.
func (p *CheckoutPage) SubmitInformation(firstName, lastName, postalCode string) error {
	if p.stage != StageInformation {
		return StateTransitionError{Stage: p.stage, Operation: "submit information", Reason: "form is only available at the information stage"}
	}
	if firstName == "" || lastName == "" || postalCode == "" {
		return StateTransitionError{Stage: p.stage, Operation: "submit information", Reason: "first name, last name, and postal code are all required"}
	}
	if err := p.driver.Fill(selFirstNameInput, firstName); err != nil {
		return err
	}
	if err := p.driver.Fill(selLastNameInput, lastName); err != nil {
		return err
	}
	if err := p.driver.Fill(selPostalCodeInput, postalCode); err != nil {
		return err
	}
	if err := p.driver.Click(selContinueButton); err != nil {
		return err
	}
	p.stage = StageOverview
	return nil
}

// Finish places the order, advancing Overview -> Complete.
func (p *CheckoutPage) Finish() error {
	if p.stage != StageOverview {
		return StateTransitionError{Stage: p.stage, Operation: "finish", Reason: "order can only be placed from the overview stage"}
	}
	if err := p.driver.Click(selFinishButton); err != nil {
		return err
	}
	p.stage = StageComplete
	return nil
}

// Cancel abandons the flow, returning Overview -> Cart. The cart contents are kept.
func (p *CheckoutPage) Cancel() error {
	if p.stage != StageOverview {
		return StateTransitionError{Stage: p.stage, Operation: "cancel", Reason: "only the overview stage can be cancelled"}
	}
	if err := p.driver.Click(selCancelButton); err != nil {
		return err
	}
	p.stage = StageCart
	return nil
}

// AssertComplete verifies that the completion banner is visible with exactly the
// expected confirmation text. Visibility and content are read in one combined query
// so the check cannot race with the page and see a visible element with stale text.
func (p *CheckoutPage) AssertComplete() error {
	text, visible, err := p.driver.VisibleText(selCompleteHeader)
	if err != nil {
		return err
	}
	if !visible {
		return fmt.Errorf("completion banner is not visible (checkout stage %s)", p.stage)
	}
	if text != CompletionBannerText {
		return fmt.Errorf("completion banner says %q, expected %q", text, CompletionBannerText)
	}
	return nil
}

// BackToProducts returns to the inventory page after a completed order.
func (p *CheckoutPage) BackToProducts() error {
	if p.stage != StageComplete {
		return StateTransitionError{Stage: p.stage, Operation: "return to products", Reason: "only available after completion"}
	}
	return p.driver.Click(selBackHomeButton)
}
