package storefront

const (
	selUsername    = `[data-test="username"]`
	selPassword    = `[data-test="password"]`
	selLoginButton = `[data-test="login-button"]`
	selLoginError  = `[data-test="error"]`
)

// LoginPage models the storefront sign-in page. A failed sign-in does not raise: the
// storefront stays on this page and leaves an error indicator visible, which callers
// inspect via ErrorMessage.
type LoginPage struct {
	driver PageDriver
}

func NewLoginPage(driver PageDriver) *LoginPage {
	return &LoginPage{driver: driver}
}

// Open navigates to the sign-in page.
func (p *LoginPage) Open() error {
	return p.driver.Navigate("/")
}

// SignIn submits the credential form. On success the storefront transitions to the
// inventory page; on failure it stays here with the error indicator set.
func (p *LoginPage) SignIn(username, password string) error {
	if err := p.driver.Fill(selUsername, username); err != nil {
		return err
	}
	if err := p.driver.Fill(selPassword, password); err != nil {
		return err
	}
	return p.driver.Click(selLoginButton)
}

// ErrorMessage returns the text of the sign-in error indicator, or "" when no error
// is displayed.
func (p *LoginPage) ErrorMessage() (string, error) {
	text, visible, err := p.driver.VisibleText(selLoginError)
	if err != nil || !visible {
		return "", err
	}
	return text, nil
}

// Displayed reports whether the sign-in form is currently shown.
func (p *LoginPage) Displayed() (bool, error) {
	return p.driver.Visible(selLoginButton)
}
