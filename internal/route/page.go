package route

import (
	"github.com/yndnr/authfront/internal/form"
)

// Route paths.
const (
	PathRoot           = "/"
	PathDashboard      = "/dashboard"
	PathLogin          = "/login"
	PathSignup         = "/signup"
	PathPasswordReset  = "/password-reset"
	PathPasswordUpdate = "/password-update"
)

// Kind identifies what a page shows.
type Kind int

const (
	Authenticating Kind = iota
	Welcome
	Dashboard
	Login
	Signup
	PasswordReset
	PasswordUpdate
	MissingToken
	NotFound
)

var kindTitles = map[Kind]string{
	Authenticating: "Authenticating...",
	Welcome:        "Welcome",
	Dashboard:      "Dashboard",
	Login:          "Login",
	Signup:         "Signup",
	PasswordReset:  "Password Reset",
	PasswordUpdate: "Password Update",
	MissingToken:   "Missing token",
	NotFound:       "Not Found",
}

func (k Kind) String() string {
	return kindTitles[k]
}

// Page is a resolved location.
type Page struct {
	Kind Kind
	// Location is the path and query the page was resolved from.
	Location string
	Title    string
	// Flash is the one-shot message shown on the login page.
	Flash string
	// Forms are the page's forms in display order.
	Forms []form.Form
	// LogoutTo is where logging out from this page leads, empty when
	// the page offers no logout.
	LogoutTo string
}

// Form returns the page form with the given name, nil if absent.
func (p Page) Form(name string) form.Form {
	for _, f := range p.Forms {
		if f.Name() == name {
			return f
		}
	}
	return nil
}
