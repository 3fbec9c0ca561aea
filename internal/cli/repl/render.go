package repl

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/yndnr/authfront/internal/core/domain"
	"github.com/yndnr/authfront/internal/core/service"
	"github.com/yndnr/authfront/internal/form"
	"github.com/yndnr/authfront/internal/route"
	"github.com/yndnr/authfront/pkg/token"
)

var pageLinks = map[route.Kind][]string{
	route.Welcome:        {route.PathPasswordReset},
	route.Login:          {route.PathRoot, route.PathPasswordReset},
	route.PasswordReset:  {route.PathLogin},
	route.PasswordUpdate: {route.PathLogin},
	route.MissingToken:   {route.PathPasswordReset},
	route.NotFound:       {route.PathRoot},
}

// RenderPage writes a page: its title, flash, forms and links.
func RenderPage(w io.Writer, p route.Page) {
	fmt.Fprintf(w, "== %s ==\n", p.Title)
	if p.Flash != "" {
		fmt.Fprintf(w, "! %s\n", p.Flash)
	}

	switch p.Kind {
	case route.MissingToken:
		fmt.Fprintln(w, "The link is missing its token. Request a new password reset email.")
	case route.NotFound:
		fmt.Fprintf(w, "Nothing at %s.\n", p.Location)
	}

	for _, f := range p.Forms {
		RenderForm(w, f)
	}
	if p.LogoutTo != "" {
		fmt.Fprintln(w, "Type 'logout' to sign out.")
	}
	if links := pageLinks[p.Kind]; len(links) > 0 {
		fmt.Fprintf(w, "Links: %s\n", strings.Join(links, "  "))
	}
}

// RenderForm writes a form's fields and error state. Secret values are
// masked. A register form that succeeded shows its confirmation instead.
func RenderForm(w io.Writer, f form.Form) {
	if reg, ok := f.(*form.Register); ok {
		if msg := reg.Confirmation(); msg != "" {
			fmt.Fprintln(w, msg)
			return
		}
	}
	fmt.Fprintf(w, "[%s]", f.Name())
	if f.IsSubmitting() {
		fmt.Fprint(w, " submitting...")
	}
	fmt.Fprintln(w)

	for _, field := range f.Fields() {
		if field.Hidden {
			continue
		}
		v := f.Get(field.Name)
		if field.Secret && v != "" {
			v = strings.Repeat("*", 8)
		}
		fmt.Fprintf(w, "  %s: %s\n", field.Label, v)
	}

	if msg := f.GeneralError(); msg != "" {
		fmt.Fprintf(w, "  error: %s\n", msg)
	}
	RenderFieldErrors(w, f.Errors())
}

// RenderFieldErrors writes field errors sorted by field name.
func RenderFieldErrors(w io.Writer, errs domain.ValidationErrors) {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, errs[name])
	}
}

// RenderSession writes the session state.
func RenderSession(w io.Writer, s service.Snapshot) {
	fmt.Fprintf(w, "Session: %s\n", s.State)
	if fp := token.Fingerprint(s.Token); fp != "" {
		fmt.Fprintf(w, "Token:   %s\n", fp)
	}
	if s.Expiry == "" {
		return
	}
	if exp, err := time.Parse(time.RFC3339Nano, s.Expiry); err == nil {
		fmt.Fprintf(w, "Expires: %s\n", exp.Local().Format(time.RFC1123))
	}
}

// RenderUser writes the dashboard's account summary.
func RenderUser(w io.Writer, u domain.User) {
	fmt.Fprintf(w, "Signed in as %s\n", u.Email)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Member since %s\n", u.CreatedAt.Local().Format("2006-01-02"))
	}
}
