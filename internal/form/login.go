package form

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Field names shared across forms.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldToken    = "token"
)

func emailField() Field {
	return Field{Name: FieldEmail, Label: "Email", Rules: []validation.Rule{validation.Required, is.Email}}
}

func passwordField() Field {
	return Field{Name: FieldPassword, Label: "Password", Secret: true, Rules: []validation.Rule{validation.Required}}
}

// Login authenticates with email and password.
type Login struct {
	*base
}

// NewLogin creates an empty login form.
func NewLogin(deps Deps) *Login {
	return &Login{base: newBase("login", deps, emailField(), passwordField())}
}

// Submit authenticates, stores the token and redirects to "/".
func (f *Login) Submit(ctx context.Context) (Result, error) {
	return f.submit(ctx, func(ctx context.Context, v map[string]string) (Result, error) {
		tok, err := f.deps.API.Authenticate(ctx, v[FieldEmail], v[FieldPassword])
		if err != nil {
			return Result{}, err
		}
		f.deps.Session.Login(ctx, tok)
		return Result{Outcome: Succeeded, Redirect: "/"}, nil
	})
}
