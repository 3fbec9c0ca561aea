package form

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yndnr/authfront/internal/cli/connection"
)

// Signup creates an account from a registration token, then logs in.
type Signup struct {
	*base
}

// NewSignup creates a signup form prefilled with token and email, as
// taken from the invitation link. A prefilled token is not prompted for.
func NewSignup(deps Deps, token, email string) *Signup {
	tokenField := Field{Name: FieldToken, Label: "Token", Hidden: token != "", Rules: []validation.Rule{validation.Required}}

	f := &Signup{base: newBase("signup", deps, tokenField, emailField(), passwordField())}
	f.values[FieldToken] = token
	f.values[FieldEmail] = email
	return f
}

// Submit creates the user and, only after a 201 Created, authenticates
// with the same email and password, stores the token and redirects to "/".
func (f *Signup) Submit(ctx context.Context) (Result, error) {
	return f.submit(ctx, func(ctx context.Context, v map[string]string) (Result, error) {
		err := f.deps.API.CreateUser(ctx, connection.CreateUserRequest{
			Token:    v[FieldToken],
			Email:    v[FieldEmail],
			Password: v[FieldPassword],
		})
		if err != nil {
			return Result{}, err
		}

		tok, err := f.deps.API.Authenticate(ctx, v[FieldEmail], v[FieldPassword])
		if err != nil {
			return Result{}, err
		}
		f.deps.Session.Login(ctx, tok)
		return Result{Outcome: Succeeded, Redirect: "/"}, nil
	})
}
