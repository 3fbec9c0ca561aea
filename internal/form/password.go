package form

import (
	"context"

	"github.com/yndnr/authfront/internal/cli/connection"
)

// PasswordReset requests a password reset mail.
type PasswordReset struct {
	*base
}

// NewPasswordReset creates an empty password reset form.
func NewPasswordReset(deps Deps) *PasswordReset {
	return &PasswordReset{base: newBase("password-reset", deps, emailField())}
}

// Submit requests the reset mail, then ends any session, flashes the
// server's message and redirects to "/login".
func (f *PasswordReset) Submit(ctx context.Context) (Result, error) {
	return f.submit(ctx, func(ctx context.Context, v map[string]string) (Result, error) {
		msg, err := f.deps.API.RequestPasswordReset(ctx, v[FieldEmail])
		if err != nil {
			return Result{}, err
		}
		return f.deps.invalidateSession(ctx, msg), nil
	})
}

// PasswordUpdate sets a new password using the token from a reset mail.
type PasswordUpdate struct {
	*base
	token string
}

// NewPasswordUpdate creates a password update form bound to token.
func NewPasswordUpdate(deps Deps, token string) *PasswordUpdate {
	return &PasswordUpdate{
		base:  newBase("password-update", deps, emailField(), passwordField()),
		token: token,
	}
}

// Token returns the reset token the form is bound to.
func (f *PasswordUpdate) Token() string {
	return f.token
}

// Submit updates the password, then ends any session, flashes the
// server's message and redirects to "/login".
func (f *PasswordUpdate) Submit(ctx context.Context) (Result, error) {
	return f.submit(ctx, func(ctx context.Context, v map[string]string) (Result, error) {
		msg, err := f.deps.API.UpdatePassword(ctx, connection.UpdatePasswordRequest{
			Email:    v[FieldEmail],
			Password: v[FieldPassword],
			Token:    f.token,
		})
		if err != nil {
			return Result{}, err
		}
		return f.deps.invalidateSession(ctx, msg), nil
	})
}

func (d Deps) invalidateSession(ctx context.Context, msg string) Result {
	d.Session.Logout(ctx)
	if d.Flash != nil {
		d.Flash.Set(msg)
	}
	return Result{Outcome: Succeeded, Message: msg, Redirect: "/login"}
}
