package form

import (
	"context"
)

// Register requests an invitation (registration token) by email.
type Register struct {
	*base
	confirmation string
}

// NewRegister creates an empty register form.
func NewRegister(deps Deps) *Register {
	return &Register{base: newBase("register", deps, emailField())}
}

// Submit requests the registration mail. On success the server's
// message replaces the form; there is no navigation.
func (f *Register) Submit(ctx context.Context) (Result, error) {
	return f.submit(ctx, func(ctx context.Context, v map[string]string) (Result, error) {
		msg, err := f.deps.API.RequestRegistration(ctx, v[FieldEmail])
		if err != nil {
			return Result{}, err
		}
		f.mu.Lock()
		f.confirmation = msg
		f.mu.Unlock()
		return Result{Outcome: Succeeded, Message: msg}, nil
	})
}

// Confirmation returns the message of the last successful submit.
func (f *Register) Confirmation() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmation
}
