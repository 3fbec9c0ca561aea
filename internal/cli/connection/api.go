package connection

import (
	"context"
	"net/http"

	"github.com/yndnr/authfront/internal/core/domain"
)

// Endpoint paths relative to the API root.
const (
	PathAuthentication = "tokens/authentication"
	PathRegistration   = "tokens/verification/registration"
	PathPasswordReset  = "tokens/verification/password-reset"
	PathUsers          = "users"
	PathCurrentUser    = "users/me"
	PathPassword       = "users/password"
	PathHealthcheck    = "healthcheck"
)

// Credentials is the body of an authentication request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserRequest is the body of a signup request.
type CreateUserRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdatePasswordRequest is the body of a password update.
type UpdatePasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

// Health is the healthcheck payload.
type Health struct {
	Status     string `json:"status" yaml:"status"`
	SystemInfo struct {
		Environment string `json:"environment" yaml:"environment"`
		Version     string `json:"version" yaml:"version"`
	} `json:"system_info" yaml:"system_info"`
}

// API exposes the endpoints as typed methods.
type API struct {
	client *HTTPClient
}

// NewAPI wraps client.
func NewAPI(client *HTTPClient) *API {
	return &API{client: client}
}

// Client returns the underlying HTTP client.
func (a *API) Client() *HTTPClient {
	return a.client
}

// Authenticate exchanges credentials for a session token.
func (a *API) Authenticate(ctx context.Context, email, password string) (domain.SessionToken, error) {
	resp, err := a.client.Post(ctx, PathAuthentication, Credentials{Email: email, Password: password})
	if err != nil {
		return domain.SessionToken{}, err
	}

	var out struct {
		AuthenticationToken *domain.SessionToken `json:"authentication_token"`
	}
	if err := resp.Decode(&out); err != nil {
		return domain.SessionToken{}, domain.ErrUnexpectedResponse.WithCause(err)
	}
	if out.AuthenticationToken == nil || !out.AuthenticationToken.Complete() {
		return domain.SessionToken{}, domain.ErrUnexpectedResponse.WithDetails("missing authentication_token")
	}
	return *out.AuthenticationToken, nil
}

// RequestRegistration asks the server to mail a registration token and
// returns its confirmation message.
func (a *API) RequestRegistration(ctx context.Context, email string) (string, error) {
	return a.message(ctx, http.MethodPost, PathRegistration, map[string]string{"email": email})
}

// RequestPasswordReset asks the server to mail a password reset token
// and returns its confirmation message.
func (a *API) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return a.message(ctx, http.MethodPost, PathPasswordReset, map[string]string{"email": email})
}

// CreateUser creates an account from a registration token. Any status
// other than 201 Created is an error.
func (a *API) CreateUser(ctx context.Context, req CreateUserRequest) error {
	resp, err := a.client.Post(ctx, PathUsers, req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return domain.ErrUnexpectedStatus.WithDetails(http.StatusText(resp.StatusCode))
	}
	return nil
}

// CurrentUser returns the user owning the current token.
func (a *API) CurrentUser(ctx context.Context) (domain.User, error) {
	resp, err := a.client.Get(ctx, PathCurrentUser)
	if err != nil {
		return domain.User{}, err
	}

	var out struct {
		User *domain.User `json:"user"`
	}
	if err := resp.Decode(&out); err != nil {
		return domain.User{}, domain.ErrUnexpectedResponse.WithCause(err)
	}
	if out.User == nil || out.User.Email == "" {
		return domain.User{}, domain.ErrUnexpectedResponse.WithDetails("missing user")
	}
	return *out.User, nil
}

// UpdatePassword sets a new password using a password reset token and
// returns the server's confirmation message.
func (a *API) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) (string, error) {
	return a.message(ctx, http.MethodPut, PathPassword, req)
}

// Healthcheck reports server availability.
func (a *API) Healthcheck(ctx context.Context) (Health, error) {
	resp, err := a.client.Get(ctx, PathHealthcheck)
	if err != nil {
		return Health{}, err
	}

	var h Health
	if err := resp.Decode(&h); err != nil {
		return Health{}, domain.ErrUnexpectedResponse.WithCause(err)
	}
	if h.Status == "" {
		return Health{}, domain.ErrUnexpectedResponse.WithDetails("missing status")
	}
	return h, nil
}

// message sends a request whose success body is {"message": "..."}.
func (a *API) message(ctx context.Context, method, path string, body any) (string, error) {
	resp, err := a.client.Do(ctx, method, path, body)
	if err != nil {
		return "", err
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", domain.ErrUnexpectedResponse.WithCause(err)
	}
	if out.Message == "" {
		return "", domain.ErrUnexpectedResponse.WithDetails("missing message")
	}
	return out.Message, nil
}
