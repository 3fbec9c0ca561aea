package connection

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/yndnr/authfront/internal/core/domain"
)

// APIError is the decoded {"error": ...} payload of a failed request.
// Exactly one of Message and Fields is set.
type APIError struct {
	// Message is set when the payload is a string.
	Message string
	// Fields is set when the payload is an object of field messages.
	Fields domain.ValidationErrors
}

// parseAPIError decodes the error envelope, returning nil when the body
// is not JSON or carries no usable "error" member.
func parseAPIError(body []byte) *APIError {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	if len(envelope.Error) == 0 || string(envelope.Error) == "null" {
		return nil
	}

	var msg string
	if err := json.Unmarshal(envelope.Error, &msg); err == nil {
		return &APIError{Message: msg}
	}

	var fields map[string]any
	if err := json.Unmarshal(envelope.Error, &fields); err == nil && fields != nil {
		ve := make(domain.ValidationErrors, len(fields))
		for k, v := range fields {
			if s, ok := v.(string); ok {
				ve[k] = s
			} else {
				ve[k] = fmt.Sprint(v)
			}
		}
		return &APIError{Fields: ve}
	}

	return nil
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	// API is the decoded error payload, nil when the body had none.
	API *APIError
}

func newHTTPError(method, path string, status int, body []byte) *HTTPError {
	return &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       body,
		API:        parseAPIError(body),
	}
}

func (e *HTTPError) Error() string {
	switch {
	case e.API != nil && e.API.Message != "":
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.API.Message)
	case e.API != nil && len(e.API.Fields) > 0:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.API.Fields.Error())
	default:
		return fmt.Sprintf("%s %s: request failed with status %d", e.Method, e.Path, e.StatusCode)
	}
}

// ValidationErrors returns the field errors of a 422 response with an
// object payload, nil otherwise.
func (e *HTTPError) ValidationErrors() domain.ValidationErrors {
	if e.StatusCode != http.StatusUnprocessableEntity || e.API == nil {
		return nil
	}
	return e.API.Fields
}

// Message returns the string payload, empty when there is none.
func (e *HTTPError) Message() string {
	if e.API == nil {
		return ""
	}
	return e.API.Message
}

// TransportError is returned when no response was received at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not reach server: %s %s: %v", e.Method, redactURL(e.URL), e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// redactURL strips any query string, which may carry a verification token.
func redactURL(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
