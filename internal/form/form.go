package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yndnr/authfront/internal/cli/connection"
	"github.com/yndnr/authfront/internal/core/domain"
	"github.com/yndnr/authfront/internal/telemetry/logger"
	"github.com/yndnr/authfront/internal/telemetry/metric"
)

// General error messages for failures without a server-provided one.
const (
	MsgUnreachable = "could not reach server"
	MsgUnexpected  = "unexpected response from server"
	MsgCanceled    = "request canceled"
)

// Status is the position of a form in its state machine.
type Status int

const (
	Idle Status = iota
	Submitting
	Failed
)

func (s Status) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Outcome classifies a finished submit.
type Outcome int

const (
	// Succeeded means the request and its side effect completed.
	Succeeded Outcome = iota
	// Invalid means field errors were recorded.
	Invalid
	// Rejected means a general error was recorded.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Invalid:
		return "invalid"
	case Rejected:
		return "rejected"
	default:
		return "success"
	}
}

// Result describes a finished submit.
type Result struct {
	Outcome Outcome
	// Message is the server's confirmation on success, the general
	// error on Rejected, empty on Invalid.
	Message string
	// Redirect is the route to navigate to, empty to stay.
	Redirect string
	// Fields holds the field errors on Invalid.
	Fields domain.ValidationErrors
}

// Field describes one input of a form.
type Field struct {
	Name   string
	Label  string
	Secret bool
	// Hidden fields are prefilled and not prompted for.
	Hidden bool
	Rules  []validation.Rule
}

// API is the subset of the API client used by forms.
type API interface {
	Authenticate(ctx context.Context, email, password string) (domain.SessionToken, error)
	RequestRegistration(ctx context.Context, email string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	CreateUser(ctx context.Context, req connection.CreateUserRequest) error
	UpdatePassword(ctx context.Context, req connection.UpdatePasswordRequest) (string, error)
}

// Session receives the token changes caused by a submit.
type Session interface {
	Login(ctx context.Context, t domain.SessionToken)
	Logout(ctx context.Context)
}

// Flash carries a message to the next page.
type Flash interface {
	Set(msg string)
}

// Deps are the collaborators shared by all forms.
type Deps struct {
	API     API
	Session Session
	Flash   Flash
	// Metrics is optional.
	Metrics *metric.Registry
	// Logger is optional.
	Logger logger.Logger
}

// Form is implemented by every form in this package.
type Form interface {
	Name() string
	Fields() []Field
	Get(name string) string
	Set(name, value string) error
	Submit(ctx context.Context) (Result, error)
	Status() Status
	IsSubmitting() bool
	Errors() domain.ValidationErrors
	GeneralError() string
}

// base holds the state shared by all forms.
type base struct {
	name   string
	fields []Field
	deps   Deps

	mu         sync.Mutex
	values     map[string]string
	status     Status
	submitting bool
	errs       domain.ValidationErrors
	general    string
}

func newBase(name string, deps Deps, fields ...Field) *base {
	if deps.Logger == nil {
		deps.Logger = logger.Default()
	}
	return &base{
		name:   name,
		fields: fields,
		deps:   deps,
		values: make(map[string]string, len(fields)),
	}
}

// Name returns the form name.
func (b *base) Name() string { return b.name }

// Fields returns the form inputs in display order.
func (b *base) Fields() []Field {
	return append([]Field(nil), b.fields...)
}

// Get returns the draft value of a field.
func (b *base) Get(name string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.values[name]
}

// Set replaces the draft value of a field.
func (b *base) Set(name, value string) error {
	if !b.hasField(name) {
		return fmt.Errorf("form %s has no field %q", b.name, name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[name] = value
	return nil
}

// Status returns the state machine position.
func (b *base) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// IsSubmitting reports whether a submit is in flight.
func (b *base) IsSubmitting() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.submitting
}

// Errors returns a copy of the field errors of the last submit.
func (b *base) Errors() domain.ValidationErrors {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.errs == nil {
		return nil
	}
	out := make(domain.ValidationErrors, len(b.errs))
	for k, v := range b.errs {
		out[k] = v
	}
	return out
}

// GeneralError returns the general error of the last submit.
func (b *base) GeneralError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.general
}

func (b *base) hasField(name string) bool {
	for _, f := range b.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// submit runs the state machine around call, which receives a snapshot
// of the drafts.
func (b *base) submit(ctx context.Context, call func(ctx context.Context, v map[string]string) (Result, error)) (Result, error) {
	values, err := b.begin()
	if err != nil {
		return Result{}, err
	}

	var res Result
	defer func() { b.finish(res) }()

	if fields := b.check(values); fields != nil {
		res = Result{Outcome: Invalid, Fields: fields}
		return res, nil
	}

	res, err = call(ctx, values)
	if err != nil {
		res = b.classify(ctx, err)
	}
	return res, nil
}

func (b *base) begin() (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.submitting {
		return nil, domain.ErrSubmitInProgress
	}
	b.submitting = true
	b.status = Submitting
	b.errs = nil
	b.general = ""

	values := make(map[string]string, len(b.values))
	for k, v := range b.values {
		values[k] = v
	}
	return values, nil
}

func (b *base) finish(res Result) {
	b.mu.Lock()
	b.submitting = false
	switch res.Outcome {
	case Invalid:
		b.status = Failed
		b.errs = res.Fields
	case Rejected:
		b.status = Failed
		b.general = res.Message
	default:
		b.status = Idle
	}
	b.mu.Unlock()

	if b.deps.Metrics != nil {
		b.deps.Metrics.RecordFormSubmit(b.name, res.Outcome.String())
	}
}

// check applies the client-side field rules.
func (b *base) check(values map[string]string) domain.ValidationErrors {
	errs := validation.Errors{}
	for _, f := range b.fields {
		if len(f.Rules) == 0 {
			continue
		}
		errs[f.Name] = validation.Validate(values[f.Name], f.Rules...)
	}

	err := errs.Filter()
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return domain.ValidationErrors{"": err.Error()}
	}
	out := make(domain.ValidationErrors, len(verrs))
	for k, v := range verrs {
		out[k] = v.Error()
	}
	return out
}

// classify turns a request failure into a field or general error.
func (b *base) classify(ctx context.Context, err error) Result {
	b.deps.Logger.Debug("form submit failed", "form", b.name, "error", err)

	var (
		httpErr      *connection.HTTPError
		transportErr *connection.TransportError
	)
	switch {
	case errors.As(err, &httpErr):
		if fields := httpErr.ValidationErrors(); len(fields) > 0 {
			return Result{Outcome: Invalid, Fields: fields}
		}
		if msg := httpErr.Message(); msg != "" {
			return Result{Outcome: Rejected, Message: msg}
		}
		return Result{Outcome: Rejected, Message: fmt.Sprintf("request failed with status %d", httpErr.StatusCode)}
	case errors.Is(err, context.Canceled):
		return Result{Outcome: Rejected, Message: MsgCanceled}
	case errors.As(err, &transportErr):
		return Result{Outcome: Rejected, Message: MsgUnreachable}
	case errors.Is(err, domain.ErrUnexpectedResponse), errors.Is(err, domain.ErrUnexpectedStatus):
		return Result{Outcome: Rejected, Message: MsgUnexpected}
	default:
		return Result{Outcome: Rejected, Message: err.Error()}
	}
}
