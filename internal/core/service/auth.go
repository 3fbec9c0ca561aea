package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yndnr/authfront/internal/core/domain"
)

// TokenRepository persists the session token.
//
// Load returns the zero token when nothing is stored.
type TokenRepository interface {
	Load(ctx context.Context) (domain.SessionToken, error)
	Save(ctx context.Context, t domain.SessionToken) error
}

// State is the authentication state of a session.
type State int

const (
	// Anonymous means no usable session token.
	Anonymous State = iota
	// Authenticated means a token whose expiry was in the future at the
	// last evaluation.
	Authenticated
)

// String returns the state name.
func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Snapshot is a consistent copy of the auth state.
type Snapshot struct {
	Token         string
	Expiry        string
	Authenticated bool
	State         State
}

// Session returns the token part of the snapshot.
func (s Snapshot) Session() domain.SessionToken {
	return domain.SessionToken{Token: s.Token, Expiry: s.Expiry}
}

// AuthStateConfig configures an AuthState.
type AuthStateConfig struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger receives storage failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultAuthStateConfig returns the default configuration.
func DefaultAuthStateConfig() *AuthStateConfig {
	return &AuthStateConfig{
		Now:    time.Now,
		Logger: slog.Default(),
	}
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// AuthState holds the session token and its derived authentication state.
//
// Authenticated is a point-in-time value: it is recomputed on Login,
// Logout, Refresh and Reload only. A token that expires between two of
// those calls reads as authenticated until the next one.
type AuthState struct {
	repo   TokenRepository
	now    func() time.Time
	logger *slog.Logger

	mu            sync.RWMutex
	token         domain.SessionToken
	authenticated bool

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

// NewAuthState hydrates the state from repo and evaluates it immediately.
// A repository that cannot be read yields an anonymous state.
func NewAuthState(ctx context.Context, repo TokenRepository, config *AuthStateConfig) *AuthState {
	if config == nil {
		config = DefaultAuthStateConfig()
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &AuthState{
		repo:   repo,
		now:    now,
		logger: logger,
	}
	a.token = a.load(ctx)
	a.evaluate()
	return a
}

// Login replaces the stored token, recomputes the state, persists it and
// notifies subscribers. Persistence failures are logged, not returned.
func (a *AuthState) Login(ctx context.Context, t domain.SessionToken) {
	_, snap := a.set(ctx, t)
	a.notify(snap)
}

// Logout clears the token. Calling it without a session re-persists the
// empty state but notifies no one.
func (a *AuthState) Logout(ctx context.Context) {
	if before, snap := a.set(ctx, domain.SessionToken{}); snap != before {
		a.notify(snap)
	}
}

// IsAuthenticated reports the state as of the last evaluation.
func (a *AuthState) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.authenticated
}

// State returns Authenticated or Anonymous.
func (a *AuthState) State() State {
	return a.Snapshot().State
}

// Token returns the raw token, empty when there is none. It is not
// checked for validity.
func (a *AuthState) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token.Token
}

// Snapshot returns a consistent copy of the state.
func (a *AuthState) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot()
}

// Refresh re-evaluates the token against the clock. Subscribers are
// notified only when the state changed.
func (a *AuthState) Refresh() Snapshot {
	a.mu.Lock()
	before := a.authenticated
	a.evaluate()
	snap := a.snapshot()
	a.mu.Unlock()

	if snap.Authenticated != before {
		a.notify(snap)
	}
	return snap
}

// Reload re-hydrates from the repository, picking up changes written by
// another process. Subscribers are notified only when the token or the
// state changed.
func (a *AuthState) Reload(ctx context.Context) Snapshot {
	t := a.load(ctx)

	a.mu.Lock()
	before := a.snapshot()
	a.token = t
	a.evaluate()
	snap := a.snapshot()
	a.mu.Unlock()

	if snap != before {
		a.notify(snap)
	}
	return snap
}

// Subscribe registers fn to be called after every change, in
// registration order and outside the state lock. The returned function
// removes the subscription.
func (a *AuthState) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextID
	a.nextID++
	a.subs = append(a.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			a.subMu.Lock()
			defer a.subMu.Unlock()
			for i, s := range a.subs {
				if s.id == id {
					a.subs = append(a.subs[:i:i], a.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// set returns the snapshots before and after the change.
func (a *AuthState) set(ctx context.Context, t domain.SessionToken) (before, after Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.save(ctx)

	before = a.snapshot()
	a.token = t
	a.evaluate()
	return before, a.snapshot()
}

// evaluate must be called with mu held.
func (a *AuthState) evaluate() {
	a.authenticated = a.token.ValidAt(a.now())
}

// snapshot must be called with mu held.
func (a *AuthState) snapshot() Snapshot {
	state := Anonymous
	if a.authenticated {
		state = Authenticated
	}
	return Snapshot{
		Token:         a.token.Token,
		Expiry:        a.token.Expiry,
		Authenticated: a.authenticated,
		State:         state,
	}
}

// save must be called with mu held.
func (a *AuthState) save(ctx context.Context) {
	if err := a.repo.Save(ctx, a.token); err != nil {
		a.logger.Warn("failed to persist session", "error", err)
	}
}

func (a *AuthState) load(ctx context.Context) domain.SessionToken {
	t, err := a.repo.Load(ctx)
	if err != nil {
		a.logger.Warn("failed to read persisted session, starting anonymous", "error", err)
		return domain.SessionToken{}
	}
	return t
}

func (a *AuthState) notify(snap Snapshot) {
	a.subMu.Lock()
	subs := append([]subscriber(nil), a.subs...)
	a.subMu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}
