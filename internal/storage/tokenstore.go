package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/yndnr/authfront/internal/core/domain"
)

// Fixed keys of the two session entries.
const (
	TokenKey  = "accessToken"
	ExpiryKey = "accessTokenExpiry"
)

// TokenStore reads and writes the session token in a KV, namespaced by
// API origin so that sessions for different servers never mix.
type TokenStore struct {
	kv     KV
	prefix string
}

// NewTokenStore creates a token store over kv for the given origin.
// An empty origin uses the bare keys.
func NewTokenStore(kv KV, origin string) *TokenStore {
	prefix := ""
	if origin != "" {
		prefix = origin + "/"
	}
	return &TokenStore{kv: kv, prefix: prefix}
}

// TokenKey returns the namespaced key of the token entry.
func (s *TokenStore) TokenKey() string { return s.prefix + TokenKey }

// ExpiryKey returns the namespaced key of the expiry entry.
func (s *TokenStore) ExpiryKey() string { return s.prefix + ExpiryKey }

// Load reads the persisted token. A missing entry (either one) yields
// the zero token and no error.
func (s *TokenStore) Load(ctx context.Context) (domain.SessionToken, error) {
	tok, err := s.get(ctx, s.TokenKey())
	if err != nil {
		return domain.SessionToken{}, err
	}
	exp, err := s.get(ctx, s.ExpiryKey())
	if err != nil {
		return domain.SessionToken{}, err
	}

	t := domain.SessionToken{Token: tok, Expiry: exp}
	if !t.Complete() {
		return domain.SessionToken{}, nil
	}
	return t, nil
}

// Save persists t. A token missing either field removes both entries,
// so that "no session" is always encoded as absence.
func (s *TokenStore) Save(ctx context.Context, t domain.SessionToken) error {
	var m Mutation
	if t.Complete() {
		m.Set = map[string][]byte{
			s.TokenKey():  []byte(t.Token),
			s.ExpiryKey(): []byte(t.Expiry),
		}
	} else {
		m.Delete = []string{s.TokenKey(), s.ExpiryKey()}
	}

	if err := s.kv.Apply(ctx, m); err != nil {
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	return nil
}

func (s *TokenStore) get(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	if errors.Is(err, errUndecodable) {
		return "", domain.ErrStorageCorrupt.WithCause(err)
	}
	if err != nil {
		return "", domain.ErrStorageUnavailable.WithCause(err)
	}
	return string(v), nil
}

// Origin reduces a server URL to scheme://host[:port], the namespace of
// its session entries. Unparseable input is returned trimmed.
func Origin(server string) string {
	server = strings.TrimSpace(server)
	u, err := url.Parse(server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimRight(server, "/")
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}
