package domain

import "time"

// SessionToken is the bearer credential issued by the authentication
// endpoint. Expiry is kept in its wire form (RFC 3339) so that a token
// read back from storage is byte-identical to the one that was saved.
type SessionToken struct {
	Token  string `json:"token" yaml:"token"`
	Expiry string `json:"expiry" yaml:"expiry"`
}

// IsZero reports whether both fields are empty ("no session").
func (t SessionToken) IsZero() bool {
	return t.Token == "" && t.Expiry == ""
}

// Complete reports whether both fields are set.
func (t SessionToken) Complete() bool {
	return t.Token != "" && t.Expiry != ""
}

// ExpiresAt parses the expiry timestamp.
func (t SessionToken) ExpiresAt() (time.Time, error) {
	if t.Expiry == "" {
		return time.Time{}, ErrExpiryMissing
	}
	exp, err := time.Parse(time.RFC3339Nano, t.Expiry)
	if err != nil {
		return time.Time{}, ErrExpiryMalformed.WithCause(err)
	}
	return exp, nil
}

// ValidAt reports whether the token is usable at now: both fields are
// non-empty and the expiry is strictly after now. A malformed expiry is
// never valid.
func (t SessionToken) ValidAt(now time.Time) bool {
	if !t.Complete() {
		return false
	}
	exp, err := t.ExpiresAt()
	if err != nil {
		return false
	}
	return exp.After(now)
}

// NewSessionToken builds a token expiring at expiresAt, formatted the way
// the API encodes it. Mostly useful for tests and fixtures.
func NewSessionToken(token string, expiresAt time.Time) SessionToken {
	return SessionToken{
		Token:  token,
		Expiry: expiresAt.Format(time.RFC3339Nano),
	}
}
