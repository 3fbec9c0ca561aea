package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSessionToken_ValidAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token SessionToken
		want  bool
	}{
		{"future expiry", NewSessionToken("abc", now.Add(time.Hour)), true},
		{"past expiry", NewSessionToken("abc", now.Add(-time.Hour)), false},
		{"expiry equal to now", NewSessionToken("abc", now), false},
		{"one nanosecond ahead", NewSessionToken("abc", now.Add(time.Nanosecond)), true},
		{"empty token", NewSessionToken("", now.Add(time.Hour)), false},
		{"empty expiry", SessionToken{Token: "abc"}, false},
		{"zero token", SessionToken{}, false},
		{"malformed expiry", SessionToken{Token: "abc", Expiry: "tomorrow"}, false},
		{"offset timezone", SessionToken{Token: "abc", Expiry: "2026-03-01T13:30:00+01:00"}, true},
		{"without fraction", SessionToken{Token: "abc", Expiry: "2026-03-01T12:00:01Z"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.ValidAt(now); got != tt.want {
				t.Errorf("ValidAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionToken_ExpiresAt(t *testing.T) {
	if _, err := (SessionToken{Token: "abc"}).ExpiresAt(); !errors.Is(err, ErrExpiryMissing) {
		t.Errorf("ExpiresAt() error = %v, want ErrExpiryMissing", err)
	}

	_, err := (SessionToken{Token: "abc", Expiry: "not-a-date"}).ExpiresAt()
	if !errors.Is(err, ErrExpiryMalformed) {
		t.Errorf("ExpiresAt() error = %v, want ErrExpiryMalformed", err)
	}

	// Go's time.Time JSON encoding, as emitted by the API.
	tok := SessionToken{Token: "abc", Expiry: "2026-03-01T12:00:00.123456789-05:00"}
	exp, err := tok.ExpiresAt()
	if err != nil {
		t.Fatalf("ExpiresAt() error = %v", err)
	}
	if exp.UTC().Hour() != 17 {
		t.Errorf("ExpiresAt() hour = %d, want 17 UTC", exp.UTC().Hour())
	}
}

func TestSessionToken_IsZeroComplete(t *testing.T) {
	if !(SessionToken{}).IsZero() {
		t.Error("empty token should be zero")
	}
	half := SessionToken{Token: "abc"}
	if half.IsZero() || half.Complete() {
		t.Error("half-filled token should be neither zero nor complete")
	}
	full := SessionToken{Token: "abc", Expiry: "2026-03-01T12:00:00Z"}
	if !full.Complete() {
		t.Error("full token should be complete")
	}
}

func TestValidationErrors(t *testing.T) {
	v := ValidationErrors{"password": "too short", "email": "already taken"}

	if !v.Has("email") || v.Has("token") {
		t.Error("Has() mismatch")
	}
	if v.Get("email") != "already taken" {
		t.Errorf("Get(email) = %q", v.Get("email"))
	}
	if v.Get("token") != "" {
		t.Errorf("Get(token) = %q, want empty", v.Get("token"))
	}

	fields := v.Fields()
	if len(fields) != 2 || fields[0] != "email" || fields[1] != "password" {
		t.Errorf("Fields() = %v", fields)
	}

	want := "email: already taken; password: too short"
	if v.Error() != want {
		t.Errorf("Error() = %q, want %q", v.Error(), want)
	}
}
