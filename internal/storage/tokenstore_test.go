package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/authfront/internal/core/domain"
)

type failingKV struct {
	getErr, applyErr error
}

func (f failingKV) Get(ctx context.Context, key string) ([]byte, error) { return nil, f.getErr }
func (f failingKV) Apply(ctx context.Context, m Mutation) error         { return f.applyErr }
func (f failingKV) Close() error                                        { return nil }

func TestTokenStore_LoadEmpty(t *testing.T) {
	s := NewTokenStore(NewMemoryKV(), "")

	tok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !tok.IsZero() {
		t.Errorf("Load() = %+v, want zero token", tok)
	}
}

func TestTokenStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewTokenStore(kv, "")

	want := domain.NewSessionToken("abc", time.Now().Add(time.Hour))
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := kv.Get(ctx, TokenKey)
	if err != nil || string(raw) != "abc" {
		t.Errorf("raw %s = %q, %v", TokenKey, raw, err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestTokenStore_ClearRemovesKeys(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewTokenStore(kv, "")

	s.Save(ctx, domain.NewSessionToken("abc", time.Now().Add(time.Hour)))
	if err := s.Save(ctx, domain.SessionToken{}); err != nil {
		t.Fatalf("Save(zero) error = %v", err)
	}

	for _, key := range []string{TokenKey, ExpiryKey} {
		if _, err := kv.Get(ctx, key); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("%s still present after clear (err = %v)", key, err)
		}
	}
}

func TestTokenStore_HalfTokenIsNoSession(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewTokenStore(kv, "")

	// Saving a half token clears.
	s.Save(ctx, domain.SessionToken{Token: "abc"})
	if kv.Len() != 0 {
		t.Errorf("half token persisted %d keys", kv.Len())
	}

	// A half token written by someone else loads as no session.
	kv.Apply(ctx, Mutation{Set: map[string][]byte{TokenKey: []byte("abc")}})
	tok, err := s.Load(ctx)
	if err != nil || !tok.IsZero() {
		t.Errorf("Load() = %+v, %v, want zero token", tok, err)
	}
}

func TestTokenStore_Namespaced(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	a := NewTokenStore(kv, "https://a.example.com")
	b := NewTokenStore(kv, "https://b.example.com")

	if a.TokenKey() != "https://a.example.com/accessToken" {
		t.Errorf("TokenKey() = %q", a.TokenKey())
	}

	a.Save(ctx, domain.NewSessionToken("token-a", time.Now().Add(time.Hour)))

	got, _ := b.Load(ctx)
	if !got.IsZero() {
		t.Errorf("origin b sees %+v, want no session", got)
	}
	got, _ = a.Load(ctx)
	if got.Token != "token-a" {
		t.Errorf("origin a Load() = %+v", got)
	}
}

func TestTokenStore_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")

	s := NewTokenStore(failingKV{getErr: boom, applyErr: boom}, "")

	if _, err := s.Load(ctx); !errors.Is(err, domain.ErrStorageUnavailable) || !errors.Is(err, boom) {
		t.Errorf("Load() error = %v, want ErrStorageUnavailable wrapping cause", err)
	}
	if err := s.Save(ctx, domain.SessionToken{}); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("Save() error = %v, want ErrStorageUnavailable", err)
	}
}

func TestTokenStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), SessionFileName)
	os.WriteFile(path, []byte("\x00\x01garbage: ["), 0600)

	s := NewTokenStore(NewFileKV(path, nil), "")
	if _, err := s.Load(context.Background()); !errors.Is(err, domain.ErrStorageCorrupt) {
		t.Errorf("Load() error = %v, want ErrStorageCorrupt", err)
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://localhost:4000", "http://localhost:4000"},
		{"https://API.Example.com/some/path?q=1", "https://api.example.com"},
		{"http://localhost:4000/", "http://localhost:4000"},
		{"  https://example.com  ", "https://example.com"},
		{"localhost:4000/", "localhost:4000"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Origin(tt.in); got != tt.want {
				t.Errorf("Origin(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
