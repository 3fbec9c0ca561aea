package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/authfront/pkg/crypto/seal"
)

// kvFactories returns every backend under test, each opened in a fresh dir.
func kvFactories(t *testing.T) map[string]func() KV {
	t.Helper()
	return map[string]func() KV{
		"memory": func() KV { return NewMemoryKV() },
		"file": func() KV {
			return NewFileKV(filepath.Join(t.TempDir(), SessionFileName), nil)
		},
		"badger": func() KV {
			kv, err := NewBadgerKV(t.TempDir(), DefaultBadgerConfig(), nil)
			if err != nil {
				t.Fatalf("NewBadgerKV() error = %v", err)
			}
			t.Cleanup(func() { kv.Close() })
			return kv
		},
	}
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()

	for name, open := range kvFactories(t) {
		t.Run(name, func(t *testing.T) {
			kv := open()

			if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrKeyNotFound", err)
			}

			err := kv.Apply(ctx, Mutation{Set: map[string][]byte{
				"a": []byte("1"),
				"b": []byte("2"),
			}})
			if err != nil {
				t.Fatalf("Apply(set) error = %v", err)
			}

			v, err := kv.Get(ctx, "a")
			if err != nil || string(v) != "1" {
				t.Errorf("Get(a) = %q, %v", v, err)
			}

			err = kv.Apply(ctx, Mutation{
				Set:    map[string][]byte{"c": []byte("3")},
				Delete: []string{"a", "never-existed"},
			})
			if err != nil {
				t.Fatalf("Apply(mixed) error = %v", err)
			}

			if _, err := kv.Get(ctx, "a"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("Get(a) after delete error = %v", err)
			}
			if v, _ := kv.Get(ctx, "b"); string(v) != "2" {
				t.Errorf("Get(b) = %q, want 2", v)
			}
			if v, _ := kv.Get(ctx, "c"); string(v) != "3" {
				t.Errorf("Get(c) = %q, want 3", v)
			}
		})
	}
}

func TestMemoryKV_Closed(t *testing.T) {
	kv := NewMemoryKV()
	kv.Close()

	if _, err := kv.Get(context.Background(), "a"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() after Close error = %v, want ErrClosed", err)
	}
	if err := kv.Apply(context.Background(), Mutation{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Apply() after Close error = %v, want ErrClosed", err)
	}
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	val := []byte("abc")
	kv.Apply(context.Background(), Mutation{Set: map[string][]byte{"k": val}})
	val[0] = 'x'

	got, _ := kv.Get(context.Background(), "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed through caller slice: %q", got)
	}
}

func TestFileKV_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", SessionFileName)

	first := NewFileKV(path, nil)
	if err := first.Apply(ctx, Mutation{Set: map[string][]byte{"k": []byte("v")}}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	second := NewFileKV(path, nil)
	v, err := second.Get(ctx, "k")
	if err != nil || string(v) != "v" {
		t.Errorf("Get() from new instance = %q, %v", v, err)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".session-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileKV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), SessionFileName)
	os.WriteFile(path, []byte("  \n"), 0600)

	kv := NewFileKV(path, nil)
	if _, err := kv.Get(context.Background(), "k"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() on empty file error = %v, want ErrKeyNotFound", err)
	}
}

func TestFileKV_Undecodable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), SessionFileName)
	os.WriteFile(path, []byte("{{{ not yaml"), 0600)

	kv := NewFileKV(path, nil)
	_, err := kv.Get(ctx, "k")
	if !errors.Is(err, errUndecodable) {
		t.Fatalf("Get() error = %v, want errUndecodable", err)
	}

	// Writing replaces the garbage.
	if err := kv.Apply(ctx, Mutation{Set: map[string][]byte{"k": []byte("v")}}); err != nil {
		t.Fatalf("Apply() over garbage error = %v", err)
	}
	if v, err := kv.Get(ctx, "k"); err != nil || string(v) != "v" {
		t.Errorf("Get() after rewrite = %q, %v", v, err)
	}
}

func TestFileKV_Sealed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), SessionFileName)

	key := make([]byte, KeySize)
	c, err := seal.NewChaCha20(key)
	if err != nil {
		t.Fatal(err)
	}

	kv := NewFileKV(path, c)
	if err := kv.Apply(ctx, Mutation{Set: map[string][]byte{TokenKey: []byte("secret-token")}}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "secret-token") {
		t.Error("sealed file contains the plaintext token")
	}

	if v, err := kv.Get(ctx, TokenKey); err != nil || string(v) != "secret-token" {
		t.Errorf("Get() = %q, %v", v, err)
	}

	// Another key cannot open it.
	otherKey := make([]byte, KeySize)
	otherKey[0] = 1
	oc, _ := seal.NewChaCha20(otherKey)
	if _, err := NewFileKV(path, oc).Get(ctx, TokenKey); !errors.Is(err, errUndecodable) {
		t.Errorf("Get() with wrong key error = %v, want errUndecodable", err)
	}

	// Nor can a plain reader.
	if _, err := NewFileKV(path, nil).Get(ctx, TokenKey); !errors.Is(err, errUndecodable) {
		t.Errorf("Get() without key error = %v, want errUndecodable", err)
	}
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", KeyFileName)

	key, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKey() error = %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("key len = %d, want %d", len(key), KeySize)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("key file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("key file mode = %o, want 600", perm)
	}

	again, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("second LoadOrCreateKey() error = %v", err)
	}
	if string(again) != string(key) {
		t.Error("existing key should be reused")
	}
}

func TestLoadOrCreateKey_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.key")
	os.WriteFile(bad, []byte("zz-not-hex"), 0600)
	if _, err := LoadOrCreateKey(bad); err == nil {
		t.Error("expected error for non-hex key")
	}

	short := filepath.Join(dir, "short.key")
	os.WriteFile(short, []byte("abcd"), 0600)
	if _, err := LoadOrCreateKey(short); err == nil {
		t.Error("expected error for short key")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		check   func(t *testing.T, kv KV)
	}{
		{
			name: "default is file",
			cfg:  Config{Dir: dir},
			check: func(t *testing.T, kv KV) {
				f, ok := kv.(*FileKV)
				if !ok {
					t.Fatalf("Open() = %T, want *FileKV", kv)
				}
				if f.Path() != filepath.Join(dir, SessionFileName) {
					t.Errorf("Path() = %q", f.Path())
				}
			},
		},
		{
			name: "memory",
			cfg:  Config{Backend: BackendMemory},
			check: func(t *testing.T, kv KV) {
				if _, ok := kv.(*MemoryKV); !ok {
					t.Errorf("Open() = %T, want *MemoryKV", kv)
				}
			},
		},
		{
			name: "encrypted file creates key",
			cfg:  Config{Backend: BackendFile, Dir: dir, Encrypt: true},
			check: func(t *testing.T, kv KV) {
				if _, err := os.Stat(filepath.Join(dir, KeyFileName)); err != nil {
					t.Errorf("key file missing: %v", err)
				}
			},
		},
		{
			name: "badger",
			cfg:  Config{Backend: BackendBadger, Dir: dir, Badger: DefaultBadgerConfig()},
			check: func(t *testing.T, kv KV) {
				if _, ok := kv.(*BadgerKV); !ok {
					t.Errorf("Open() = %T, want *BadgerKV", kv)
				}
			},
		},
		{name: "file without dir", cfg: Config{Backend: BackendFile}, wantErr: true},
		{name: "unknown backend", cfg: Config{Backend: "etcd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, err := Open(tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer kv.Close()
			if tt.check != nil {
				tt.check(t, kv)
			}
		})
	}
}
