package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/authfront/pkg/crypto/seal"
)

// SessionFileName is the file backend's file inside Config.Dir.
const SessionFileName = "session.yaml"

// fileAAD binds sealed contents to this file format.
var fileAAD = []byte("authfront-session-v1")

// errUndecodable marks file contents that exist but cannot be decoded.
var errUndecodable = errors.New("undecodable session file")

// FileKV implements KV as a single YAML map on disk.
//
// Every Apply rewrites the whole file through a temp file and rename,
// so other processes never observe a partial write.
type FileKV struct {
	path   string
	cipher seal.Cipher
	mu     sync.Mutex
}

// NewFileKV creates a file-backed store at path. The file is created
// lazily on the first Apply. A nil cipher stores plain YAML.
func NewFileKV(path string, cipher seal.Cipher) *FileKV {
	return &FileKV{path: path, cipher: cipher}
}

// Path returns the file location.
func (f *FileKV) Path() string {
	return f.path
}

// Get retrieves a value by key.
func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return nil, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return []byte(v), nil
}

// Apply rewrites the file with the mutation applied.
//
// Undecodable contents (garbage, or sealed with another key) are
// discarded and replaced; I/O failures are returned.
func (f *FileKV) Apply(ctx context.Context, m Mutation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if errors.Is(err, errUndecodable) {
		entries = make(map[string]string)
	} else if err != nil {
		return err
	}

	for k, v := range m.Set {
		entries[k] = string(v)
	}
	for _, k := range m.Delete {
		delete(entries, k)
	}

	return f.write(entries)
}

// Close is a no-op; the file is not held open.
func (f *FileKV) Close() error {
	return nil
}

func (f *FileKV) read() (map[string]string, error) {
	entries := make(map[string]string)

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return entries, nil
	}

	if f.cipher != nil {
		raw, err = f.cipher.Decrypt(raw, fileAAD)
		if err != nil {
			return nil, fmt.Errorf("%w: decrypt %s: %v", errUndecodable, f.path, err)
		}
	}

	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", errUndecodable, f.path, err)
	}
	return entries, nil
}

func (f *FileKV) write(entries map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if f.cipher != nil {
		data, err = f.cipher.Encrypt(data, fileAAD)
		if err != nil {
			return fmt.Errorf("encrypt session file: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
