package storage

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv store closed")
)

// KV is a small durable key-value store.
//
// Implementations must be safe for concurrent use and must apply a
// Mutation atomically: readers observe either none or all of it.
type KV interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Apply writes and deletes keys in one atomic step.
	Apply(ctx context.Context, m Mutation) error

	// Close releases the underlying resources.
	Close() error
}

// Mutation is a set of writes applied together by KV.Apply.
type Mutation struct {
	Set    map[string][]byte
	Delete []string
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Config configures the KV backend.
type Config struct {
	// Backend selects the implementation ("file", "badger", "memory").
	// Default: "file"
	Backend string

	// Dir is the storage directory.
	Dir string

	// Encrypt seals the file backend with a key kept next to it.
	Encrypt bool

	// Badger-specific configuration
	Badger BadgerConfig
}

// BadgerConfig contains Badger tuning parameters sized for a handful of keys.
type BadgerConfig struct {
	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 1MB (the smallest Badger accepts)
	ValueLogFileSize int64

	// CacheSize is the block cache size in bytes.
	// Default: 1MB
	CacheSize int64

	// SyncWrites enables fsync after each write.
	// Default: true
	SyncWrites bool
}

// DefaultConfig returns the default storage configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Backend: BackendFile,
		Dir:     dir,
		Badger:  DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		ValueLogFileSize: 1 << 20,
		CacheSize:        1 << 20,
		SyncWrites:       true,
	}
}
