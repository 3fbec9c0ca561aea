package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/yndnr/authfront/pkg/crypto/seal"
)

// Open creates the KV selected by cfg.Backend.
func Open(cfg Config, logger *slog.Logger) (KV, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryKV(), nil

	case BackendBadger:
		return NewBadgerKV(filepath.Join(cfg.Dir, BadgerDirName), cfg.Badger, logger)

	case BackendFile, "":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file store: dir is required")
		}
		var cipher seal.Cipher
		if cfg.Encrypt {
			key, err := LoadOrCreateKey(filepath.Join(cfg.Dir, KeyFileName))
			if err != nil {
				return nil, fmt.Errorf("file store: %w", err)
			}
			cipher, err = seal.NewChaCha20(key)
			if err != nil {
				return nil, fmt.Errorf("file store: %w", err)
			}
		}
		path := filepath.Join(cfg.Dir, SessionFileName)
		logger.Debug("file store selected", "path", path, "encrypted", cfg.Encrypt)
		return NewFileKV(path, cipher), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
