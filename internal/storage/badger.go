package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/dgraph-io/badger/v3"
)

// BadgerDirName is the subdirectory of Config.Dir holding the database.
const BadgerDirName = "session.db"

// BadgerKV implements KV using Badger v3.
type BadgerKV struct {
	db     *badger.DB
	logger *slog.Logger
	closed atomic.Bool
}

// NewBadgerKV opens (or creates) a Badger database in dir.
func NewBadgerKV(dir string, cfg BadgerConfig, logger *slog.Logger) (*BadgerKV, error) {
	if dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With("component", "badger")
	opts := badger.DefaultOptions(dir)
	opts.Logger = badgerLogger{logger}
	opts.ValueLogFileSize = cfg.ValueLogFileSize
	opts.BlockCacheSize = cfg.CacheSize
	opts.SyncWrites = cfg.SyncWrites
	opts.NumMemtables = 1
	opts.NumLevelZeroTables = 1
	opts.NumLevelZeroTablesStall = 2

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	logger.Debug("store opened", "dir", dir)
	return &BadgerKV{db: db, logger: logger}, nil
}

// Get retrieves a value by key.
func (b *BadgerKV) Get(ctx context.Context, key string) ([]byte, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Apply writes and deletes keys in a single transaction.
func (b *BadgerKV) Apply(ctx context.Context, m Mutation) error {
	if b.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		for k, v := range m.Set {
			if err := txn.Set([]byte(k), v); err != nil {
				return err
			}
		}
		for _, k := range m.Delete {
			if err := txn.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close gracefully shuts down the database.
func (b *BadgerKV) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	b.logger.Debug("store closed")
	return nil
}

// badgerLogger routes Badger's printf logging to slog. Badger reports
// compactions and value log replays at info level; those are debug
// here so that opening the store stays quiet at the CLI's warn default.
type badgerLogger struct {
	l *slog.Logger
}

func (b badgerLogger) Errorf(format string, args ...any)   { b.log(slog.LevelError, format, args) }
func (b badgerLogger) Warningf(format string, args ...any) { b.log(slog.LevelWarn, format, args) }
func (b badgerLogger) Infof(format string, args ...any)    { b.log(slog.LevelDebug, format, args) }
func (b badgerLogger) Debugf(format string, args ...any)   { b.log(slog.LevelDebug, format, args) }

func (b badgerLogger) log(level slog.Level, format string, args []any) {
	if !b.l.Enabled(context.Background(), level) {
		return
	}
	b.l.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)))
}
