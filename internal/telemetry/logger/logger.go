package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the logging interface used across authfront.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	// WithContext returns a logger that passes ctx to the handler.
	WithContext(ctx context.Context) Logger

	// Slog returns the underlying *slog.Logger, for components that
	// accept one directly.
	Slog() *slog.Logger
}

// Config holds logger configuration.
type Config struct {
	// Level is debug, info, warn or error. Empty means warn.
	Level string
	// Format is text or json. Empty means text.
	Format string
	// Output defaults to os.Stderr.
	Output    io.Writer
	AddSource bool
}

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return slog.LevelWarn, nil
	}
	level, ok := levels[name]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// New creates a logger. Unknown levels and formats are errors.
func New(cfg Config) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   cfg.AddSource,
		ReplaceAttr: redact,
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(out, opts)
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return wrap(slog.New(requestIDHandler{h})), nil
}

// Discard returns a logger that drops every record.
func Discard() Logger {
	return wrap(slog.New(slog.DiscardHandler))
}

type slogLogger struct {
	l   *slog.Logger
	ctx context.Context
}

func wrap(l *slog.Logger) *slogLogger {
	return &slogLogger{l: l, ctx: context.Background()}
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.DebugContext(s.ctx, msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.InfoContext(s.ctx, msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.WarnContext(s.ctx, msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.ErrorContext(s.ctx, msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...), ctx: s.ctx}
}

func (s *slogLogger) WithContext(ctx context.Context) Logger {
	return &slogLogger{l: s.l, ctx: ctx}
}

func (s *slogLogger) Slog() *slog.Logger { return s.l }

var std atomic.Value

func init() {
	l, _ := New(Config{})
	std.Store(loggerBox{l})
}

// loggerBox keeps the stored dynamic type constant for atomic.Value.
type loggerBox struct{ Logger }

// SetDefault replaces the process logger and makes it the slog default,
// so packages logging through slog.Default share its handler.
func SetDefault(l Logger) {
	std.Store(loggerBox{l})
	slog.SetDefault(l.Slog())
}

// Default returns the process logger.
func Default() Logger {
	return std.Load().(loggerBox).Logger
}
