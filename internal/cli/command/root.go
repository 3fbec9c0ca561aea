package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/authfront/internal/cli/config"
	"github.com/yndnr/authfront/internal/cli/connection"
	"github.com/yndnr/authfront/internal/cli/output"
	"github.com/yndnr/authfront/internal/core/service"
	"github.com/yndnr/authfront/internal/flash"
	"github.com/yndnr/authfront/internal/form"
	"github.com/yndnr/authfront/internal/infra/buildinfo"
	"github.com/yndnr/authfront/internal/infra/tlsroots"
	"github.com/yndnr/authfront/internal/storage"
	"github.com/yndnr/authfront/internal/telemetry/logger"
	"github.com/yndnr/authfront/internal/telemetry/metric"
)

const envKey = "env"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "authfront-cli",
		Usage:   "Sign in, sign up and manage passwords against an authfront API",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			StatusCommand(),
			RegisterCommand(),
			SignupCommand(),
			PasswordCommand(),
			MeCommand(),
			HealthCommand(),
			ShellCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		After: func(c *cli.Context) error {
			if env, ok := c.App.Metadata[envKey].(*Env); ok {
				delete(c.App.Metadata, envKey)
				return env.Close()
			}
			return nil
		},
	}
}

// globalFlags returns the flags shared by all commands. Unset flags
// leave the config file and AUTHFRONT_* environment in charge.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file",
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "API server origin (e.g. http://localhost:4000)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  "storage",
			Usage: "session storage backend: file, badger, memory",
		},
		&cli.StringFlag{
			Name:  "storage-dir",
			Usage: "session storage directory",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "request timeout",
		},
		&cli.StringFlag{
			Name:  "ca-file",
			Usage: "PEM bundle of extra trusted CAs",
		},
	}
}

// flagKeys maps global flags to config keys.
var flagKeys = map[string]string{
	"server":      "server",
	"output":      "output",
	"log-level":   "log.level",
	"storage":     "storage.backend",
	"storage-dir": "storage.dir",
	"ca-file":     "tls.ca_file",
}

// loadConfig resolves the configuration with explicitly set flags on
// top.
func loadConfig(c *cli.Context) (*config.CLIConfig, error) {
	overrides := map[string]any{}
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if c.IsSet("timeout") {
		overrides["timeout"] = c.Duration("timeout").String()
	}
	if c.IsSet("metrics-address") {
		overrides["metrics.address"] = c.String("metrics-address")
	}
	return config.Load(c.String("config"), overrides)
}

// Env holds the collaborators of one CLI run.
type Env struct {
	Config  *config.CLIConfig
	Logger  logger.Logger
	Metrics *metric.Registry
	KV      storage.KV
	Store   *storage.TokenStore
	Auth    *service.AuthState
	API     *connection.API
	Flash   *flash.Store

	out     io.Writer
	errOut  io.Writer
	in      *bufio.Reader
	stdinFD int
	unsub   func()
}

// GetEnv returns the run's Env, building it on first use.
func GetEnv(c *cli.Context) (*Env, error) {
	if env, ok := c.App.Metadata[envKey].(*Env); ok {
		return env, nil
	}
	env, err := newEnv(c)
	if err != nil {
		return nil, err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[envKey] = env
	return env, nil
}

func newEnv(c *cli.Context) (*Env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	errOut := c.App.ErrWriter
	if errOut == nil {
		errOut = os.Stderr
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: errOut})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	kv, err := storage.Open(cfg.StorageConfig(), log.Slog())
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	reg := metric.NewRegistry()
	store := storage.NewTokenStore(kv, storage.Origin(cfg.Server))
	auth := service.NewAuthState(ctx(c), store, &service.AuthStateConfig{
		Now:    time.Now,
		Logger: log.Slog(),
	})
	reg.SetAuthenticated(auth.IsAuthenticated())
	unsub := auth.Subscribe(func(s service.Snapshot) {
		reg.SetAuthenticated(s.Authenticated)
		reg.RecordSessionTransition(s.State.String())
	})

	opts := []connection.Option{
		connection.WithTimeout(cfg.Timeout),
		connection.WithRateLimit(cfg.RateLimit),
		connection.WithMetrics(reg),
		connection.WithLogger(log),
	}
	tlsCfg, err := tlsroots.ClientConfig(cfg.TLS.CAFile)
	if err != nil {
		kv.Close()
		return nil, err
	}
	if tlsCfg != nil {
		opts = append(opts, connection.WithTLSConfig(tlsCfg))
	}

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}

	return &Env{
		Config:  cfg,
		Logger:  log,
		Metrics: reg,
		KV:      kv,
		Store:   store,
		Auth:    auth,
		API:     connection.NewAPI(connection.NewHTTPClient(cfg.Server, auth, opts...)),
		Flash:   flash.New(),
		out:     out,
		errOut:  errOut,
		in:      bufio.NewReader(in),
		stdinFD: fd,
		unsub:   unsub,
	}, nil
}

// Deps returns the form collaborators.
func (e *Env) Deps() form.Deps {
	return form.Deps{
		API:     e.API,
		Session: e.Auth,
		Flash:   e.Flash,
		Metrics: e.Metrics,
		Logger:  e.Logger,
	}
}

// Interactive reports whether stdin is a terminal.
func (e *Env) Interactive() bool {
	return e.stdinFD >= 0
}

// Print writes data in the configured output format.
func (e *Env) Print(data any) error {
	format, err := output.ParseFormat(e.Config.Output)
	if err != nil {
		return err
	}
	return output.NewFormatter(format).Format(e.out, data)
}

// Printf writes a human-readable line. It is suppressed for json and
// yaml output so that stdout stays machine-readable.
func (e *Env) Printf(format string, args ...any) {
	if f, _ := output.ParseFormat(e.Config.Output); f != output.FormatTable {
		return
	}
	fmt.Fprintf(e.out, format, args...)
}

// Prompt asks for a value on stderr. Secret values are read without
// echo when stdin is a terminal. End of input yields "".
func (e *Env) Prompt(label string, secret bool) (string, error) {
	fmt.Fprintf(e.errOut, "%s: ", label)
	if secret && e.Interactive() {
		b, err := term.ReadPassword(e.stdinFD)
		fmt.Fprintln(e.errOut)
		return string(b), err
	}

	line, err := e.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close releases the token store.
func (e *Env) Close() error {
	if e.unsub != nil {
		e.unsub()
	}
	return e.KV.Close()
}

func ctx(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
