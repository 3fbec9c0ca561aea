package command

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/authfront/internal/cli/config"
	"github.com/yndnr/authfront/internal/cli/repl"
	"github.com/yndnr/authfront/internal/infra/shutdown"
	"github.com/yndnr/authfront/internal/route"
	"github.com/yndnr/authfront/internal/storage"
	"github.com/yndnr/authfront/internal/telemetry/metric"
)

const historyFileName = "history"

// ShellCommand starts the interactive shell.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:      "shell",
		Usage:     "Browse the routes interactively",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-address",
				Usage: "serve Prometheus metrics on this address while the shell runs",
			},
		},
		Action: shell,
	}
}

func shell(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}

	sigCtx, stop := shutdown.WithSignals(ctx(c))
	defer stop()

	hooks := shutdown.NewHandler(5 * time.Second)
	defer hooks.Shutdown()

	if addr := env.Config.Metrics.Address; addr != "" {
		if _, err := serveMetrics(env, addr, hooks); err != nil {
			return err
		}
	}
	if err := watchSession(sigCtx, env, hooks); err != nil {
		env.Logger.Warn("session file not watched", "error", err)
	}

	start := route.PathRoot
	if c.Args().Present() {
		start = c.Args().First()
	}
	router := route.NewRouter(env.Auth, route.NewNavigator(start), env.Deps(), env.Flash)

	reader, err := shellReader(env)
	if err != nil {
		return err
	}
	hooks.OnShutdown(func(context.Context) error { return reader.Close() })

	r := repl.New(repl.Config{
		Router:  router,
		Auth:    env.Auth,
		Users:   env.API,
		Reader:  reader,
		History: repl.NewHistory(filepath.Join(config.ExpandHome(env.Config.Storage.Dir), historyFileName), 0),
		Spinner: env.Interactive(),
		Logger:  env.Logger,
	})
	return r.Run(sigCtx)
}

func shellReader(env *Env) (repl.LineReader, error) {
	if !env.Interactive() {
		return repl.NewPlainReader(env.in, env.out), nil
	}
	rw := struct {
		io.Reader
		io.Writer
	}{os.Stdin, env.out}
	return repl.NewTerminalReader(env.stdinFD, rw, repl.NewCompleter())
}

// serveMetrics exposes the registry and the session expiry gauge on
// addr and returns the address actually bound.
func serveMetrics(env *Env, addr string, hooks *shutdown.Handler) (string, error) {
	env.Metrics.MustRegister(metric.NewSessionCollector(func() (time.Time, bool) {
		exp, err := env.Auth.Snapshot().Session().ExpiresAt()
		return exp, err == nil
	}))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", env.Metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			env.Logger.Error("metrics server stopped", "error", err)
		}
	}()
	env.Logger.Info("serving metrics", "address", ln.Addr().String())
	hooks.OnShutdown(srv.Shutdown)
	return ln.Addr().String(), nil
}

// watchSession reloads the session when another process rewrites the
// session file.
func watchSession(ctx context.Context, env *Env, hooks *shutdown.Handler) error {
	fkv, ok := env.KV.(*storage.FileKV)
	if !ok || !env.Config.Storage.Watch {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(fkv.Path()), 0o700); err != nil {
		return err
	}

	w, err := storage.NewWatcher(storage.WithWatcherLogger(env.Logger.Slog()))
	if err != nil {
		return err
	}
	if err := w.Watch(fkv.Path()); err != nil {
		w.Stop()
		return err
	}
	w.OnChange(func(string) {
		snap := env.Auth.Reload(ctx)
		env.Logger.Debug("session file changed", "state", snap.State.String())
	})
	w.StartAsync()
	hooks.OnShutdown(func(context.Context) error { return w.Stop() })
	return nil
}
