package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/yndnr/authfront/internal/cli/output"
	"github.com/yndnr/authfront/internal/core/domain"
	"github.com/yndnr/authfront/internal/core/service"
	"github.com/yndnr/authfront/internal/form"
	"github.com/yndnr/authfront/internal/route"
	"github.com/yndnr/authfront/internal/telemetry/logger"
)

// ErrUnknownCommand is returned for input that names no command.
var ErrUnknownCommand = errors.New("unknown command")

// Auth exposes the session to the status command.
type Auth interface {
	Snapshot() service.Snapshot
}

// Users loads the account shown on the dashboard.
type Users interface {
	CurrentUser(ctx context.Context) (domain.User, error)
}

// Config wires a REPL.
type Config struct {
	Router *route.Router
	Auth   Auth
	// Users is optional; without it the dashboard shows no account.
	Users  Users
	Reader LineReader
	// History is optional.
	History *History
	// Spinner shows a spinner while a form is submitting.
	Spinner bool
	Logger  logger.Logger
}

// REPL is the interactive shell.
type REPL struct {
	router  *route.Router
	auth    Auth
	users   Users
	in      LineReader
	out     io.Writer
	history *History
	spinner bool
	logger  logger.Logger

	outMu sync.Mutex
	// busy suppresses asynchronous page rendering while a command runs.
	busy atomic.Bool
}

// New creates a REPL.
func New(cfg Config) *REPL {
	if cfg.History == nil {
		cfg.History = NewHistory("", 0)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &REPL{
		router:  cfg.Router,
		auth:    cfg.Auth,
		users:   cfg.Users,
		in:      cfg.Reader,
		out:     cfg.Reader.Output(),
		history: cfg.History,
		spinner: cfg.Spinner,
		logger:  cfg.Logger,
	}
}

// Run renders the current page and executes commands until exit or
// end of input. Session changes made elsewhere re-render the page.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		r.logger.Warn("failed to load history", "error", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			r.logger.Warn("failed to save history", "error", err)
		}
	}()

	r.router.OnPending(func(p route.Page) {
		r.printf("%s\n", p.Title)
	})
	r.show(ctx, r.router.Resolve())
	r.router.OnPending(nil)

	stop := r.router.Watch(func(p route.Page) {
		if r.busy.Load() {
			return
		}
		r.printf("\nSession changed.\n")
		r.show(ctx, p)
	})
	defer stop()

	for {
		if ctx.Err() != nil {
			return nil
		}
		r.in.SetPrompt(r.prompt())
		line, err := r.in.ReadLine()
		if errors.Is(err, io.EOF) {
			r.printf("\n")
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		quit, err := r.Execute(ctx, line)
		if err != nil {
			r.printf("Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command line. quit is true for exit and quit.
func (r *REPL) Execute(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := fields[0], fields[1:]
	if name == "exit" || name == "quit" {
		return true, nil
	}

	cmd, ok := lookup(name)
	if !ok {
		return false, fmt.Errorf("%w %q, type 'help'", ErrUnknownCommand, name)
	}

	r.busy.Store(true)
	defer r.busy.Store(false)
	return false, cmd.run(r, ctx, args)
}

func (r *REPL) prompt() string {
	return "authfront:" + r.router.Navigator().Current() + "> "
}

// show renders a page, loading the account for the dashboard.
func (r *REPL) show(ctx context.Context, p route.Page) {
	r.outMu.Lock()
	defer r.outMu.Unlock()

	RenderPage(r.out, p)
	if p.Kind != route.Dashboard || r.users == nil {
		return
	}
	u, err := r.users.CurrentUser(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "Could not load account: %v\n", err)
		return
	}
	RenderUser(r.out, u)
}

func (r *REPL) printf(format string, args ...any) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// fill prompts for each visible field. An empty answer keeps the
// current value.
func (r *REPL) fill(f form.Form) error {
	for _, field := range f.Fields() {
		if field.Hidden {
			continue
		}

		var (
			v   string
			err error
		)
		if field.Secret {
			v, err = r.in.ReadPassword(field.Label + ": ")
		} else {
			label := field.Label
			if cur := f.Get(field.Name); cur != "" {
				label += " [" + cur + "]"
			}
			r.in.SetPrompt(label + ": ")
			v, err = r.in.ReadLine()
		}
		if err != nil {
			return err
		}

		if v = strings.TrimSpace(v); v != "" {
			if err := f.Set(field.Name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *REPL) submit(ctx context.Context, f form.Form) (form.Result, error) {
	if !r.spinner {
		return f.Submit(ctx)
	}

	s := output.NewSpinner(r.out, "Submitting...")
	s.Start()
	res, err := f.Submit(ctx)
	switch {
	case err != nil:
		s.Fail(err.Error())
	case res.Outcome == form.Succeeded:
		s.Stop()
	case res.Message != "":
		s.Fail(res.Message)
	default:
		s.Fail("Please correct the fields below.")
	}
	return res, err
}
