package repl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/authfront/internal/form"
	"github.com/yndnr/authfront/internal/route"
)

type command struct {
	name  string
	usage string
	help  string
	run   func(r *REPL, ctx context.Context, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"open", "open <path>", "navigate to a page", cmdOpen},
		{"back", "back", "return to the previous page", cmdBack},
		{"where", "where", "show the current location and history", cmdWhere},
		{"submit", "submit [form]", "fill in and submit a form of the current page", cmdSubmit},
		{"logout", "logout", "end the session", cmdLogout},
		{"status", "status", "show the session state", cmdStatus},
		{"history", "history", "list previous commands", cmdHistory},
		{"help", "help", "list commands", cmdHelp},
		{"exit", "exit | quit", "leave the shell", nil},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name && c.run != nil {
			return c, true
		}
	}
	return command{}, false
}

func cmdOpen(r *REPL, ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: open <path>")
	}
	r.show(ctx, r.router.Open(args[0]))
	return nil
}

func cmdBack(r *REPL, ctx context.Context, _ []string) error {
	p, ok := r.router.Back()
	if !ok {
		return errors.New("no previous page")
	}
	r.show(ctx, p)
	return nil
}

func cmdWhere(r *REPL, _ context.Context, _ []string) error {
	r.printf("%s\n", r.router.Navigator().Current())
	hist := r.router.Navigator().History()
	for i := len(hist) - 2; i >= 0; i-- {
		r.printf("  <- %s\n", hist[i])
	}
	return nil
}

func cmdSubmit(r *REPL, ctx context.Context, args []string) error {
	page := r.router.Current()
	if len(page.Forms) == 0 {
		return fmt.Errorf("%s has no form", page.Title)
	}

	f := page.Forms[0]
	if len(args) > 0 {
		if f = page.Form(args[0]); f == nil {
			names := make([]string, 0, len(page.Forms))
			for _, pf := range page.Forms {
				names = append(names, pf.Name())
			}
			return fmt.Errorf("no form %q here (have %s)", args[0], strings.Join(names, ", "))
		}
	}

	if err := r.fill(f); err != nil {
		return err
	}
	res, err := r.submit(ctx, f)
	if err != nil {
		return err
	}
	if _, ok := f.(*form.Register); !ok && res.Outcome == form.Succeeded && res.Message != "" {
		r.printf("%s\n", res.Message)
	}
	r.show(ctx, r.router.Follow(res))
	return nil
}

func cmdLogout(r *REPL, ctx context.Context, _ []string) error {
	if !r.auth.Snapshot().Authenticated {
		return errors.New("not logged in")
	}
	r.show(ctx, r.router.Logout(ctx))
	return nil
}

func cmdStatus(r *REPL, _ context.Context, _ []string) error {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	RenderSession(r.out, r.auth.Snapshot())
	return nil
}

func cmdHistory(r *REPL, _ context.Context, _ []string) error {
	for i, e := range r.history.Entries() {
		r.printf("%4d  %s\n", i+1, e)
	}
	return nil
}

func cmdHelp(r *REPL, _ context.Context, _ []string) error {
	for _, c := range commands {
		r.printf("  %-16s %s\n", c.usage, c.help)
	}
	r.printf("Pages: %s\n", strings.Join([]string{
		route.PathRoot, route.PathDashboard, route.PathLogin, route.PathSignup,
		route.PathPasswordReset, route.PathPasswordUpdate + "?token=...",
	}, "  "))
	return nil
}
