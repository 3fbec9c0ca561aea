package command

import (
	"errors"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/authfront/internal/cli/connection"
	"github.com/yndnr/authfront/internal/cli/output"
	"github.com/yndnr/authfront/internal/core/domain"
	"github.com/yndnr/authfront/internal/infra/buildinfo"
	"github.com/yndnr/authfront/internal/route"
)

// MeCommand shows the dashboard: the account owning the session.
func MeCommand() *cli.Command {
	return &cli.Command{
		Name:    "me",
		Aliases: []string{"dashboard"},
		Usage:   "Show the signed-in account",
		Action:  me,
	}
}

func me(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	snap := env.Auth.Refresh()
	if route.Decide(route.Protected, snap.Authenticated) != "" {
		return domain.ErrNotAuthenticated.WithDetails("run 'authfront-cli login' first")
	}

	u, err := env.API.CurrentUser(ctx(c))
	var httpErr *connection.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
		return domain.ErrNotAuthenticated.WithDetails(httpErr.Message()).WithCause(err)
	}
	if err != nil {
		return err
	}
	return env.Print(u)
}

// HealthCommand checks the API server.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check that the API server is available",
		Action: health,
	}
}

func health(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	h, err := env.API.Healthcheck(ctx(c))
	if err != nil {
		return err
	}
	if format, _ := output.ParseFormat(env.Config.Output); format != output.FormatTable {
		return env.Print(h)
	}
	return env.Print(healthRow{
		Server:      env.Config.Server,
		Status:      h.Status,
		Environment: h.SystemInfo.Environment,
		Version:     h.SystemInfo.Version,
	})
}

// healthRow flattens the healthcheck payload for table output.
type healthRow struct {
	Server      string `yaml:"server"`
	Status      string `yaml:"status"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// VersionCommand prints build information.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			return printLocal(c, buildinfo.Get())
		},
	}
}
