package command

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/authfront/internal/cli/repl"
	"github.com/yndnr/authfront/internal/core/domain"
	"github.com/yndnr/authfront/internal/form"
	"github.com/yndnr/authfront/pkg/token"
)

var (
	emailFlag = &cli.StringFlag{
		Name:    "email",
		Aliases: []string{"e"},
		Usage:   "account email (prompted when omitted)",
	}
	passwordFlag = &cli.StringFlag{
		Name:    "password",
		Aliases: []string{"p"},
		Usage:   "password (prompted without echo when omitted)",
		EnvVars: []string{"AUTHFRONT_PASSWORD"},
	}
	tokenFlag = &cli.StringFlag{
		Name:    "token",
		Aliases: []string{"t"},
		Usage:   "token from the email",
	}
)

// LoginCommand authenticates and stores the session token.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Sign in and store the session",
		Flags:  []cli.Flag{emailFlag, passwordFlag},
		Action: login,
	}
}

func login(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	f := form.NewLogin(env.Deps())
	if _, err := submitForm(c, env, f, map[string]string{
		form.FieldEmail:    c.String("email"),
		form.FieldPassword: c.String("password"),
	}); err != nil {
		return err
	}
	env.Printf("Logged in as %s.\n", f.Get(form.FieldEmail))
	printExpiry(env)
	return nil
}

// LogoutCommand clears the stored session.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the stored session",
		Action: logout,
	}
}

func logout(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	env.Auth.Logout(ctx(c))
	env.Printf("Logged out.\n")
	return nil
}

// sessionStatus is printed by the status command.
type sessionStatus struct {
	Server    string `json:"server" yaml:"server"`
	State     string `json:"state" yaml:"state"`
	ExpiresAt string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	// Token is a fingerprint; the bearer credential is never printed.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// StatusCommand shows whether a usable session is stored.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the session state",
		Action: status,
	}
}

func status(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	snap := env.Auth.Refresh()
	return env.Print(sessionStatus{
		Server:    env.Config.Server,
		State:     snap.State.String(),
		ExpiresAt: snap.Expiry,
		Token:     token.Fingerprint(snap.Token),
	})
}

// RegisterCommand requests a registration email.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:   "register",
		Usage:  "Request an email with a sign-up link",
		Flags:  []cli.Flag{emailFlag},
		Action: register,
	}
}

func register(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	res, err := submitForm(c, env, form.NewRegister(env.Deps()), map[string]string{
		form.FieldEmail: c.String("email"),
	})
	if err != nil {
		return err
	}
	env.Printf("%s\n", res.Message)
	return nil
}

// SignupCommand creates the account from a registration token and
// signs in.
func SignupCommand() *cli.Command {
	return &cli.Command{
		Name:   "signup",
		Usage:  "Create an account with the token from the registration email",
		Flags:  []cli.Flag{tokenFlag, emailFlag, passwordFlag},
		Action: signup,
	}
}

func signup(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	f := form.NewSignup(env.Deps(), c.String("token"), c.String("email"))
	if _, err := submitForm(c, env, f, map[string]string{
		form.FieldPassword: c.String("password"),
	}); err != nil {
		return err
	}
	env.Printf("Account created. Logged in as %s.\n", f.Get(form.FieldEmail))
	printExpiry(env)
	return nil
}

// PasswordCommand groups the password reset flow.
func PasswordCommand() *cli.Command {
	return &cli.Command{
		Name:  "password",
		Usage: "Reset a forgotten password",
		Subcommands: []*cli.Command{
			{
				Name:   "reset",
				Usage:  "Request an email with a password reset link",
				Flags:  []cli.Flag{emailFlag},
				Action: passwordReset,
			},
			{
				Name:   "update",
				Usage:  "Set a new password with the token from the reset email",
				Flags:  []cli.Flag{tokenFlag, emailFlag, passwordFlag},
				Action: passwordUpdate,
			},
		},
	}
}

func passwordReset(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	res, err := submitForm(c, env, form.NewPasswordReset(env.Deps()), map[string]string{
		form.FieldEmail: c.String("email"),
	})
	if err != nil {
		return err
	}
	env.Printf("%s\n", res.Message)
	return nil
}

func passwordUpdate(c *cli.Context) error {
	token := c.String("token")
	if token == "" {
		return domain.ErrMissingToken.WithDetails("pass --token from the reset email")
	}
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	res, err := submitForm(c, env, form.NewPasswordUpdate(env.Deps(), token), map[string]string{
		form.FieldEmail:    c.String("email"),
		form.FieldPassword: c.String("password"),
	})
	if err != nil {
		return err
	}
	env.Printf("%s\n", res.Message)
	return nil
}

// submitForm fills f from values, prompts for the visible fields still
// empty and submits. Field errors are written to stderr and reported as
// domain.ErrFormInvalid; a general error is returned as is.
func submitForm(c *cli.Context, env *Env, f form.Form, values map[string]string) (form.Result, error) {
	for name, v := range values {
		if v == "" {
			continue
		}
		if err := f.Set(name, v); err != nil {
			return form.Result{}, err
		}
	}
	for _, field := range f.Fields() {
		if field.Hidden || f.Get(field.Name) != "" {
			continue
		}
		v, err := env.Prompt(field.Label, field.Secret)
		if err != nil {
			return form.Result{}, err
		}
		if v != "" {
			if err := f.Set(field.Name, v); err != nil {
				return form.Result{}, err
			}
		}
	}

	res, err := f.Submit(ctx(c))
	if err != nil {
		return res, err
	}
	switch res.Outcome {
	case form.Invalid:
		repl.RenderFieldErrors(env.errOut, res.Fields)
		return res, domain.ErrFormInvalid
	case form.Rejected:
		return res, errors.New(res.Message)
	}
	return res, nil
}

func printExpiry(env *Env) {
	exp, err := env.Auth.Snapshot().Session().ExpiresAt()
	if err != nil {
		return
	}
	env.Printf("Session expires %s.\n", exp.Local().Format(time.RFC1123))
}
