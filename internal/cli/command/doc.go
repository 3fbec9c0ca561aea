// Package command defines the authfront-cli commands using
// urfave/cli/v2:
//
//   - root.go: the app, global flags and the per-run Env
//   - auth.go: login, logout, status, register, signup, password
//   - account.go: me, health, version
//   - config.go: config show, path, init
//   - shell.go: the interactive shell
//
// Each command resolves its collaborators from the Env built on first
// use, so commands that need no server never open the token store.
package command
