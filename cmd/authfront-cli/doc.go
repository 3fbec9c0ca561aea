// Package main provides the entry point for authfront-cli.
//
// authfront-cli is a client for the authfront token API. It keeps the
// session token in local storage and offers:
//
//   - Sign in, sign out and session status
//   - Registration and account signup
//   - Password reset and update
//   - An interactive shell that walks the routes with their guards
//
// Usage:
//
//	authfront-cli login --email alice@example.com
//	authfront-cli me --output json
//	authfront-cli shell /password-update?token=...
//
// Exit status is 0 on success, 2 when a session or reset token is
// needed, 3 for invalid input and 1 for any other failure.
package main
