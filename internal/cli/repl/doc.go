// Package repl is the interactive shell of authfront-cli. It drives the
// route package like a browser: each command navigates, submits the
// current page's form or inspects the session, and the resulting page
// is rendered to the terminal.
//
// On a terminal the line editor comes from golang.org/x/term, giving
// history recall, tab completion and passwords read without echo.
// Piped input falls back to a plain line reader.
package repl
