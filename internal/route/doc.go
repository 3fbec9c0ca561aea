// Package route maps locations to pages and gates them on the
// authentication state.
//
// Navigator keeps the history stack. Router resolves the location on
// top of it: protected routes send anonymous sessions to /login, guest
// routes send authenticated sessions to /, both replacing the history
// entry. The session is re-evaluated against the clock before every
// decision.
package route
