// Package service holds the client-side session state.
//
// AuthState owns the current session token. It hydrates from a
// TokenRepository at construction, derives whether the session is
// authenticated by comparing the expiry to the clock, persists every
// change and notifies subscribers once the change is stored.
//
// AuthState is safe for concurrent use.
package service
