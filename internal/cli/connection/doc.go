// Package connection is the client for the authentication REST API.
//
//   - http.go: HTTPClient, the request pipeline rooted at <server>/api/v1/
//   - errors.go: HTTPError, APIError and TransportError
//   - api.go: typed endpoint methods
//
// The client attaches "Authorization: Bearer <token>" whenever its
// TokenSource holds a non-empty token. It never retries.
package connection
