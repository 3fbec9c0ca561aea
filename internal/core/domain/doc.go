// Package domain defines the core domain models for authfront.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - SessionToken: bearer credential plus absolute expiry
//   - User: the account returned by the current-user endpoint
//   - ValidationErrors: field-keyed rejection messages
//   - Errors: client-side domain error definitions
package domain
