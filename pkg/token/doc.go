// Package token provides random byte generation and token fingerprints.
//
// Fingerprints let the CLI show which session is stored without ever
// printing the bearer credential itself.
package token
