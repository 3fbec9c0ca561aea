// Package confloader merges layered configuration with koanf.
//
// Load applies Sources in order, later ones winning, and decodes the
// result onto a target whose existing field values act as defaults.
// The CLI stacks them as OptionalFile, Env, then Map for flags.
//
// Env uses the first underscore after the prefix as the section
// separator, so AUTHFRONT_TLS_CA_FILE sets tls.ca_file and
// AUTHFRONT_TIMEOUT sets timeout.
package confloader
