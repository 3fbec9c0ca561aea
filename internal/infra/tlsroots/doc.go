// Package tlsroots builds the client TLS config used to reach an API
// server whose certificate is issued by a private CA (tls.ca_file).
package tlsroots
