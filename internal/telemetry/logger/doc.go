// Package logger provides structured logging for authfront.
//
// Loggers wrap log/slog. Records go to stderr so they never mix with
// command output, and every record passes through redaction: bearer
// credentials are masked and values logged under secret-looking keys
// (password, token, authorization) are replaced. A request ID stored in
// the context with WithRequestID is attached to records logged through
// WithContext.
package logger
