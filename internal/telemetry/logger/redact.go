package logger

import (
	"log/slog"
	"strings"
)

// secretKeys are key fragments whose values are never logged.
var secretKeys = []string{"password", "token", "authorization", "secret", "cookie"}

const redacted = "[REDACTED]"

// redact is the ReplaceAttr hook of every handler built by New.
func redact(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	v := a.Value.String()
	if v == "" {
		return a
	}
	if scheme, cred, ok := strings.Cut(v, " "); ok && strings.EqualFold(scheme, "bearer") {
		return slog.String(a.Key, scheme+" "+Mask(cred))
	}
	if SecretKey(a.Key) {
		return slog.String(a.Key, redacted)
	}
	return a
}

// Mask keeps the first and last three characters of v. Values of six
// characters or fewer are hidden entirely.
func Mask(v string) string {
	if len(v) <= 6 {
		return "***"
	}
	return v[:3] + "..." + v[len(v)-3:]
}

// SecretKey reports whether values logged under key are redacted.
func SecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range secretKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
