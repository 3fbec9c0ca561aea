package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// FingerprintLength is the number of hex characters kept by Fingerprint.
const FingerprintLength = 12

// Hash computes the hex-encoded SHA-256 hash of a token.
func Hash(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// Fingerprint returns a short, non-reversible identifier for a token,
// prefixed with the hash name. An empty token has no fingerprint.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	return "sha256:" + Hash(token)[:FingerprintLength]
}
