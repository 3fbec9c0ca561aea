package token

import (
	"crypto/rand"
	"fmt"
	"io"
)

// RandomBytes returns n bytes from crypto/rand, e.g. a sealing key.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}
