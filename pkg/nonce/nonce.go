// Package nonce generates cryptographically secure random material.
package nonce

import (
	"crypto/rand"
	"fmt"
)

// RandomBytes returns n bytes read from the system CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}

	return buf, nil
}
