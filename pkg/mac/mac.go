// Package mac provides keyed message authentication built on crypto/hmac.
package mac

import (
	"crypto/hmac"
	"hash"
)

// Hash computes HMAC over data with the given key and hash constructor.
func Hash(data, key []byte, h func() hash.Hash) []byte {
	m := hmac.New(h, key)
	m.Write(data)

	return m.Sum(nil)
}

// Verify recomputes the HMAC of data and compares it against tag in
// constant time. A truncated tag is compared against the matching prefix.
func Verify(data, tag, key []byte, h func() hash.Hash) bool {
	sum := Hash(data, key, h)
	if len(tag) == 0 || len(tag) > len(sum) {
		return false
	}

	return hmac.Equal(sum[:len(tag)], tag)
}
