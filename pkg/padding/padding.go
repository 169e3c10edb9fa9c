// Package padding implements PKCS#7 block padding.
//
// Pad writes padding in place into a pre-sized block, Unpad strips and
// verifies it. Both reject malformed input rather than guessing.
package padding

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBlock is returned when attempting to unpad an empty block.
	ErrEmptyBlock = errors.New("empty block")
	// ErrInvalidPadding is returned when PKCS#7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
)

// Pad fills block[used:] with PKCS#7 padding bytes. The block must already
// have its final size (one full cipher block); used is the number of leading
// bytes that carry data, 0 <= used < len(block). When used is zero the whole
// block becomes padding, which is how an exact-multiple message reserves an
// unambiguous final block.
func Pad(block []byte, used int) error {
	if used < 0 || used >= len(block) {
		return fmt.Errorf("pad: %d data bytes in a %d-byte block: %w", used, len(block), ErrInvalidPadding)
	}

	pad := byte(len(block) - used)
	for i := used; i < len(block); i++ {
		block[i] = pad
	}

	return nil
}

// Unpad verifies the PKCS#7 padding of block and returns the data prefix.
// Every padding byte is checked so a single corrupted byte is rejected.
func Unpad(block []byte) ([]byte, error) {
	length := len(block)
	if length == 0 {
		return nil, ErrEmptyBlock
	}

	pad := int(block[length-1])
	if pad == 0 || pad > length {
		return nil, fmt.Errorf("padding size %d: %w", pad, ErrInvalidPadding)
	}

	for i := length - pad; i < length; i++ {
		if block[i] != byte(pad) {
			return nil, ErrInvalidPadding
		}
	}

	return block[:length-pad], nil
}
