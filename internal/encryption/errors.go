package encryption

import "errors"

var (
	// ErrEnvelope is returned when an input file does not carry a valid envelope.
	ErrEnvelope = errors.New("envelope processing error")
	// ErrKeySize is returned when the loaded key does not fit the selected scheme.
	ErrKeySize = errors.New("wrong key size")
)
