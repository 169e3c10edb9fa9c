package encryption

import (
	"bytes"
	"fmt"

	"github.com/RokLenarcic/buddy-core/pkg/crypto"
)

const (
	envelopeMagic   = "BDYC"
	envelopeVersion = byte(1)

	envelopeFlagExec = 0x01

	// schemeDeterministic marks the tink AES-SIV chunked stream; the
	// composite schemes map to scheme bytes 1..6.
	schemeDeterministic = byte(0x10)
)

const envelopeHeaderSize = len(envelopeMagic) + 3

func schemeForAlgorithm(alg crypto.Algorithm) byte {
	return byte(alg) + 1
}

func algorithmForScheme(scheme byte) (crypto.Algorithm, error) {
	alg := crypto.Algorithm(scheme - 1)

	for _, known := range crypto.Algorithms() {
		if alg == known {
			return alg, nil
		}
	}

	return 0, fmt.Errorf("%w: unsupported scheme %d", ErrEnvelope, scheme)
}

// newEnvelopeHeader builds the fixed-size file header:
// magic ‖ version ‖ flags ‖ scheme.
func newEnvelopeHeader(scheme byte, executable bool) []byte {
	header := make([]byte, envelopeHeaderSize)
	copy(header, envelopeMagic)

	header[len(envelopeMagic)] = envelopeVersion

	var flags byte
	if executable {
		flags |= envelopeFlagExec
	}

	header[len(envelopeMagic)+1] = flags
	header[len(envelopeMagic)+2] = scheme

	return header
}

// parseEnvelopeHeader validates the header and returns the scheme byte and
// the executable flag.
func parseEnvelopeHeader(header []byte) (scheme byte, executable bool, err error) {
	if len(header) != envelopeHeaderSize {
		return 0, false, fmt.Errorf("%w: envelope header too short", ErrEnvelope)
	}

	if !bytes.Equal(header[:len(envelopeMagic)], []byte(envelopeMagic)) {
		return 0, false, fmt.Errorf("%w: invalid envelope magic", ErrEnvelope)
	}

	version := header[len(envelopeMagic)]
	if version != envelopeVersion {
		return 0, false, fmt.Errorf("%w: unsupported envelope version %d", ErrEnvelope, version)
	}

	flags := header[len(envelopeMagic)+1]
	scheme = header[len(envelopeMagic)+2]

	if scheme != schemeDeterministic {
		if _, err := algorithmForScheme(scheme); err != nil {
			return 0, false, err
		}
	}

	executable = flags&envelopeFlagExec != 0

	return scheme, executable, nil
}
