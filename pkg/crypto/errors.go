package crypto

import (
	"errors"
	"fmt"
)

// Kind classifies a failure of the composition layer.
type Kind uint8

const (
	// KindContract marks a programmer error: wrong key or IV length for the
	// selected algorithm, or an unsupported algorithm/cipher/mode identifier.
	// Raised before any engine state is touched.
	KindContract Kind = iota
	// KindAuthentication marks a tag mismatch on decrypt. No plaintext is
	// ever returned alongside it.
	KindAuthentication
	// KindEngine marks a failure signalled by the wrapped primitive engine.
	KindEngine
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindContract:
		return "contract violation"
	case KindAuthentication:
		return "authentication failure"
	case KindEngine:
		return "engine failure"
	default:
		return "unknown"
	}
}

// ErrAuthentication is the sentinel cause carried by every
// KindAuthentication error, so callers can match with errors.Is.
var ErrAuthentication = errors.New("message authentication failed")

// Error is the typed failure returned by this package. Op names the
// operation that failed, Err carries the cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("crypto: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// IsContract reports whether err is a contract violation.
func IsContract(err error) bool { return hasKind(err, KindContract) }

// IsAuthentication reports whether err is an authentication failure.
func IsAuthentication(err error) bool { return hasKind(err, KindAuthentication) }

// IsEngine reports whether err is an underlying engine failure.
func IsEngine(err error) bool { return hasKind(err, KindEngine) }

func hasKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func contractErr(op, format string, args ...any) error {
	return &Error{Kind: KindContract, Op: op, Err: fmt.Errorf(format, args...)}
}

func authErr(op string) error {
	return &Error{Kind: KindAuthentication, Op: op, Err: ErrAuthentication}
}

func engineErr(op string, cause error) error {
	return &Error{Kind: KindEngine, Op: op, Err: cause}
}
