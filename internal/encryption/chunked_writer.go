package encryption

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/tink-crypto/tink-go/v2/tink"
)

// chunkedWriter buffers plaintext and emits length-prefixed AES-SIV
// chunks, each authenticated against the envelope header and its index.
type chunkedWriter struct {
	w      io.Writer
	daead  tink.DeterministicAEAD
	buffer []byte
	header []byte
	index  uint64
	closed bool
}

func newChunkedWriter(w io.Writer, daead tink.DeterministicAEAD, header []byte) *chunkedWriter {
	hdr := make([]byte, len(header))
	copy(hdr, header)

	return &chunkedWriter{
		w:      w,
		daead:  daead,
		buffer: make([]byte, 0, chunkSize),
		header: hdr,
	}
}

// Write implements io.Writer, flushing whenever a full chunk accumulates.
func (cw *chunkedWriter) Write(data []byte) (int, error) {
	if cw.closed {
		return 0, errors.New("write on closed chunked writer")
	}

	cw.buffer = append(cw.buffer, data...)

	for len(cw.buffer) >= chunkSize {
		if err := cw.flush(chunkSize); err != nil {
			return 0, err
		}
	}

	return len(data), nil
}

// Close implements io.Closer, encrypting any remaining buffered data.
// Closing twice is a no-op.
func (cw *chunkedWriter) Close() error {
	if cw.closed {
		return nil
	}

	cw.closed = true

	if len(cw.buffer) > 0 {
		return cw.flush(len(cw.buffer))
	}

	return nil
}

func (cw *chunkedWriter) flush(size int) error {
	chunk := make([]byte, size)
	copy(chunk, cw.buffer[:size])

	encrypted, err := cw.daead.EncryptDeterministically(chunk, chunkAssociatedData(cw.header, cw.index))
	if err != nil {
		return fmt.Errorf("encrypting chunk: %w", err)
	}

	if err := binary.Write(cw.w, binary.BigEndian, uint32(len(encrypted))); err != nil { //nolint:gosec
		return fmt.Errorf("writing chunk size: %w", err)
	}

	if _, err := cw.w.Write(encrypted); err != nil {
		return fmt.Errorf("writing encrypted chunk: %w", err)
	}

	cw.buffer = cw.buffer[size:]
	cw.index++

	return nil
}
