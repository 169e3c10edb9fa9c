package crypto

import (
	"crypto/cipher"
	"errors"
)

// Direction selects whether an engine encrypts or decrypts.
type Direction uint8

const (
	// DirectionEncrypt configures an engine for encryption.
	DirectionEncrypt Direction = iota
	// DirectionDecrypt configures an engine for decryption.
	DirectionDecrypt
)

// EngineParams binds direction and keying material to an engine at
// construction time. AAD and TagBits apply to AEAD engines only; a zero
// TagBits selects the default 128-bit tag.
type EngineParams struct {
	Direction Direction
	Key       []byte
	IV        []byte
	AAD       []byte
	TagBits   int
}

// Engine is the uniform contract over block, stream and AEAD cipher
// engines. An engine is bound to one direction and one set of keying
// material, carries internal chaining state, and is not safe for
// concurrent use. Construct a fresh engine per operation.
type Engine interface {
	// BlockSize returns the underlying block size, or zero for pure
	// stream engines.
	BlockSize() int

	// Process transforms src into dst and returns the number of bytes
	// written. Block engines require src to be block-aligned; AEAD
	// engines accumulate input until Finalize.
	Process(dst, src []byte) (int, error)
}

// AEAD extends Engine with the combined encrypt+authenticate /
// decrypt+verify pipeline of native AEAD modes.
type AEAD interface {
	Engine

	// OutputSize returns the minimum output buffer size needed by
	// Process plus Finalize for inputLen bytes of input.
	OutputSize(inputLen int) int

	// Finalize completes the operation: it appends the authentication
	// tag when encrypting, or verifies the embedded tag when decrypting,
	// writing any remaining output to dst. A tag mismatch surfaces as a
	// KindAuthentication error and no plaintext is written.
	Finalize(dst []byte) (int, error)
}

var (
	errBlockAlignment = errors.New("input is not a multiple of the block size")
	errShortBuffer    = errors.New("output buffer too small")
)

// blockModeEngine adapts a chaining block mode (CBC).
type blockModeEngine struct {
	mode cipher.BlockMode
}

func (e *blockModeEngine) BlockSize() int { return e.mode.BlockSize() }

func (e *blockModeEngine) Process(dst, src []byte) (int, error) {
	if len(src)%e.mode.BlockSize() != 0 {
		return 0, engineErr("process block", errBlockAlignment)
	}

	if len(dst) < len(src) {
		return 0, engineErr("process block", errShortBuffer)
	}

	e.mode.CryptBlocks(dst[:len(src)], src)

	return len(src), nil
}

// ecbEngine adapts a raw block cipher as electronic codebook mode.
type ecbEngine struct {
	block     cipher.Block
	direction Direction
}

func (e *ecbEngine) BlockSize() int { return e.block.BlockSize() }

func (e *ecbEngine) Process(dst, src []byte) (int, error) {
	size := e.block.BlockSize()

	if len(src)%size != 0 {
		return 0, engineErr("process block", errBlockAlignment)
	}

	if len(dst) < len(src) {
		return 0, engineErr("process block", errShortBuffer)
	}

	for off := 0; off < len(src); off += size {
		if e.direction == DirectionEncrypt {
			e.block.Encrypt(dst[off:off+size], src[off:off+size])
		} else {
			e.block.Decrypt(dst[off:off+size], src[off:off+size])
		}
	}

	return len(src), nil
}

// streamEngine adapts a keystream cipher (CTR, OFB, ChaCha20). blockSize
// reports the underlying block size for block-cipher-derived streams and
// zero for pure stream ciphers.
type streamEngine struct {
	stream    cipher.Stream
	blockSize int
}

func (e *streamEngine) BlockSize() int { return e.blockSize }

func (e *streamEngine) Process(dst, src []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, engineErr("process stream", errShortBuffer)
	}

	e.stream.XORKeyStream(dst[:len(src)], src)

	return len(src), nil
}

// aeadEngine adapts a one-shot AEAD primitive to the accumulate-then-seal
// contract: Process buffers input, Finalize runs the combined pipeline.
type aeadEngine struct {
	aead      cipher.AEAD
	direction Direction
	iv        []byte
	aad       []byte
	blockSize int
	buf       []byte
	finalized bool
}

func (e *aeadEngine) BlockSize() int { return e.blockSize }

func (e *aeadEngine) OutputSize(inputLen int) int {
	if e.direction == DirectionEncrypt {
		return inputLen + e.aead.Overhead()
	}

	if inputLen < e.aead.Overhead() {
		return 0
	}

	return inputLen - e.aead.Overhead()
}

func (e *aeadEngine) Process(_, src []byte) (int, error) {
	if e.finalized {
		return 0, engineErr("process aead", errors.New("engine already finalized"))
	}

	e.buf = append(e.buf, src...)

	return 0, nil
}

func (e *aeadEngine) Finalize(dst []byte) (int, error) {
	if e.finalized {
		return 0, engineErr("finalize aead", errors.New("engine already finalized"))
	}

	e.finalized = true

	if e.direction == DirectionEncrypt {
		out := e.aead.Seal(nil, e.iv, e.buf, e.aad)
		if len(dst) < len(out) {
			return 0, engineErr("finalize aead", errShortBuffer)
		}

		copy(dst, out)

		return len(out), nil
	}

	out, err := e.aead.Open(nil, e.iv, e.buf, e.aad)
	if err != nil {
		return 0, authErr("finalize aead")
	}

	if len(dst) < len(out) {
		return 0, engineErr("finalize aead", errShortBuffer)
	}

	copy(dst, out)

	return len(out), nil
}
