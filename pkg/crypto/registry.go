package crypto

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/blowfish"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/twofish"
)

// CipherID identifies an underlying cipher primitive.
type CipherID uint8

const (
	// AES is the AES block cipher (16-byte blocks, 16/24/32-byte keys).
	AES CipherID = iota
	// Blowfish is the Blowfish block cipher (8-byte blocks).
	Blowfish
	// Twofish is the Twofish block cipher (16-byte blocks).
	Twofish
	// ChaCha is the ChaCha20 stream cipher (32-byte key, 12 or 24-byte nonce).
	ChaCha
)

// CipherMode selects how a block cipher is chained.
type CipherMode uint8

const (
	// ModeECB runs each block independently. No IV.
	ModeECB CipherMode = iota
	// ModeCBC chains blocks through ciphertext feedback.
	ModeCBC
	// ModeCTR turns the block cipher into a keystream.
	ModeCTR
	// ModeOFB turns the block cipher into an output-feedback keystream.
	ModeOFB
	// ModeGCM runs the block cipher as a native AEAD.
	ModeGCM
)

const (
	gcmTagBits            = 128
	gcmStandardNonceSize  = 12
	gcmMinimumTagSizeBits = 96
)

// blockFactories is the immutable table of block cipher constructors,
// built once at process start.
var blockFactories = map[CipherID]func(key []byte) (cipher.Block, error){
	AES: aes.NewCipher,
	Blowfish: func(key []byte) (cipher.Block, error) {
		return blowfish.NewCipher(key)
	},
	Twofish: func(key []byte) (cipher.Block, error) {
		return twofish.NewCipher(key)
	},
}

// BlockCipher constructs a ready engine for the given block cipher and
// chaining mode. The returned engine is bound to the direction, key, IV,
// associated data and tag size carried by p; GCM engines additionally
// satisfy the AEAD interface.
func BlockCipher(id CipherID, mode CipherMode, p EngineParams) (Engine, error) {
	const op = "block cipher"

	factory, ok := blockFactories[id]
	if !ok {
		return nil, contractErr(op, "unsupported block cipher %d", uint8(id))
	}

	block, err := factory(p.Key)
	if err != nil {
		return nil, contractErr(op, "creating cipher: %v", err)
	}

	switch mode {
	case ModeECB:
		return &ecbEngine{block: block, direction: p.Direction}, nil

	case ModeCBC:
		if len(p.IV) != block.BlockSize() {
			return nil, contractErr(op, "cbc: iv must be %d bytes, got %d", block.BlockSize(), len(p.IV))
		}

		if p.Direction == DirectionEncrypt {
			return &blockModeEngine{mode: cipher.NewCBCEncrypter(block, p.IV)}, nil
		}

		return &blockModeEngine{mode: cipher.NewCBCDecrypter(block, p.IV)}, nil

	case ModeCTR:
		if len(p.IV) != block.BlockSize() {
			return nil, contractErr(op, "ctr: iv must be %d bytes, got %d", block.BlockSize(), len(p.IV))
		}

		return &streamEngine{stream: cipher.NewCTR(block, p.IV), blockSize: block.BlockSize()}, nil

	case ModeOFB:
		if len(p.IV) != block.BlockSize() {
			return nil, contractErr(op, "ofb: iv must be %d bytes, got %d", block.BlockSize(), len(p.IV))
		}

		return &streamEngine{stream: cipher.NewOFB(block, p.IV), blockSize: block.BlockSize()}, nil

	case ModeGCM:
		return newGCMEngine(block, p)

	default:
		return nil, contractErr(op, "unsupported cipher mode %d", uint8(mode))
	}
}

// StreamCipher constructs a ready engine for the given stream cipher.
func StreamCipher(id CipherID, p EngineParams) (Engine, error) {
	const op = "stream cipher"

	switch id {
	case ChaCha:
		stream, err := chacha20.NewUnauthenticatedCipher(p.Key, p.IV)
		if err != nil {
			return nil, contractErr(op, "creating chacha20: %v", err)
		}

		return &streamEngine{stream: stream}, nil
	default:
		return nil, contractErr(op, "unsupported stream cipher %d", uint8(id))
	}
}

func newGCMEngine(block cipher.Block, p EngineParams) (Engine, error) {
	const op = "block cipher"

	tagBits := p.TagBits
	if tagBits == 0 {
		tagBits = gcmTagBits
	}

	if tagBits%8 != 0 || tagBits < gcmMinimumTagSizeBits || tagBits > gcmTagBits {
		return nil, contractErr(op, "gcm: unsupported tag size %d bits", tagBits)
	}

	aead, err := cipher.NewGCMWithTagSize(block, tagBits/8)
	if err != nil {
		return nil, engineErr(op, err)
	}

	if len(p.IV) != aead.NonceSize() {
		return nil, contractErr(op, "gcm: iv must be %d bytes, got %d", aead.NonceSize(), len(p.IV))
	}

	return &aeadEngine{
		aead:      aead,
		direction: p.Direction,
		iv:        p.IV,
		aad:       p.AAD,
		blockSize: block.BlockSize(),
	}, nil
}
