package crypto_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RokLenarcic/buddy-core/pkg/crypto"
)

// engineParams returns encrypt/decrypt parameter pairs sharing key and IV.
func engineParams(t *testing.T, keySize, ivSize int) (enc, dec crypto.EngineParams) {
	t.Helper()

	key := randomBytes(t, keySize)
	iv := randomBytes(t, ivSize)

	enc = crypto.EngineParams{Direction: crypto.DirectionEncrypt, Key: key, IV: iv}
	dec = crypto.EngineParams{Direction: crypto.DirectionDecrypt, Key: key, IV: iv}

	return enc, dec
}

func TestBlockCipherModeRoundTrips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      crypto.CipherID
		mode    crypto.CipherMode
		keySize int
		ivSize  int
	}{
		{"aes-ecb", crypto.AES, crypto.ModeECB, 32, 0},
		{"aes-cbc", crypto.AES, crypto.ModeCBC, 32, 16},
		{"aes-ctr", crypto.AES, crypto.ModeCTR, 32, 16},
		{"aes-ofb", crypto.AES, crypto.ModeOFB, 32, 16},
		{"blowfish-cbc", crypto.Blowfish, crypto.ModeCBC, 16, 8},
		{"blowfish-ctr", crypto.Blowfish, crypto.ModeCTR, 16, 8},
		{"twofish-cbc", crypto.Twofish, crypto.ModeCBC, 32, 16},
		{"twofish-ecb", crypto.Twofish, crypto.ModeECB, 32, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			encParams, decParams := engineParams(t, tt.keySize, tt.ivSize)

			enc, err := crypto.BlockCipher(tt.id, tt.mode, encParams)
			require.NoError(t, err)

			size := enc.BlockSize()

			var plaintext []byte
			if tt.mode == crypto.ModeCTR || tt.mode == crypto.ModeOFB {
				plaintext = randomBytes(t, 100) // stream-like modes take any length
			} else {
				plaintext = randomBytes(t, size*4)
			}

			ciphertext := make([]byte, len(plaintext))
			n, err := enc.Process(ciphertext, plaintext)
			require.NoError(t, err)
			require.Equal(t, len(plaintext), n)
			assert.False(t, bytes.Equal(plaintext, ciphertext))

			dec, err := crypto.BlockCipher(tt.id, tt.mode, decParams)
			require.NoError(t, err)

			recovered := make([]byte, len(ciphertext))
			_, err = dec.Process(recovered, ciphertext)
			require.NoError(t, err)
			assert.Equal(t, plaintext, recovered)
		})
	}
}

func TestBlockCipherMisalignedInput(t *testing.T) {
	t.Parallel()

	enc, _ := engineParams(t, 32, 16)

	engine, err := crypto.BlockCipher(crypto.AES, crypto.ModeCBC, enc)
	require.NoError(t, err)

	_, err = engine.Process(make([]byte, 15), make([]byte, 15))
	assert.True(t, crypto.IsEngine(err), "got %v", err)
}

func TestBlockCipherContractViolations(t *testing.T) {
	t.Parallel()

	t.Run("unsupported cipher", func(t *testing.T) {
		t.Parallel()

		_, err := crypto.BlockCipher(crypto.CipherID(99), crypto.ModeCBC, crypto.EngineParams{})
		assert.True(t, crypto.IsContract(err))
	})

	t.Run("unsupported mode", func(t *testing.T) {
		t.Parallel()

		enc, _ := engineParams(t, 32, 16)

		_, err := crypto.BlockCipher(crypto.AES, crypto.CipherMode(99), enc)
		assert.True(t, crypto.IsContract(err))
	})

	t.Run("bad aes key size", func(t *testing.T) {
		t.Parallel()

		_, err := crypto.BlockCipher(crypto.AES, crypto.ModeCBC, crypto.EngineParams{
			Key: make([]byte, 31),
			IV:  make([]byte, 16),
		})
		assert.True(t, crypto.IsContract(err))
	})

	t.Run("bad cbc iv size", func(t *testing.T) {
		t.Parallel()

		_, err := crypto.BlockCipher(crypto.AES, crypto.ModeCBC, crypto.EngineParams{
			Key: make([]byte, 32),
			IV:  make([]byte, 15),
		})
		assert.True(t, crypto.IsContract(err))
	})

	t.Run("bad gcm tag size", func(t *testing.T) {
		t.Parallel()

		_, err := crypto.BlockCipher(crypto.AES, crypto.ModeGCM, crypto.EngineParams{
			Key:     make([]byte, 32),
			IV:      make([]byte, 12),
			TagBits: 64,
		})
		assert.True(t, crypto.IsContract(err))
	})
}

func TestStreamCipherChaCha(t *testing.T) {
	t.Parallel()

	enc, dec := engineParams(t, 32, 12)

	engine, err := crypto.StreamCipher(crypto.ChaCha, enc)
	require.NoError(t, err)
	assert.Equal(t, 0, engine.BlockSize(), "pure stream engines report no block size")

	plaintext := randomBytes(t, 333)
	ciphertext := make([]byte, len(plaintext))
	_, err = engine.Process(ciphertext, plaintext)
	require.NoError(t, err)

	engine, err = crypto.StreamCipher(crypto.ChaCha, dec)
	require.NoError(t, err)

	recovered := make([]byte, len(ciphertext))
	_, err = engine.Process(recovered, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered)

	_, err = crypto.StreamCipher(crypto.CipherID(99), enc)
	assert.True(t, crypto.IsContract(err))
}

func TestGCMEngineLifecycle(t *testing.T) {
	t.Parallel()

	key := randomBytes(t, 32)
	iv := randomBytes(t, 12)
	plaintext := randomBytes(t, 100)

	engine, err := crypto.BlockCipher(crypto.AES, crypto.ModeGCM, crypto.EngineParams{
		Direction: crypto.DirectionEncrypt,
		Key:       key,
		IV:        iv,
	})
	require.NoError(t, err)

	aead, ok := engine.(crypto.AEAD)
	require.True(t, ok, "gcm engine must implement AEAD")
	assert.Equal(t, 16, aead.BlockSize())
	assert.Equal(t, len(plaintext)+16, aead.OutputSize(len(plaintext)))

	out := make([]byte, aead.OutputSize(len(plaintext)))

	off, err := aead.Process(out, plaintext)
	require.NoError(t, err)

	n, err := aead.Finalize(out[off:])
	require.NoError(t, err)
	require.Equal(t, len(out), off+n)

	// A finalized engine is spent; it must be rebuilt, not reused.
	_, err = aead.Finalize(out)
	assert.True(t, crypto.IsEngine(err))
	_, err = aead.Process(out, plaintext)
	assert.True(t, crypto.IsEngine(err))

	decEngine, err := crypto.BlockCipher(crypto.AES, crypto.ModeGCM, crypto.EngineParams{
		Direction: crypto.DirectionDecrypt,
		Key:       key,
		IV:        iv,
	})
	require.NoError(t, err)

	dec, ok := decEngine.(crypto.AEAD)
	require.True(t, ok)
	assert.Equal(t, len(plaintext), dec.OutputSize(len(out)))

	recovered := make([]byte, dec.OutputSize(len(out)))

	off, err = dec.Process(recovered, out)
	require.NoError(t, err)

	n, err = dec.Finalize(recovered[off:])
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered[:off+n])
}
