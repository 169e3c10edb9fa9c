package crypto

import (
	"crypto/hmac"
	"errors"

	"github.com/RokLenarcic/buddy-core/pkg/mac"
	"github.com/RokLenarcic/buddy-core/pkg/padding"
)

// splitCompositeKey splits a CBC-HMAC composite key into its leading
// authentication half and trailing encryption half. The split point is a
// pure function of the algorithm: always the midpoint.
func splitCompositeKey(alg Algorithm, key []byte) (authKey, encKey []byte) {
	half := alg.KeySize() / 2

	return key[:half], key[half:]
}

// encryptCBCHMAC implements the encrypt-then-MAC composition: PKCS#7
// padding plus CBC encryption, then a truncated HMAC over IV ‖ ciphertext.
func encryptCBCHMAC(plaintext, key, iv []byte, alg Algorithm) ([]byte, error) {
	const op = "encrypt cbc-hmac"

	authKey, encKey := splitCompositeKey(alg, key)

	engine, err := BlockCipher(AES, ModeCBC, EngineParams{
		Direction: DirectionEncrypt,
		Key:       encKey,
		IV:        iv,
	})
	if err != nil {
		return nil, err
	}

	size := engine.BlockSize()
	blocks := SplitByBlockSize(plaintext, size, true)

	// The final block always has padding room: either the zero-filled
	// remainder or the extra block SplitByBlockSize reserved.
	if err := padding.Pad(blocks[len(blocks)-1], len(plaintext)%size); err != nil {
		return nil, engineErr(op, err)
	}

	ciphertext := make([]byte, len(blocks)*size)

	for i, block := range blocks {
		if _, err := engine.Process(ciphertext[i*size:(i+1)*size], block); err != nil {
			return nil, err
		}
	}

	tag := computeTag(iv, ciphertext, authKey, alg)

	return append(ciphertext, tag...), nil
}

// decryptCBCHMAC verifies the truncated HMAC tag in constant time before
// any decryption happens. On mismatch no plaintext is derived.
func decryptCBCHMAC(payload, key, iv []byte, alg Algorithm) ([]byte, error) {
	const op = "decrypt cbc-hmac"

	authKey, encKey := splitCompositeKey(alg, key)

	tagLen := alg.tagSize()
	if len(payload) < tagLen {
		return nil, authErr(op)
	}

	ciphertext := payload[:len(payload)-tagLen]
	receivedTag := payload[len(payload)-tagLen:]

	expected := computeTag(iv, ciphertext, authKey, alg)
	if !hmac.Equal(expected, receivedTag) {
		return nil, authErr(op)
	}

	engine, err := BlockCipher(AES, ModeCBC, EngineParams{
		Direction: DirectionDecrypt,
		Key:       encKey,
		IV:        iv,
	})
	if err != nil {
		return nil, err
	}

	size := engine.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%size != 0 {
		return nil, engineErr(op, errBlockAlignment)
	}

	plaintext := make([]byte, len(ciphertext))
	if _, err := engine.Process(plaintext, ciphertext); err != nil {
		return nil, err
	}

	final, err := padding.Unpad(plaintext[len(plaintext)-size:])
	if err != nil {
		// Unreachable with an authentic tag; surfaced as an engine
		// failure rather than an authentication failure.
		return nil, engineErr(op, err)
	}

	return plaintext[:len(plaintext)-size+len(final)], nil
}

// computeTag returns the first half of HMAC(IV ‖ ciphertext, authKey) with
// the hash fixed by the algorithm.
func computeTag(iv, ciphertext, authKey []byte, alg Algorithm) []byte {
	hashNew := alg.hashNew()
	if hashNew == nil {
		panic(errors.New("crypto: computeTag on non-HMAC algorithm"))
	}

	data := make([]byte, 0, len(iv)+len(ciphertext))
	data = append(data, iv...)
	data = append(data, ciphertext...)

	return mac.Hash(data, authKey, hashNew)[:alg.tagSize()]
}
