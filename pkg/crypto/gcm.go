package crypto

import "errors"

// encryptGCM delegates to the native AEAD engine: process the whole input,
// then finalize to append the 128-bit tag.
func encryptGCM(plaintext, key, iv, aad []byte) ([]byte, error) {
	engine, err := gcmEngine(DirectionEncrypt, key, iv, aad)
	if err != nil {
		return nil, err
	}

	out := make([]byte, engine.OutputSize(len(plaintext)))

	off, err := engine.Process(out, plaintext)
	if err != nil {
		return nil, err
	}

	n, err := engine.Finalize(out[off:])
	if err != nil {
		return nil, err
	}

	return out[:off+n], nil
}

// decryptGCM runs the combined decrypt+verify pipeline; the engine raises
// an authentication failure before any plaintext is released.
func decryptGCM(payload, key, iv, aad []byte) ([]byte, error) {
	engine, err := gcmEngine(DirectionDecrypt, key, iv, aad)
	if err != nil {
		return nil, err
	}

	out := make([]byte, engine.OutputSize(len(payload)))

	off, err := engine.Process(out, payload)
	if err != nil {
		return nil, err
	}

	n, err := engine.Finalize(out[off:])
	if err != nil {
		return nil, err
	}

	return out[:off+n], nil
}

func gcmEngine(direction Direction, key, iv, aad []byte) (AEAD, error) {
	engine, err := BlockCipher(AES, ModeGCM, EngineParams{
		Direction: direction,
		Key:       key,
		IV:        iv,
		AAD:       aad,
		TagBits:   gcmTagBits,
	})
	if err != nil {
		return nil, err
	}

	aead, ok := engine.(AEAD)
	if !ok {
		return nil, engineErr("gcm", errors.New("engine does not implement AEAD"))
	}

	return aead, nil
}
