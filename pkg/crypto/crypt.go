package crypto

// Option configures an Encrypt or Decrypt call.
type Option func(*options)

type options struct {
	algorithm Algorithm
	aad       []byte
}

// WithAlgorithm selects the composite scheme. The default is
// AES128CBCHMACSHA256.
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) { o.algorithm = alg }
}

// WithAAD binds associated data into the authentication tag. Only GCM
// algorithms support associated data; supplying it for a CBC-HMAC
// algorithm is a contract violation rather than silently dropped.
func WithAAD(aad []byte) Option {
	return func(o *options) { o.aad = aad }
}

func newOptions(opts []Option) options {
	o := options{algorithm: AES128CBCHMACSHA256}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Encrypt encrypts plaintext under the selected algorithm and returns
// ciphertext with the authentication tag appended. The key and IV lengths
// must match the algorithm exactly; the IV must be fresh randomness, never
// reused with the same key.
func Encrypt(plaintext, key, iv []byte, opts ...Option) ([]byte, error) {
	const op = "encrypt"

	o := newOptions(opts)

	if err := o.check(op, key, iv); err != nil {
		return nil, err
	}

	if o.algorithm.IsAEAD() {
		return encryptGCM(plaintext, key, iv, o.aad)
	}

	return encryptCBCHMAC(plaintext, key, iv, o.algorithm)
}

// Decrypt authenticates and decrypts a payload produced by Encrypt with
// the same algorithm, key and IV. On authentication failure it returns a
// KindAuthentication error and no plaintext, not even partially.
func Decrypt(payload, key, iv []byte, opts ...Option) ([]byte, error) {
	const op = "decrypt"

	o := newOptions(opts)

	if err := o.check(op, key, iv); err != nil {
		return nil, err
	}

	if o.algorithm.IsAEAD() {
		return decryptGCM(payload, key, iv, o.aad)
	}

	return decryptCBCHMAC(payload, key, iv, o.algorithm)
}

// check validates every precondition before any cipher state is touched.
func (o options) check(op string, key, iv []byte) error {
	if err := o.algorithm.check(op, key, iv); err != nil {
		return err
	}

	if o.aad != nil && !o.algorithm.IsAEAD() {
		return contractErr(op, "%s: associated data requires a GCM algorithm", o.algorithm)
	}

	return nil
}
