package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// Algorithm identifies a composite authenticated encryption scheme.
// It fixes the total key length, the IV length, the encryption/authentication
// key split (CBC-HMAC) and the hash function backing the tag (CBC-HMAC).
type Algorithm uint8

const (
	// AES128CBCHMACSHA256 is AES-128-CBC with an HMAC-SHA-256 tag. 32-byte key, 16-byte IV.
	AES128CBCHMACSHA256 Algorithm = iota
	// AES192CBCHMACSHA384 is AES-192-CBC with an HMAC-SHA-384 tag. 48-byte key, 16-byte IV.
	AES192CBCHMACSHA384
	// AES256CBCHMACSHA512 is AES-256-CBC with an HMAC-SHA-512 tag. 64-byte key, 16-byte IV.
	AES256CBCHMACSHA512
	// AES128GCM is AES-128 in Galois/Counter mode. 16-byte key, 12-byte IV.
	AES128GCM
	// AES192GCM is AES-192 in Galois/Counter mode. 24-byte key, 12-byte IV.
	AES192GCM
	// AES256GCM is AES-256 in Galois/Counter mode. 32-byte key, 12-byte IV.
	AES256GCM
)

var algorithmNames = map[Algorithm]string{
	AES128CBCHMACSHA256: "aes128-cbc-hmac-sha256",
	AES192CBCHMACSHA384: "aes192-cbc-hmac-sha384",
	AES256CBCHMACSHA512: "aes256-cbc-hmac-sha512",
	AES128GCM:           "aes128-gcm",
	AES192GCM:           "aes192-gcm",
	AES256GCM:           "aes256-gcm",
}

// Algorithms returns every supported algorithm, in declaration order.
func Algorithms() []Algorithm {
	return []Algorithm{
		AES128CBCHMACSHA256, AES192CBCHMACSHA384, AES256CBCHMACSHA512,
		AES128GCM, AES192GCM, AES256GCM,
	}
}

// ParseAlgorithm maps a textual identifier such as "aes128-gcm" to its Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	for alg, name := range algorithmNames {
		if name == s {
			return alg, nil
		}
	}

	return 0, contractErr("parse algorithm", "unsupported algorithm %q", s)
}

// String returns the textual identifier of the algorithm.
func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}

	return "unknown"
}

// KeySize returns the exact composite key length in bytes.
func (a Algorithm) KeySize() int {
	switch a {
	case AES128CBCHMACSHA256:
		return 32
	case AES192CBCHMACSHA384:
		return 48
	case AES256CBCHMACSHA512:
		return 64
	case AES128GCM:
		return 16
	case AES192GCM:
		return 24
	case AES256GCM:
		return 32
	default:
		return 0
	}
}

// IVSize returns the exact initialization vector length in bytes.
func (a Algorithm) IVSize() int {
	switch a {
	case AES128CBCHMACSHA256, AES192CBCHMACSHA384, AES256CBCHMACSHA512:
		return 16
	case AES128GCM, AES192GCM, AES256GCM:
		return gcmStandardNonceSize
	default:
		return 0
	}
}

// IsAEAD reports whether the algorithm delegates to a native AEAD engine.
func (a Algorithm) IsAEAD() bool {
	switch a {
	case AES128GCM, AES192GCM, AES256GCM:
		return true
	default:
		return false
	}
}

// tagSize returns the authentication tag length in bytes: half the digest
// for CBC-HMAC schemes, the fixed 128-bit tag for GCM.
func (a Algorithm) tagSize() int {
	switch a {
	case AES128CBCHMACSHA256:
		return sha256.Size / 2
	case AES192CBCHMACSHA384:
		return sha512.Size384 / 2
	case AES256CBCHMACSHA512:
		return sha512.Size / 2
	default:
		return gcmTagBits / 8
	}
}

// hashNew returns the hash constructor backing the HMAC tag. Nil for GCM.
func (a Algorithm) hashNew() func() hash.Hash {
	switch a {
	case AES128CBCHMACSHA256:
		return sha256.New
	case AES192CBCHMACSHA384:
		return sha512.New384
	case AES256CBCHMACSHA512:
		return sha512.New
	default:
		return nil
	}
}

// valid reports whether a is one of the declared algorithm values.
func (a Algorithm) valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

// check validates the key and IV lengths against the algorithm before any
// cipher state is touched.
func (a Algorithm) check(op string, key, iv []byte) error {
	if !a.valid() {
		return contractErr(op, "unsupported algorithm %d", uint8(a))
	}

	if len(key) != a.KeySize() {
		return contractErr(op, "%s: key must be exactly %d bytes, got %d", a, a.KeySize(), len(key))
	}

	if len(iv) != a.IVSize() {
		return contractErr(op, "%s: iv must be exactly %d bytes, got %d", a, a.IVSize(), len(iv))
	}

	return nil
}
