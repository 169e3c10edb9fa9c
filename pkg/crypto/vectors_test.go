package crypto_test

import (
	"encoding/hex"
	"os"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RokLenarcic/buddy-core/pkg/crypto"
)

// Vector is a single known-answer case from the YAML golden file.
type Vector struct {
	Name      string `yaml:"name"`
	Algorithm string `yaml:"algorithm"`
	Key       string `yaml:"key"`
	IV        string `yaml:"iv"`
	Plaintext string `yaml:"plaintext"`
	AAD       string `yaml:"aad,omitempty"`
	Payload   string `yaml:"payload"`
}

func loadVectors(t *testing.T) []Vector {
	t.Helper()

	data, err := os.ReadFile("testdata/vectors.yml")
	require.NoError(t, err)

	var vectors []Vector
	require.NoError(t, yaml.Unmarshal(data, &vectors))
	require.NotEmpty(t, vectors)

	return vectors
}

func fromHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)

	return b
}

func TestKnownAnswerVectors(t *testing.T) {
	t.Parallel()

	for _, v := range loadVectors(t) {
		t.Run(v.Name, func(t *testing.T) {
			t.Parallel()

			alg, err := crypto.ParseAlgorithm(v.Algorithm)
			require.NoError(t, err)

			key := fromHex(t, v.Key)
			iv := fromHex(t, v.IV)
			plaintext := fromHex(t, v.Plaintext)
			payload := fromHex(t, v.Payload)

			opts := []crypto.Option{crypto.WithAlgorithm(alg)}
			if v.AAD != "" {
				opts = append(opts, crypto.WithAAD(fromHex(t, v.AAD)))
			}

			sealed, err := crypto.Encrypt(plaintext, key, iv, opts...)
			require.NoError(t, err)
			assert.Equal(t, payload, sealed)

			opened, err := crypto.Decrypt(payload, key, iv, opts...)
			require.NoError(t, err)
			assert.Equal(t, plaintext, opened)
		})
	}
}
