package encryption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RokLenarcic/buddy-core/pkg/crypto"
)

func TestEnvelopeHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range crypto.Algorithms() {
		header := newEnvelopeHeader(schemeForAlgorithm(alg), true)
		require.Len(t, header, envelopeHeaderSize)

		scheme, exec, err := parseEnvelopeHeader(header)
		require.NoError(t, err)
		assert.True(t, exec)

		parsed, err := algorithmForScheme(scheme)
		require.NoError(t, err)
		assert.Equal(t, alg, parsed)
	}
}

func TestEnvelopeHeaderDeterministic(t *testing.T) {
	t.Parallel()

	header := newEnvelopeHeader(schemeDeterministic, false)

	scheme, exec, err := parseEnvelopeHeader(header)
	require.NoError(t, err)
	assert.Equal(t, schemeDeterministic, scheme)
	assert.False(t, exec)
}

func TestParseEnvelopeHeaderRejectsMalformed(t *testing.T) {
	t.Parallel()

	valid := newEnvelopeHeader(schemeForAlgorithm(crypto.AES128GCM), false)

	tests := []struct {
		name   string
		mutate func([]byte)
	}{
		{"wrong magic", func(h []byte) { h[0] = 'X' }},
		{"wrong version", func(h []byte) { h[len(envelopeMagic)] = 99 }},
		{"unknown scheme", func(h []byte) { h[len(envelopeMagic)+2] = 0xEE }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			header := append([]byte(nil), valid...)
			tt.mutate(header)

			_, _, err := parseEnvelopeHeader(header)
			assert.ErrorIs(t, err, ErrEnvelope)
		})
	}

	t.Run("truncated header", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseEnvelopeHeader(valid[:3])
		assert.ErrorIs(t, err, ErrEnvelope)
	})
}
