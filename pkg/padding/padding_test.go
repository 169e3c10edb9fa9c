package padding_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RokLenarcic/buddy-core/pkg/padding"
)

func TestPadUnpadRoundTrip(t *testing.T) {
	t.Parallel()

	const blockSize = 16

	for used := 0; used < blockSize; used++ {
		block := make([]byte, blockSize)
		for i := 0; i < used; i++ {
			block[i] = byte(i + 1)
		}

		data := append([]byte(nil), block[:used]...)

		require.NoError(t, padding.Pad(block, used))

		got, err := padding.Unpad(block)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(data, got), "used=%d", used)
	}
}

func TestPadFillsWholeBlockForZeroUsed(t *testing.T) {
	t.Parallel()

	block := make([]byte, 16)
	require.NoError(t, padding.Pad(block, 0))

	for _, b := range block {
		assert.Equal(t, byte(16), b)
	}
}

func TestPadRejectsFullBlock(t *testing.T) {
	t.Parallel()

	block := make([]byte, 16)
	assert.ErrorIs(t, padding.Pad(block, 16), padding.ErrInvalidPadding)
	assert.ErrorIs(t, padding.Pad(block, -1), padding.ErrInvalidPadding)
}

func TestUnpadRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block []byte
		want  error
	}{
		{"empty block", nil, padding.ErrEmptyBlock},
		{"zero padding byte", []byte{1, 2, 3, 0}, padding.ErrInvalidPadding},
		{"padding longer than block", []byte{1, 2, 9}, padding.ErrInvalidPadding},
		{"inconsistent padding bytes", []byte{1, 2, 2, 3, 3}, padding.ErrInvalidPadding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := padding.Unpad(tt.block)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
