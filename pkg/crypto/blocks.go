package crypto

// SplitByBlockSize chunks input into blockSize-byte blocks. A non-empty
// remainder becomes one final block, zero-filled past the remainder. When
// the input length is an exact multiple of blockSize and padFinal is true,
// one extra all-zero block is appended, reserving room for an unambiguous
// padding block before CBC encryption. The result is materialized: it is
// consumed exactly once by a chaining loop right after.
func SplitByBlockSize(input []byte, blockSize int, padFinal bool) [][]byte {
	if blockSize <= 0 {
		return nil
	}

	full := len(input) / blockSize
	rem := len(input) % blockSize

	count := full
	if rem > 0 || padFinal {
		count++
	}

	blocks := make([][]byte, 0, count)

	for i := 0; i < full; i++ {
		block := make([]byte, blockSize)
		copy(block, input[i*blockSize:(i+1)*blockSize])
		blocks = append(blocks, block)
	}

	if rem > 0 {
		block := make([]byte, blockSize)
		copy(block, input[full*blockSize:])
		blocks = append(blocks, block)
	} else if padFinal {
		blocks = append(blocks, make([]byte, blockSize))
	}

	return blocks
}
