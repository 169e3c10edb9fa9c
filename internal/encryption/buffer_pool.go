package encryption

import "sync"

const copyBufferSize = 32 * 1024

// copyPool recycles the read buffers used by the per-file streaming loops.
//
//nolint:gochecknoglobals
var copyPool = sync.Pool{
	New: func() any {
		return make([]byte, copyBufferSize)
	},
}
