package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGetBuffer returns buffers of the requested length.
func TestGetBuffer(t *testing.T) {
	for _, size := range []int{0, 4, 128, 4096, 10000} {
		buf := GetBuffer(size)
		require.Len(t, buf, size)
		ReleaseBuffer(buf)
	}
}

// TestBufferReuse: a released buffer can come back from the pool.
func TestBufferReuse(t *testing.T) {
	buf := GetBuffer(16)
	buf[0] = 0xAA
	ReleaseBuffer(buf)

	again := GetBuffer(16)
	require.Len(t, again, 16)
	ReleaseBuffer(again)
}
