package gltest

import (
	"testing"

	"github.com/richinsley/goglsandbox/glapi"
	"github.com/stretchr/testify/assert"
)

func TestReadPixels(t *testing.T) {
	f := New()
	data := make([]byte, 2*2*4)
	f.ReadPixels(0, 0, 2, 2, glapi.RGBA, glapi.UNSIGNED_BYTE, data)
	assert.Empty(t, f.PendingErrors())
	for _, b := range data {
		assert.Equal(t, byte(0xff), b)
	}
	assert.Equal(t, 1, f.ReadPixelCalls)
}

func TestReadPixelsShortBuffer(t *testing.T) {
	f := New()
	f.ReadPixels(0, 0, 4, 4, glapi.RGBA, glapi.UNSIGNED_BYTE, make([]byte, 8))
	assert.Equal(t, glapi.INVALID_VALUE, f.GetError())

	// 65536*65536*4 wraps to zero in 32 bits
	data := make([]byte, 16)
	f.ReadPixels(0, 0, 65536, 65536, glapi.RGBA, glapi.UNSIGNED_BYTE, data)
	assert.Equal(t, glapi.INVALID_VALUE, f.GetError())
	assert.Equal(t, make([]byte, 16), data)

	f.ReadPixels(0, 0, -1, 4, glapi.RGBA, glapi.UNSIGNED_BYTE, data)
	assert.Equal(t, glapi.INVALID_VALUE, f.GetError())
	assert.Equal(t, glapi.NO_ERROR, f.GetError())
}
