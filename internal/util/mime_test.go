package util

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffMIME(t *testing.T) {
	t.Parallel()

	t.Run("detects png and replays sniffed bytes", func(t *testing.T) {
		payload := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 600)...)

		mimeType, reader, err := SniffMIME(bytes.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, "image/png", mimeType)

		replayed, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, payload, replayed)
	})

	t.Run("short input still sniffs", func(t *testing.T) {
		mimeType, reader, err := SniffMIME(bytes.NewReader([]byte("hi")))
		require.NoError(t, err)
		assert.Equal(t, "text/plain; charset=utf-8", mimeType)

		replayed, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, []byte("hi"), replayed)
	})
}

func TestIsImageMIME(t *testing.T) {
	assert.True(t, IsImageMIME("image/png"))
	assert.True(t, IsImageMIME(" IMAGE/JPEG "))
	assert.False(t, IsImageMIME("application/pdf"))
	assert.False(t, IsImageMIME(""))
}

func TestIsDecodableImageMIME(t *testing.T) {
	assert.True(t, IsDecodableImageMIME("image/jpeg"))
	assert.True(t, IsDecodableImageMIME("image/webp"))
	assert.False(t, IsDecodableImageMIME("image/svg+xml"))
}
