package util

import (
	"io"
	"net/http"
	"strings"
)

// SniffMIME reads up to 512 bytes from reader, detects the content type, and
// returns a reader that replays the sniffed bytes before the rest.
func SniffMIME(reader io.Reader) (string, io.Reader, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}

	detected := http.DetectContentType(buffer[:n])
	combined := io.MultiReader(strings.NewReader(string(buffer[:n])), reader)
	return detected, combined, nil
}

func IsImageMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(cleaned, "image/")
}

// IsDecodableImageMIME reports whether the thumbnailer can decode the type.
func IsDecodableImageMIME(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp", "image/tiff":
		return true
	default:
		return false
	}
}
