package util

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// GenerateThumbnail decodes an image, scales its longest side down to size
// (never upscales) and writes the result as a JPEG at thumbPath.
func GenerateThumbnail(reader io.Reader, thumbPath string, size int) error {
	if size <= 0 {
		size = 256
	}

	src, _, err := image.Decode(reader)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	maxDim := width
	if height > maxDim {
		maxDim = height
	}

	scale := float64(size) / float64(maxDim)
	if scale > 1 {
		scale = 1
	}

	targetWidth := int(math.Round(float64(width) * scale))
	targetHeight := int(math.Round(float64(height) * scale))
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	writer, err := os.OpenFile(thumbPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open thumbnail: %w", err)
	}

	encodeErr := jpeg.Encode(writer, dst, &jpeg.Options{Quality: 90})
	closeErr := writer.Close()
	if encodeErr != nil {
		return fmt.Errorf("encode thumbnail: %w", encodeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close thumbnail: %w", closeErr)
	}
	return nil
}
