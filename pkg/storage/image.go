package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// CompressImage scales img down so neither side exceeds maxDimension and
// re-encodes it as JPEG. Smaller images keep their size.
func CompressImage(data []byte, maxDimension, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	newWidth, newHeight := fitWithin(bounds.Dx(), bounds.Dy(), maxDimension)

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	// JPEG has no alpha; paint white first so transparent logos stay readable
	draw.Draw(resized, resized.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func fitWithin(width, height, maxDimension int) (int, int) {
	if width <= maxDimension && height <= maxDimension {
		return width, height
	}
	if width >= height {
		h := int(float64(height) * float64(maxDimension) / float64(width))
		if h < 1 {
			h = 1
		}
		return maxDimension, h
	}
	w := int(float64(width) * float64(maxDimension) / float64(height))
	if w < 1 {
		w = 1
	}
	return w, maxDimension
}
