package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	// Decoders for formats phones commonly hand us
	_ "image/gif"

	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension is the default maximum dimension for resizing
const DefaultMaxDimension = 1600

// ResizeConfig holds configuration for image resizing
type ResizeConfig struct {
	MaxDimension int // Maximum width or height, 0 disables resizing
	Quality      int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default resize configuration
func DefaultConfig() *ResizeConfig {
	return &ResizeConfig{
		MaxDimension: DefaultMaxDimension,
		Quality:      85,
	}
}

// Downscale shrinks an image that exceeds the max dimension while keeping its
// aspect ratio. JPEG input stays JPEG; everything else is re-encoded as PNG.
// The original bytes are returned untouched when no resize is needed.
func Downscale(img *Image, config *ResizeConfig) (*Image, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxDimension <= 0 {
		return img, nil
	}

	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= config.MaxDimension && height <= config.MaxDimension {
		return img, nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = config.MaxDimension
		newHeight = int(float64(height) * float64(config.MaxDimension) / float64(width))
	} else {
		newHeight = config.MaxDimension
		newWidth = int(float64(width) * float64(config.MaxDimension) / float64(height))
	}
	newWidth = max(newWidth, 1)
	newHeight = max(newHeight, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))

	// CatmullRom is close to Lanczos and plenty for receipt photos
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	quality := config.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	var buf bytes.Buffer
	contentType := img.ContentType
	if contentType == "image/jpeg" {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality})
	} else {
		contentType = "image/png"
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return &Image{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Filename:    img.Filename,
	}, nil
}
