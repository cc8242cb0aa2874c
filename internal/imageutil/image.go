package imageutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned when the selected file is not an image
var ErrNotImage = errors.New("file is not an image")

// ErrTooLarge is returned when the selected file exceeds the size limit
var ErrTooLarge = errors.New("image is too large")

// Image is a selected receipt photo held in memory until it is uploaded
type Image struct {
	Data        []byte
	ContentType string
	Filename    string // name the user picked, informational only
}

// Read loads at most limit bytes from r and sniffs the content type.
// A limit of 0 or less means no limit.
func Read(r io.Reader, filename string, limit int64) (*Image, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, limit)
	}

	return New(data, filename)
}

// New wraps raw bytes, rejecting anything that does not sniff as an image
func New(data []byte, filename string) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrNotImage)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}

	return &Image{
		Data:        data,
		ContentType: mtype.String(),
		Filename:    filename,
	}, nil
}

// FromBase64 decodes a base64 photo as posted to the JSON API. A leading
// data URI prefix is accepted and ignored.
func FromBase64(encoded, filename string, limit int64) (*Image, error) {
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}

	if limit > 0 && int64(base64.StdEncoding.DecodedLen(len(encoded))) > limit+2 {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, limit)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrNotImage, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, limit)
	}

	return New(data, filename)
}

// Extension returns the file extension for the image type, including the dot
func (img *Image) Extension() string {
	if img == nil {
		return ""
	}
	if mtype := mimetype.Lookup(img.ContentType); mtype != nil {
		return mtype.Extension()
	}
	return ""
}

// Base64 encodes the image with standard padding and no data URI prefix
func (img *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// PreviewDataURI returns a data URI suitable for an <img> preview
func (img *Image) PreviewDataURI() string {
	return "data:" + img.ContentType + ";base64," + img.Base64()
}

// Size returns the image size in bytes
func (img *Image) Size() int {
	return len(img.Data)
}
