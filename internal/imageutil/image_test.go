package imageutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestNewDetectsImage(t *testing.T) {
	img, err := New(encodePNG(t, 4, 4), "photo.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension())
	assert.Equal(t, "photo.png", img.Filename)
}

func TestNewRejectsNonImage(t *testing.T) {
	_, err := New([]byte("just some text, not a picture"), "notes.txt")
	assert.True(t, errors.Is(err, ErrNotImage))

	_, err = New(nil, "empty.png")
	assert.True(t, errors.Is(err, ErrNotImage))
}

func TestReadLimit(t *testing.T) {
	data := encodePNG(t, 8, 8)

	_, err := Read(bytes.NewReader(data), "a.png", int64(len(data)-1))
	assert.True(t, errors.Is(err, ErrTooLarge))

	img, err := Read(bytes.NewReader(data), "a.png", int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, len(data), img.Size())
}

func TestBase64HasNoPrefix(t *testing.T) {
	img, err := New(encodePNG(t, 2, 2), "a.png")
	require.NoError(t, err)

	encoded := img.Base64()
	assert.False(t, strings.HasPrefix(encoded, "data:"))
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, img.Data, decoded)

	assert.True(t, strings.HasPrefix(img.PreviewDataURI(), "data:image/png;base64,"))
}

func TestDownscale(t *testing.T) {
	img, err := New(encodePNG(t, 300, 100), "wide.png")
	require.NoError(t, err)

	out, err := Downscale(img, &ResizeConfig{MaxDimension: 150})
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.ContentType)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 150, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestDownscaleKeepsJPEG(t *testing.T) {
	img, err := New(encodeJPEG(t, 100, 400), "tall.jpg")
	require.NoError(t, err)

	out, err := Downscale(img, &ResizeConfig{MaxDimension: 200, Quality: 70})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", out.ContentType)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestDownscaleNoop(t *testing.T) {
	img, err := New(encodePNG(t, 10, 10), "small.png")
	require.NoError(t, err)

	out, err := Downscale(img, &ResizeConfig{MaxDimension: 100})
	require.NoError(t, err)
	assert.Same(t, img, out)

	out, err = Downscale(img, &ResizeConfig{MaxDimension: 0})
	require.NoError(t, err)
	assert.Same(t, img, out)
}

func TestFromBase64(t *testing.T) {
	raw := encodePNG(t, 4, 4)
	encoded := base64.StdEncoding.EncodeToString(raw)

	img, err := FromBase64(encoded, "", 0)
	require.NoError(t, err)
	assert.Equal(t, raw, img.Data)

	img, err = FromBase64("data:image/png;base64,"+encoded, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)

	_, err = FromBase64("not base64!", "", 0)
	assert.True(t, errors.Is(err, ErrNotImage))

	_, err = FromBase64(encoded, "", 10)
	assert.True(t, errors.Is(err, ErrTooLarge))
}
