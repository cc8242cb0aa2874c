package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/receipt-tracker/internal/imageutil"
)

// getFormFile retrieves an optional file from multipart form data.
// A missing file returns nil without error.
func getFormFile(c *gin.Context, fieldName string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := c.Request.FormFile(fieldName)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", fieldName, err)
	}
	if header.Size == 0 {
		file.Close()
		return nil, nil, nil
	}
	return file, header, nil
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}

// imageErrorMessage describes why a selected photo was rejected
func imageErrorMessage(err error, limit int64) string {
	switch {
	case errors.Is(err, imageutil.ErrTooLarge):
		return "must be at most " + byteSize(limit)
	case errors.Is(err, imageutil.ErrNotImage):
		return "must be an image file"
	default:
		return "could not be read"
	}
}

func byteSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
