package sheetdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Uploader stores a base64 encoded image and returns its public URL
type Uploader interface {
	UploadImage(ctx context.Context, encoded, filename string) (string, error)
}

type uploadPayload struct {
	Image string `json:"image"`
	Name  string `json:"name"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadImage posts the encoded image to the upload script and returns the
// URL it reports. encoded must not carry a data URI prefix.
func (c *Client) UploadImage(ctx context.Context, encoded, filename string) (string, error) {
	if c.uploadURL == "" {
		return "", &Error{Op: "upload_image", Err: fmt.Errorf("%w: %w", ErrImageUpload, ErrNotConfigured)}
	}

	jsonData, err := json.Marshal(uploadPayload{Image: encoded, Name: filename})
	if err != nil {
		return "", &Error{Op: "upload_image", Err: fmt.Errorf("%w: marshal payload: %w", ErrImageUpload, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", &Error{Op: "upload_image", Err: fmt.Errorf("%w: create request: %w", ErrImageUpload, err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Op: "upload_image", Err: fmt.Errorf("%w: send request: %w", ErrImageUpload, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Op: "upload_image", Err: fmt.Errorf("%w: read response: %w", ErrImageUpload, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{
			Op:  "upload_image",
			Err: fmt.Errorf("%w: status %d: %s", ErrImageUpload, resp.StatusCode, truncateBody(body)),
		}
	}

	var result uploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &Error{
			Op:  "upload_image",
			Err: fmt.Errorf("%w: %w: %v", ErrImageUpload, ErrResponseShape, err),
		}
	}

	url := strings.TrimSpace(result.URL)
	if url == "" {
		return "", &Error{
			Op:  "upload_image",
			Err: fmt.Errorf("%w: %w", ErrImageUpload, ErrResponseShape),
		}
	}

	return url, nil
}
