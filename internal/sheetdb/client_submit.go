package sheetdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ridwanfathin/receipt-tracker/internal/domain"
)

// Acknowledgement is the store's reply to a row append
type Acknowledgement struct {
	Created int             `json:"created"`
	Raw     json.RawMessage `json:"-"`
}

type submitPayload struct {
	Data []domain.Row `json:"data"`
}

// SubmitFormData appends the receipt as one new row. There is no way to
// undo the append from here.
func (c *Client) SubmitFormData(ctx context.Context, receipt domain.Receipt) (*Acknowledgement, error) {
	if c.writeURL == "" {
		return nil, &Error{Op: "submit_row", Err: fmt.Errorf("%w: %w", ErrRowSubmission, ErrNotConfigured)}
	}

	jsonData, err := json.Marshal(submitPayload{Data: []domain.Row{receipt.ToRow()}})
	if err != nil {
		return nil, &Error{Op: "submit_row", Err: fmt.Errorf("%w: marshal payload: %w", ErrRowSubmission, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.writeURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &Error{Op: "submit_row", Err: fmt.Errorf("%w: create request: %w", ErrRowSubmission, err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: "submit_row", Err: fmt.Errorf("%w: send request: %w", ErrRowSubmission, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: "submit_row", Err: fmt.Errorf("%w: read response: %w", ErrRowSubmission, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Op:  "submit_row",
			Err: fmt.Errorf("%w: status %d: %s", ErrRowSubmission, resp.StatusCode, truncateBody(body)),
		}
	}

	ack := &Acknowledgement{Raw: json.RawMessage(body)}
	if len(bytes.TrimSpace(body)) > 0 {
		// The row is already written at this point, so an unexpected
		// acknowledgement shape is not a failure.
		_ = json.Unmarshal(body, ack)
	}

	return ack, nil
}
