package sheetdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ridwanfathin/receipt-tracker/internal/domain"
)

// FetchListData reads every row of a reference sheet. A response that is not
// a JSON array of objects is reported as ErrListFetch.
func (c *Client) FetchListData(ctx context.Context, sheet string) ([]domain.Row, error) {
	if c.listURL == "" {
		return nil, &Error{Op: "fetch_list", Err: fmt.Errorf("%w: %w", ErrListFetch, ErrNotConfigured)}
	}

	var endpoint string
	switch c.readStyle {
	case ReadStyleSheet:
		endpoint = fmt.Sprintf("%s/sheet/%s", c.listURL, url.PathEscape(sheet))
	default:
		endpoint = fmt.Sprintf("%s/search?%s", c.listURL, url.Values{"sheet": {sheet}}.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Op: "fetch_list", Err: fmt.Errorf("%w: create request: %w", ErrListFetch, err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: "fetch_list", Err: fmt.Errorf("%w: send request: %w", ErrListFetch, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: "fetch_list", Err: fmt.Errorf("%w: read response: %w", ErrListFetch, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Op:  "fetch_list",
			Err: fmt.Errorf("%w: sheet %q returned status %d: %s", ErrListFetch, sheet, resp.StatusCode, truncateBody(body)),
		}
	}

	var rows []domain.Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &Error{
			Op:  "fetch_list",
			Err: fmt.Errorf("%w: sheet %q returned malformed rows: %w", ErrListFetch, sheet, err),
		}
	}

	// A JSON null decodes to a nil slice without error
	if rows == nil {
		return nil, &Error{
			Op:  "fetch_list",
			Err: fmt.Errorf("%w: sheet %q returned no rows array", ErrListFetch, sheet),
		}
	}

	return rows, nil
}
