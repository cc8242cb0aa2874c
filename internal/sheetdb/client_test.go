package sheetdb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/receipt-tracker/internal/domain"
)

func newTestClient(srv *httptest.Server, style ReadStyle) *Client {
	return NewClient(&Config{
		ListEndpoint:   srv.URL + "/api/v1/abc",
		WriteEndpoint:  srv.URL + "/api/v1/abc",
		UploadEndpoint: srv.URL + "/upload",
		ReadStyle:      style,
		HTTPClient:     srv.Client(),
	})
}

func TestFetchListData(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("sheet")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"Name":"Acme"},{"Name":"Bolt Co"}]`)
	}))
	defer srv.Close()

	rows, err := newTestClient(srv, ReadStyleSearch).FetchListData(context.Background(), "Vendors")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/abc/search", gotPath)
	assert.Equal(t, "Vendors", gotQuery)
	assert.Equal(t, []string{"Acme", "Bolt Co"}, domain.OptionVendors.Values(rows))
}

func TestFetchListDataSheetStyle(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `[{"Project":"Bridge"}]`)
	}))
	defer srv.Close()

	rows, err := newTestClient(srv, ReadStyleSheet).FetchListData(context.Background(), "Project Lists")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/abc/sheet/Project Lists", gotPath)
	assert.Equal(t, []string{"Bridge"}, domain.OptionProjects.Values(rows))
}

func TestFetchListDataFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "not an array", status: http.StatusOK, body: `{"error":"Sheet not found"}`},
		{name: "not json", status: http.StatusOK, body: `<html>`},
		{name: "null", status: http.StatusOK, body: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			rows, err := newTestClient(srv, ReadStyleSearch).FetchListData(context.Background(), "Vendors")
			require.Error(t, err)
			assert.Nil(t, rows)
			assert.True(t, errors.Is(err, ErrListFetch))

			var sheetErr *Error
			require.True(t, errors.As(err, &sheetErr))
			assert.Equal(t, "fetch_list", sheetErr.Op)
		})
	}
}

func TestSubmitFormData(t *testing.T) {
	var payload map[string][]map[string]string
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"created":1}`)
	}))
	defer srv.Close()

	receipt := domain.Receipt{
		Date:        "2024-03-01",
		Project:     "Bridge",
		Description: "Cement",
		Category:    "Materials",
		Volume:      "10",
		UnitPrice:   "4.50",
		Vendor:      "Acme",
		Location:    "Site A",
		WorkItem:    "Foundation",
	}

	ack, err := newTestClient(srv, ReadStyleSearch).SubmitFormData(context.Background(), receipt)
	require.NoError(t, err)
	assert.Equal(t, 1, ack.Created)
	assert.JSONEq(t, `{"created":1}`, string(ack.Raw))
	assert.Equal(t, "application/json", contentType)

	require.Len(t, payload["data"], 1)
	row := payload["data"][0]
	assert.Len(t, row, len(domain.Columns))
	assert.Equal(t, "2024-03-01", row["Date"])
	assert.Equal(t, "Acme", row["Vendor/Supplier"])
	assert.Equal(t, "4.50", row["Unit Price"])
	assert.Equal(t, "", row["Receipt Number"])
	assert.Equal(t, "", row["Image URL"])
}

func TestSubmitFormDataErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":"rate limited"}`)
	}))
	defer srv.Close()

	ack, err := newTestClient(srv, ReadStyleSearch).SubmitFormData(context.Background(), domain.Receipt{})
	require.Error(t, err)
	assert.Nil(t, ack)
	assert.True(t, errors.Is(err, ErrRowSubmission))
	assert.Contains(t, err.Error(), "429")
}

func TestUploadImage(t *testing.T) {
	var payload uploadPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		io.WriteString(w, `{"url":"https://host/receipt_123.png"}`)
	}))
	defer srv.Close()

	url, err := newTestClient(srv, ReadStyleSearch).UploadImage(context.Background(), "aGVsbG8=", "receipt_123.png")
	require.NoError(t, err)
	assert.Equal(t, "https://host/receipt_123.png", url)
	assert.Equal(t, "aGVsbG8=", payload.Image)
	assert.Equal(t, "receipt_123.png", payload.Name)
}

func TestUploadImageFailures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantShape bool
	}{
		{name: "missing url", status: http.StatusOK, body: `{"ok":true}`, wantShape: true},
		{name: "blank url", status: http.StatusOK, body: `{"url":"  "}`, wantShape: true},
		{name: "not json", status: http.StatusOK, body: `Script error`, wantShape: true},
		{name: "error status", status: http.StatusBadGateway, body: `{"url":"https://x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			url, err := newTestClient(srv, ReadStyleSearch).UploadImage(context.Background(), "aGVsbG8=", "x.png")
			require.Error(t, err)
			assert.Empty(t, url)
			assert.True(t, errors.Is(err, ErrImageUpload))
			assert.Equal(t, tt.wantShape, errors.Is(err, ErrResponseShape))
		})
	}
}

func TestUnconfiguredEndpoints(t *testing.T) {
	c := NewClient(nil)

	_, err := c.FetchListData(context.Background(), "Vendors")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = c.SubmitFormData(context.Background(), domain.Receipt{})
	assert.True(t, errors.Is(err, ErrRowSubmission))

	_, err = c.UploadImage(context.Background(), "", "x")
	assert.True(t, errors.Is(err, ErrImageUpload))
}
