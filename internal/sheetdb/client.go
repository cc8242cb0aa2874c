package sheetdb

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Error kinds returned by the client, matched with errors.Is
var (
	ErrListFetch     = errors.New("list fetch failed")
	ErrRowSubmission = errors.New("row submission failed")
	ErrImageUpload   = errors.New("image upload failed")
	ErrResponseShape = errors.New("response has no usable url")
	ErrNotConfigured = errors.New("endpoint not configured")
)

const maxErrorBodyBytes = 512

// Error represents a failed call against the tabular store or upload endpoint
type Error struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return "sheetdb error: " + e.Op
	}
	return "sheetdb error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// ReadStyle selects the URL shape used to read a reference sheet
type ReadStyle string

const (
	// ReadStyleSearch reads with GET <list>/search?sheet=<name>
	ReadStyleSearch ReadStyle = "search"
	// ReadStyleSheet reads with GET <list>/sheet/<name>
	ReadStyleSheet ReadStyle = "sheet"
)

// Config holds configuration for the client
type Config struct {
	ListEndpoint   string
	WriteEndpoint  string
	UploadEndpoint string
	ReadStyle      ReadStyle
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// DefaultConfig returns a configuration with default timeout and read style
func DefaultConfig() *Config {
	return &Config{
		ReadStyle: ReadStyleSearch,
		Timeout:   30 * time.Second,
	}
}

// Client talks to the hosted spreadsheet API and the image upload script.
// Every call is issued exactly once; callers decide whether to try again.
type Client struct {
	listURL    string
	writeURL   string
	uploadURL  string
	readStyle  ReadStyle
	httpClient *http.Client
}

// NewClient creates a new client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	readStyle := config.ReadStyle
	if readStyle == "" {
		readStyle = ReadStyleSearch
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	return &Client{
		listURL:    strings.TrimRight(config.ListEndpoint, "/"),
		writeURL:   config.WriteEndpoint,
		uploadURL:  config.UploadEndpoint,
		readStyle:  readStyle,
		httpClient: httpClient,
	}
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyBytes {
		return s[:maxErrorBodyBytes] + "..."
	}
	return s
}
