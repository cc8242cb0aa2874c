package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/receipt-tracker/internal/form"
	"github.com/ridwanfathin/receipt-tracker/internal/imageutil"
	"github.com/ridwanfathin/receipt-tracker/internal/options"
	"github.com/ridwanfathin/receipt-tracker/internal/sheetdb"
	"github.com/ridwanfathin/receipt-tracker/internal/web"
)

// fakeSheet stands in for the spreadsheet API and the upload script
type fakeSheet struct {
	mu         sync.Mutex
	rows       []map[string]any
	uploads    []map[string]string
	failWrite  bool
	failUpload bool
	failSheets map[string]bool
}

func (s *fakeSheet) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/list/search", func(w http.ResponseWriter, r *http.Request) {
		sheet := r.URL.Query().Get("sheet")
		s.mu.Lock()
		fail := s.failSheets[sheet]
		s.mu.Unlock()
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}

		var rows []map[string]any
		switch sheet {
		case "Project Lists":
			rows = []map[string]any{{"Name": "Bridge"}, {"Project": "Tunnel"}}
		case "Categories":
			rows = []map[string]any{{"Category": "Materials"}}
		case "Vendors":
			rows = []map[string]any{{"Vendor/Supplier": "Acme"}}
		case "Locations":
			rows = []map[string]any{{"Location": "Site A"}}
		case "Work Items":
			rows = []map[string]any{{"Work Item": "Foundation"}}
		}
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(rows))
	})

	mux.HandleFunc("/write", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Data []map[string]any `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failWrite {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			return
		}
		s.rows = append(s.rows, payload.Data...)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created":1}`)
	})

	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failUpload {
			http.Error(w, "script error", http.StatusInternalServerError)
			return
		}
		s.uploads = append(s.uploads, payload)
		_, _ = io.WriteString(w, `{"url":"https://drive.example/`+payload["name"]+`"}`)
	})

	return mux
}

func (s *fakeSheet) configure(fn func(*fakeSheet)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *fakeSheet) rowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *fakeSheet) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

func (s *fakeSheet) lastRow() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rows) == 0 {
		return nil
	}
	return s.rows[len(s.rows)-1]
}

type testEnv struct {
	sheet  *fakeSheet
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sheet := &fakeSheet{failSheets: map[string]bool{}}
	srv := httptest.NewServer(sheet.handler(t))
	t.Cleanup(srv.Close)

	client := sheetdb.NewClient(&sheetdb.Config{
		ListEndpoint:   srv.URL + "/list",
		WriteEndpoint:  srv.URL + "/write",
		UploadEndpoint: srv.URL + "/upload",
		Timeout:        5 * time.Second,
	})

	logger, _ := test.NewNullLogger()
	loader := options.NewLoader(client, logger)
	pipeline := form.NewPipeline(form.Config{
		Store:    client,
		Uploader: client,
		Loader:   loader,
		Resize:   &imageutil.ResizeConfig{},
		Logger:   logger,
	})

	templates, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(templates)

	forms := NewFormHandler(FormHandlerConfig{
		Registry:      form.NewRegistry(pipeline, time.Hour),
		Cookie:        securecookie.New(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32)),
		MaxImageBytes: 1 << 20,
		Logger:        logger,
	})
	router.GET("/", forms.ShowForm)
	router.POST("/receipts", forms.SubmitForm)
	router.POST("/image/clear", forms.ClearImage)
	router.GET("/image/preview", forms.PreviewImage)

	receipts := NewReceiptHandler(pipeline, 1<<20, logger)
	opts := NewOptionsHandler(loader, logger)
	v1 := router.Group("/v1")
	v1.GET("/options", opts.GetOptions)
	v1.GET("/options/:list", opts.GetOptionList)
	v1.POST("/receipts", receipts.CreateReceipt)

	return &testEnv{sheet: sheet, router: router}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func validReceiptJSON(extra string) string {
	body := `{"date":"2024-03-01","project":"Bridge","description":"Cement","category":"Materials",` +
		`"volume":"3","unitPrice":"0.10","vendor":"Acme","location":"Site A","workItem":"Foundation"`
	if extra != "" {
		body += "," + extra
	}
	return body + "}"
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
