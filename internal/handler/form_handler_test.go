package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// browser keeps cookies between requests like a real client would
type browser struct {
	env     *testEnv
	cookies map[string]*http.Cookie
}

func newBrowser(env *testEnv) *browser {
	return &browser{env: env, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := b.env.do(req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(t *testing.T, path string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", "receipt.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

func validFields() map[string]string {
	return map[string]string{
		"date":        "2024-03-01",
		"project":     "Bridge",
		"description": "Cement bags",
		"category":    "Materials",
		"volume":      "10",
		"unitPrice":   "12.50",
		"vendor":      "Acme",
		"location":    "Site A",
		"workItem":    "Foundation",
	}
}

func TestShowFormRendersOptions(t *testing.T) {
	env := newTestEnv(t)
	b := newBrowser(env)

	w := b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, b.cookies, formCookieName)

	body := w.Body.String()
	assert.Contains(t, body, `<datalist id="projects">`)
	assert.Contains(t, body, `<option value="Tunnel">`)
	assert.Contains(t, body, `<option value="Foundation">`)
	assert.NotContains(t, body, "No options loaded")
}

func TestShowFormDegradesFailedList(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.configure(func(s *fakeSheet) { s.failSheets["Vendors"] = true })
	b := newBrowser(env)

	w := b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "No options loaded for: Vendors")
	assert.Contains(t, body, `<option value="Bridge">`)
}

func TestSubmitFormSuccessResets(t *testing.T) {
	env := newTestEnv(t)
	b := newBrowser(env)
	b.get("/")

	w := b.post(t, "/receipts", validFields(), nil)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.Equal(t, 1, env.sheet.rowCount())
	assert.Equal(t, "", env.sheet.lastRow()["Image URL"])

	w = b.get("/")
	body := w.Body.String()
	assert.Contains(t, body, "was added")
	assert.Contains(t, body, `name="project" list="projects" value=""`)

	// The flash is shown once
	w = b.get("/")
	assert.NotContains(t, w.Body.String(), "was added")
}

func TestSubmitFormValidationKeepsValues(t *testing.T) {
	env := newTestEnv(t)
	b := newBrowser(env)

	fields := validFields()
	delete(fields, "vendor")
	fields["volume"] = "ten"

	w := b.post(t, "/receipts", fields, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Vendor is required")
	assert.Contains(t, body, "Volume must be a number")
	assert.Contains(t, body, `value="Cement bags"`)
	assert.Equal(t, 0, env.sheet.rowCount())
}

func TestSubmitFormWithImage(t *testing.T) {
	env := newTestEnv(t)
	b := newBrowser(env)

	fields := validFields()
	fields["imageUrl"] = "https://example.com/pasted.jpg"

	w := b.post(t, "/receipts", fields, pngBytes(t))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	require.Equal(t, 1, env.sheet.uploadCount())
	imageURL, _ := env.sheet.lastRow()["Image URL"].(string)
	assert.Contains(t, imageURL, "https://drive.example/receipt_")
}

func TestSubmitFormRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	b := newBrowser(env)

	w := b.post(t, "/receipts", validFields(), []byte("plain text, not a photo"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Photo must be an image file")
	assert.Equal(t, 0, env.sheet.rowCount())
}

func TestSubmitFormRowFailureKeepsImage(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.configure(func(s *fakeSheet) { s.failWrite = true })
	b := newBrowser(env)

	w := b.post(t, "/receipts", validFields(), pngBytes(t))
	require.Equal(t, http.StatusBadGateway, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "https://drive.example/receipt_")
	assert.Contains(t, body, `value="Cement bags"`)
	assert.Contains(t, body, "Remove photo")

	w = b.get("/image/preview")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = b.post(t, "/image/clear", nil, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = b.get("/image/preview")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitFormUploadFailure(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.configure(func(s *fakeSheet) { s.failUpload = true })
	b := newBrowser(env)

	w := b.post(t, "/receipts", validFields(), pngBytes(t))
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "could not be uploaded")
	assert.Equal(t, 0, env.sheet.rowCount())
}

func TestTamperedCookieOpensNewForm(t *testing.T) {
	env := newTestEnv(t)
	b := newBrowser(env)

	b.cookies[formCookieName] = &http.Cookie{Name: formCookieName, Value: "forged"}
	w := b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "forged", b.cookies[formCookieName].Value)
}
