package handler

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"

	"github.com/ridwanfathin/receipt-tracker/internal/domain"
	"github.com/ridwanfathin/receipt-tracker/internal/form"
	"github.com/ridwanfathin/receipt-tracker/internal/imageutil"
)

const (
	formCookieName  = "rt_form"
	flashCookieName = "rt_flash"
	formTemplate    = "form.html"
)

// Notice kinds
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeWarning = "warning"
)

// Notice is a message shown above the form
type Notice struct {
	Kind    string
	Message string
	Link    string
}

type datalist struct {
	ID     string
	Sheet  string
	Values []string
}

type imagePreview struct {
	DataURI template.URL
	Name    string
	Size    int
}

// FormPage is the data rendered by the form template
type FormPage struct {
	FormID    string
	Fields    domain.Receipt
	Errors    form.ValidationErrors
	Notice    *Notice
	Datalists []datalist
	Missing   []string
	Image     *imagePreview
	Total     string
	Busy      bool
}

// FormHandlerConfig wires a FormHandler
type FormHandlerConfig struct {
	Registry      *form.Registry
	Cookie        *securecookie.SecureCookie
	MaxImageBytes int64
	SecureCookies bool
	Logger        logrus.FieldLogger
}

// FormHandler serves the server-rendered receipt form. Each browser gets one
// form session, identified by a signed cookie.
type FormHandler struct {
	registry      *form.Registry
	cookie        *securecookie.SecureCookie
	maxImageBytes int64
	secureCookies bool
	logger        logrus.FieldLogger
}

// NewFormHandler creates a new form handler
func NewFormHandler(config FormHandlerConfig) *FormHandler {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	return &FormHandler{
		registry:      config.Registry,
		cookie:        config.Cookie,
		maxImageBytes: config.MaxImageBytes,
		secureCookies: config.SecureCookies,
		logger:        config.Logger,
	}
}

// ShowForm handles GET /
func (h *FormHandler) ShowForm(c *gin.Context) {
	f, ok := h.formFor(c)
	if !ok {
		return
	}

	page := h.newPage(f)
	page.Notice = h.popFlash(c)
	c.HTML(http.StatusOK, formTemplate, page)
}

// SubmitForm handles POST /receipts. On success it redirects back to the
// empty form; on failure it re-renders with the values as entered.
func (h *FormHandler) SubmitForm(c *gin.Context) {
	f, ok := h.formFor(c)
	if !ok {
		return
	}

	// Leave an in-flight submission's form alone
	if f.State() != form.Editing {
		h.renderError(c, f, form.ErrBusy)
		return
	}

	var fields domain.Receipt
	if err := c.ShouldBind(&fields); err != nil {
		page := h.newPage(f)
		page.Notice = &Notice{Kind: NoticeError, Message: ErrInvalidInput}
		c.HTML(http.StatusBadRequest, formTemplate, page)
		return
	}
	f.SetFields(fields)

	file, header, err := getFormFile(c, "image")
	if err != nil {
		page := h.newPage(f)
		page.Errors = form.ValidationErrors{"image": "could not be read"}
		c.HTML(http.StatusBadRequest, formTemplate, page)
		return
	}
	if file != nil {
		img, err := imageutil.Read(file, header.Filename, h.maxImageBytes)
		file.Close()
		if err != nil {
			page := h.newPage(f)
			page.Errors = form.ValidationErrors{"image": imageErrorMessage(err, h.maxImageBytes)}
			page.Notice = &Notice{Kind: NoticeError, Message: ErrInvalidImage}
			c.HTML(http.StatusUnprocessableEntity, formTemplate, page)
			return
		}
		f.StageImage(img)
	}

	// A submission in flight runs to completion even if the client goes away
	result, err := f.Submit(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		h.renderError(c, f, err)
		return
	}

	h.setFlash(c, &Notice{
		Kind:    NoticeSuccess,
		Message: fmt.Sprintf("Receipt for %q on %s was added.", result.Receipt.Description, result.Receipt.Date),
		Link:    result.Receipt.ImageURL,
	})
	c.Redirect(http.StatusSeeOther, "/")
}

// ClearImage handles POST /image/clear
func (h *FormHandler) ClearImage(c *gin.Context) {
	f, ok := h.formFor(c)
	if !ok {
		return
	}

	f.ClearImage()
	c.Redirect(http.StatusSeeOther, "/")
}

// PreviewImage handles GET /image/preview
func (h *FormHandler) PreviewImage(c *gin.Context) {
	f, ok := h.formFor(c)
	if !ok {
		return
	}

	img := f.Image()
	if img == nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

func (h *FormHandler) renderError(c *gin.Context, f *form.Form, err error) {
	page := h.newPage(f)
	status, message := submitErrorStatus(err)
	page.Notice = &Notice{Kind: NoticeError, Message: message}

	var verrs form.ValidationErrors
	var submitErr *form.SubmitError
	switch {
	case errors.As(err, &verrs):
		status = http.StatusUnprocessableEntity
		page.Errors = verrs
		page.Notice.Message = "Please fix the highlighted fields."
	case errors.As(err, &submitErr) && submitErr.ImageURL != "":
		page.Notice.Message += ". The stored photo is at"
		page.Notice.Link = submitErr.ImageURL
	case status == http.StatusInternalServerError:
		h.logger.WithError(err).WithField("form_id", f.ID()).Error("receipt submission failed")
	}

	c.HTML(status, formTemplate, page)
}

func (h *FormHandler) newPage(f *form.Form) *FormPage {
	fields := f.Fields()
	page := &FormPage{
		FormID: f.ID(),
		Fields: fields,
		Busy:   f.State() != form.Editing,
	}

	lists := f.Options()
	for _, list := range domain.OptionLists {
		values := lists.Get(list)
		page.Datalists = append(page.Datalists, datalist{
			ID:     string(list),
			Sheet:  list.Sheet(),
			Values: values,
		})
		if len(values) == 0 {
			page.Missing = append(page.Missing, list.Sheet())
		}
	}

	if img := f.Image(); img != nil {
		page.Image = &imagePreview{
			// Sniffed as image/* when staged
			DataURI: template.URL(img.PreviewDataURI()),
			Name:    img.Filename,
			Size:    img.Size(),
		}
	}

	if total, ok := fields.Trimmed().Total(); ok {
		page.Total = total.StringFixed(2)
	}

	return page
}

// formFor resumes the caller's form session or opens a new one. It writes
// an error response and returns false when neither is possible.
func (h *FormHandler) formFor(c *gin.Context) (*form.Form, bool) {
	if raw, err := c.Cookie(formCookieName); err == nil {
		var id string
		if err := h.cookie.Decode(formCookieName, raw, &id); err == nil {
			if f, ok := h.registry.Get(id); ok {
				return f, true
			}
		}
	}

	f, err := h.registry.Create(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to open form session")
		c.String(http.StatusInternalServerError, ErrSessionNotLoaded)
		return nil, false
	}

	encoded, err := h.cookie.Encode(formCookieName, f.ID())
	if err != nil {
		h.logger.WithError(err).Error("failed to encode form cookie")
		c.String(http.StatusInternalServerError, ErrSessionNotLoaded)
		return nil, false
	}
	h.setCookie(c, formCookieName, encoded, 0)

	return f, true
}

func (h *FormHandler) setFlash(c *gin.Context, notice *Notice) {
	encoded, err := h.cookie.Encode(flashCookieName, notice)
	if err != nil {
		h.logger.WithError(err).Warn("failed to encode flash cookie")
		return
	}
	h.setCookie(c, flashCookieName, encoded, 60)
}

func (h *FormHandler) popFlash(c *gin.Context) *Notice {
	raw, err := c.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	h.setCookie(c, flashCookieName, "", -1)

	notice := new(Notice)
	if err := h.cookie.Decode(flashCookieName, raw, notice); err != nil {
		return nil
	}
	return notice
}

func (h *FormHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.secureCookies, true)
}
