package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"

	"github.com/ridwanfathin/receipt-tracker/internal/form"
	"github.com/ridwanfathin/receipt-tracker/internal/imageutil"
	"github.com/ridwanfathin/receipt-tracker/internal/model"
)

// ReceiptHandler handles HTTP requests for the receipt JSON API
type ReceiptHandler struct {
	pipeline      *form.Pipeline
	maxImageBytes int64
	logger        logrus.FieldLogger
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(pipeline *form.Pipeline, maxImageBytes int64, logger logrus.FieldLogger) *ReceiptHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReceiptHandler{
		pipeline:      pipeline,
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
}

// CreateReceipt handles the POST /v1/receipts endpoint
// @Summary Submit a receipt
// @Description Validate a receipt, upload its photo when one is attached, and append it as a new sheet row.
// @Description An attached photo takes precedence over imageUrl.
// @Tags receipts
// @Accept json
// @Produce json
// @Param receipt body model.ReceiptRequest true "Receipt data"
// @Success 201 {object} model.ReceiptResponse "Receipt appended"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 502 {object} model.ErrorResponse "Upload or row append failed"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/receipts [post]
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	var input model.ReceiptRequest
	if err := bindJSON(c, &input); err != nil {
		respondBadRequest(c, ErrInvalidInput, newErrorDetail("body", err.Error()))
		return
	}

	// Each API call is a one-shot form
	id := c.GetString("request_id")
	if id == "" {
		id, _ = gonanoid.New()
	}
	f := h.pipeline.NewForm(id)
	f.SetFields(input.ToDomain())

	if input.Image != "" {
		img, err := imageutil.FromBase64(input.Image, "", h.maxImageBytes)
		if err != nil {
			respondBadRequest(c, ErrInvalidImage, newErrorDetail("image", imageErrorMessage(err, h.maxImageBytes)))
			return
		}
		f.StageImage(img)
	}

	// A submission in flight runs to completion even if the client goes away
	result, err := f.Submit(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		h.logger.WithError(err).WithField("form_id", id).Warn("receipt submission rejected")
		respondSubmitError(c, err)
		return
	}

	created := 0
	if result.Ack != nil {
		created = result.Ack.Created
	}
	c.JSON(http.StatusCreated, model.NewReceiptResponse(result.Receipt, created, result.Uploaded))
}
