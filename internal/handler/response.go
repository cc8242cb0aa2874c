package handler

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/receipt-tracker/internal/form"
	"github.com/ridwanfathin/receipt-tracker/internal/model"
)

// Common error messages
const (
	ErrInvalidInput     = "Invalid input format"
	ErrInvalidReceipt   = "Receipt has invalid or missing fields"
	ErrInvalidImage     = "Invalid receipt image"
	ErrUnknownList      = "Unknown option list"
	ErrListUnavailable  = "Option list could not be loaded"
	ErrSubmissionBusy   = "A submission for this form is already in progress"
	ErrImageUpload      = "Receipt image could not be uploaded; nothing was saved"
	ErrRowSubmission    = "Receipt row could not be saved"
	ErrPartialSubmit    = "Receipt image was stored but the receipt row could not be saved"
	ErrInternalServer   = "Internal server error"
	ErrSessionNotLoaded = "Form session could not be loaded"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, message string, details ...model.ErrorDetail) {
	response := model.ErrorResponse{
		Status:  http.StatusText(statusCode),
		Message: message,
		Details: details,
	}
	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...model.ErrorDetail) {
	respondWithError(c, http.StatusBadRequest, message, details...)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, message)
}

// respondSubmitError maps a pipeline failure to an HTTP error response
func respondSubmitError(c *gin.Context, err error) {
	status, message := submitErrorStatus(err)

	var details []model.ErrorDetail
	var verrs form.ValidationErrors
	var submitErr *form.SubmitError
	switch {
	case errors.As(err, &verrs):
		details = newErrorDetails(verrs)
	case errors.As(err, &submitErr) && submitErr.ImageURL != "":
		details = []model.ErrorDetail{newErrorDetail("imageUrl", submitErr.ImageURL)}
	}

	respondWithError(c, status, message, details...)
}

// submitErrorStatus picks the status code and message for a pipeline failure.
// Validation maps to 400 here; the HTML form uses 422 instead.
func submitErrorStatus(err error) (int, string) {
	var verrs form.ValidationErrors
	var submitErr *form.SubmitError

	switch {
	case errors.Is(err, form.ErrBusy):
		return http.StatusConflict, ErrSubmissionBusy
	case errors.As(err, &verrs):
		return http.StatusBadRequest, ErrInvalidReceipt
	case errors.As(err, &submitErr) && submitErr.Stage == form.StageUpload:
		return http.StatusBadGateway, ErrImageUpload
	case errors.As(err, &submitErr) && submitErr.Stage == form.StageSubmit:
		if submitErr.ImageURL != "" {
			return http.StatusBadGateway, ErrPartialSubmit
		}
		return http.StatusBadGateway, ErrRowSubmission
	default:
		return http.StatusInternalServerError, ErrInternalServer
	}
}

// newErrorDetail creates a new error detail
func newErrorDetail(field, message string) model.ErrorDetail {
	return model.ErrorDetail{
		Field:   field,
		Message: message,
	}
}

// newErrorDetails creates error details ordered by field name
func newErrorDetails(errors map[string]string) []model.ErrorDetail {
	fields := make([]string, 0, len(errors))
	for field := range errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]model.ErrorDetail, 0, len(errors))
	for _, field := range fields {
		details = append(details, newErrorDetail(field, errors[field]))
	}
	return details
}
