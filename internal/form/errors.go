package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrBusy is returned when Submit is called while a submission is in flight
var ErrBusy = errors.New("a submission is already in progress")

// Stage names the pipeline step a submission failed in
type Stage string

const (
	StageValidate Stage = "validate"
	StageUpload   Stage = "upload"
	StageSubmit   Stage = "submit"
)

// SubmitError represents a failed submission. Fields are left as entered.
type SubmitError struct {
	Stage Stage
	// ImageURL is set when the image was uploaded but the row was not
	// appended; the stored image is not referenced by any row.
	ImageURL string
	Err      error
}

func (e *SubmitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("submit receipt: %s failed", e.Stage)
	}
	return fmt.Sprintf("submit receipt: %s: %v", e.Stage, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// ValidationErrors maps a form field name to the reason it was rejected
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+v[field])
	}
	return "invalid receipt: " + strings.Join(parts, ", ")
}
