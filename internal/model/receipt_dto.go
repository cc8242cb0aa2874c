package model

import "github.com/ridwanfathin/receipt-tracker/internal/domain"

// ReceiptRequest represents the request body for submitting a receipt
type ReceiptRequest struct {
	Date          string `json:"date" example:"2024-03-01"`
	Project       string `json:"project" example:"Bridge Repair"`
	Description   string `json:"description" example:"Cement bags"`
	Category      string `json:"category" example:"Materials"`
	ReceiptNumber string `json:"receiptNumber,omitempty" example:"INV-0042"`
	Volume        string `json:"volume" example:"10"`
	UnitPrice     string `json:"unitPrice" example:"12.50"`
	Vendor        string `json:"vendor" example:"Acme Supply"`
	Location      string `json:"location" example:"Site A"`
	WorkItem      string `json:"workItem" example:"Foundation"`
	ImageURL      string `json:"imageUrl,omitempty" example:"https://example.com/receipt.jpg"`
	// Image is a base64-encoded photo, with or without a data URI prefix.
	// When present it is uploaded and takes precedence over ImageURL.
	Image string `json:"image,omitempty"`
}

// ToDomain converts the request to a domain Receipt
func (r ReceiptRequest) ToDomain() domain.Receipt {
	return domain.Receipt{
		Date:          r.Date,
		Project:       r.Project,
		Description:   r.Description,
		Category:      r.Category,
		ReceiptNumber: r.ReceiptNumber,
		Volume:        r.Volume,
		UnitPrice:     r.UnitPrice,
		Vendor:        r.Vendor,
		Location:      r.Location,
		WorkItem:      r.WorkItem,
		ImageURL:      r.ImageURL,
	}
}

// ReceiptResponse represents a receipt row that was appended to the sheet
type ReceiptResponse struct {
	Date          string `json:"date"`
	Project       string `json:"project"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	ReceiptNumber string `json:"receiptNumber"`
	Volume        string `json:"volume"`
	UnitPrice     string `json:"unitPrice"`
	Total         string `json:"total,omitempty"`
	Vendor        string `json:"vendor"`
	Location      string `json:"location"`
	WorkItem      string `json:"workItem"`
	ImageURL      string `json:"imageUrl"`
	ImageUploaded bool   `json:"imageUploaded"`
	RowsCreated   int    `json:"rowsCreated"`
}

// NewReceiptResponse builds a response from the submitted receipt
func NewReceiptResponse(receipt domain.Receipt, rowsCreated int, uploaded bool) ReceiptResponse {
	resp := ReceiptResponse{
		Date:          receipt.Date,
		Project:       receipt.Project,
		Description:   receipt.Description,
		Category:      receipt.Category,
		ReceiptNumber: receipt.ReceiptNumber,
		Volume:        receipt.Volume,
		UnitPrice:     receipt.UnitPrice,
		Vendor:        receipt.Vendor,
		Location:      receipt.Location,
		WorkItem:      receipt.WorkItem,
		ImageURL:      receipt.ImageURL,
		ImageUploaded: uploaded,
		RowsCreated:   rowsCreated,
	}

	if total, ok := receipt.Total(); ok {
		resp.Total = total.String()
	}

	return resp
}

// OptionsResponse represents every option list. Lists that failed to load
// are empty and named in Errors.
type OptionsResponse struct {
	Lists  map[string][]string `json:"lists"`
	Errors map[string]string   `json:"errors,omitempty"`
}

// OptionListResponse represents a single option list
type OptionListResponse struct {
	List   string   `json:"list" example:"vendors"`
	Sheet  string   `json:"sheet" example:"Vendors"`
	Values []string `json:"values"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

