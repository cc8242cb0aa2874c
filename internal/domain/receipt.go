package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sheet column names for an appended receipt row
const (
	ColumnDate          = "Date"
	ColumnProject       = "Project"
	ColumnDescription   = "Description"
	ColumnCategory      = "Category"
	ColumnReceiptNumber = "Receipt Number"
	ColumnVolume        = "Volume"
	ColumnUnitPrice     = "Unit Price"
	ColumnVendor        = "Vendor/Supplier"
	ColumnLocation      = "Location"
	ColumnWorkItem      = "Work Item"
	ColumnImageURL      = "Image URL"
)

// Columns lists the row columns in the order they appear in the sheet
var Columns = []string{
	ColumnDate,
	ColumnProject,
	ColumnDescription,
	ColumnCategory,
	ColumnReceiptNumber,
	ColumnVolume,
	ColumnUnitPrice,
	ColumnVendor,
	ColumnLocation,
	ColumnWorkItem,
	ColumnImageURL,
}

// Receipt is a single expense receipt as entered on the form.
// Values are kept as the user typed them; the sheet receives strings.
type Receipt struct {
	Date          string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Project       string `json:"project" form:"project" validate:"required"`
	Description   string `json:"description" form:"description" validate:"required"`
	Category      string `json:"category" form:"category" validate:"required"`
	ReceiptNumber string `json:"receiptNumber" form:"receiptNumber"`
	Volume        string `json:"volume" form:"volume" validate:"required,decimal"`
	UnitPrice     string `json:"unitPrice" form:"unitPrice" validate:"required,decimal"`
	Vendor        string `json:"vendor" form:"vendor" validate:"required"`
	Location      string `json:"location" form:"location" validate:"required"`
	WorkItem      string `json:"workItem" form:"workItem" validate:"required"`
	ImageURL      string `json:"imageUrl" form:"imageUrl" validate:"omitempty,url"`
}

// Row is a loosely typed sheet row keyed by column name
type Row map[string]any

// Trimmed returns a copy with surrounding whitespace removed from every field
func (r Receipt) Trimmed() Receipt {
	return Receipt{
		Date:          strings.TrimSpace(r.Date),
		Project:       strings.TrimSpace(r.Project),
		Description:   strings.TrimSpace(r.Description),
		Category:      strings.TrimSpace(r.Category),
		ReceiptNumber: strings.TrimSpace(r.ReceiptNumber),
		Volume:        strings.TrimSpace(r.Volume),
		UnitPrice:     strings.TrimSpace(r.UnitPrice),
		Vendor:        strings.TrimSpace(r.Vendor),
		Location:      strings.TrimSpace(r.Location),
		WorkItem:      strings.TrimSpace(r.WorkItem),
		ImageURL:      strings.TrimSpace(r.ImageURL),
	}
}

// IsZero reports whether every field is empty
func (r Receipt) IsZero() bool {
	return r == Receipt{}
}

// ToRow maps the receipt onto the fixed sheet columns.
// Every column is present; Image URL is "" when no image was given.
func (r Receipt) ToRow() Row {
	return Row{
		ColumnDate:          r.Date,
		ColumnProject:       r.Project,
		ColumnDescription:   r.Description,
		ColumnCategory:      r.Category,
		ColumnReceiptNumber: r.ReceiptNumber,
		ColumnVolume:        r.Volume,
		ColumnUnitPrice:     r.UnitPrice,
		ColumnVendor:        r.Vendor,
		ColumnLocation:      r.Location,
		ColumnWorkItem:      r.WorkItem,
		ColumnImageURL:      r.ImageURL,
	}
}

// Total returns volume multiplied by unit price. ok is false when either
// value does not parse as a decimal.
func (r Receipt) Total() (total decimal.Decimal, ok bool) {
	volume, err := decimal.NewFromString(strings.TrimSpace(r.Volume))
	if err != nil {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(strings.TrimSpace(r.UnitPrice))
	if err != nil {
		return decimal.Zero, false
	}
	return volume.Mul(price), true
}
