package models

import "github.com/shopspring/decimal"

// DraftStatus is the lifecycle state of one draft record inside an import
// session. Duplicate and published are terminal.
type DraftStatus string

const (
	DraftPending   DraftStatus = "pending"
	DraftValidated DraftStatus = "validated"
	DraftError     DraftStatus = "error"
	DraftSuggested DraftStatus = "suggested"
	DraftReady     DraftStatus = "ready"
	DraftDuplicate DraftStatus = "duplicate"
	DraftPublished DraftStatus = "published"
)

// DraftRecord is one candidate product reconstructed from one logical
// spreadsheet row. RowIndex is the 1-based position in the original sheet and
// is the stable identity used for image binding and re-display.
type DraftRecord struct {
	RowIndex         int             `json:"row_index"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Unit             string          `json:"unit"`
	Origin           string          `json:"origin"`
	Price            decimal.Decimal `json:"price"`
	CategoryID       string          `json:"category_id"`
	CategoryHint     string          `json:"category_hint"`
	ImageURL         string          `json:"image_url"`
	HasEmbeddedImage bool            `json:"has_embedded_image"`
	Status           DraftStatus     `json:"status"`
	Errors           []string        `json:"errors"`
	OriginalData     []string        `json:"original_data"`
}

// ImageRowMapping associates one embedded workbook image with a worksheet row.
// It lives only for the duration of one import session; the binder consumes it
// into DraftRecord.ImageURL.
type ImageRowMapping struct {
	ExcelRow      int    `json:"excel_row"`
	ImageURL      string `json:"image_url"`
	FileName      string `json:"file_name"`
	MappingMethod string `json:"mapping_method"` // "drawing-xml" or "sequential"
}
