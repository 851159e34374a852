package models

import "time"

// TaxEntry is a single tax collection record uploaded by an ATO. Each entry
// carries up to two external payment references: a Remita RRR and an
// Interswitch PayDirect reference. An amount only counts toward totals when
// its channel has been verified against the external scheme.
type TaxEntry struct {
	ID                int               `json:"id"`
	TaxItem           string            `json:"tax_item"`
	Subhead           string            `json:"subhead,omitempty"` // Sub-category, e.g. for the Road tax item
	RRR               string            `json:"rrr,omitempty"`
	RRRVerified       bool              `json:"rrr_verified"`
	RRRAmount         float64           `json:"rrr_amount"`
	PayDirectRef      string            `json:"paydirect_ref,omitempty"`
	PayDirectVerified bool              `json:"paydirect_verified"`
	PayDirectAmount   float64           `json:"paydirect_amount"`
	UploadedBy        int               `json:"uploaded_by"`
	UploaderName      string            `json:"uploader_name,omitempty"` // Denormalized for display
	Data              map[string]string `json:"data,omitempty"`          // Free-form extra form fields, never interpreted
	DateUploaded      time.Time         `json:"date_uploaded"`
	Month             int               `json:"month"` // Display copies; grouping always derives from DateUploaded
	Year              int               `json:"year"`
}

// Verified reports whether at least one payment channel has been verified.
// Entries may only be deleted while this is false.
func (e *TaxEntry) Verified() bool {
	return e.RRRVerified || e.PayDirectVerified
}

// SubmitEntryRequest represents the request body for submitting a tax entry.
// Unknown fields from the submission form are captured into Data untouched.
type SubmitEntryRequest struct {
	TaxItem      string            `json:"tax_item"`
	Subhead      string            `json:"subhead,omitempty"`
	RRR          string            `json:"rrr,omitempty"`
	PayDirectRef string            `json:"paydirect_ref,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

// TaxItemCount is one row of the tax-item breakdown shown on the entries page.
type TaxItemCount struct {
	TaxItem string `json:"tax_item"`
	Count   int    `json:"count"`
}
