// Package types provides shared types used across multiple packages.
// This package has no dependencies on other ocr-typhoon packages to avoid import cycles.
package types

// Status is the overall outcome of a document run.
type Status string

const (
	// StatusSuccess means every planned page was processed without error.
	StatusSuccess Status = "success"
	// StatusPartialSuccess means at least one page failed. It never reverts to success.
	StatusPartialSuccess Status = "partial_success"
)

// ParsedAddress is a comma-delimited address split into components.
// PostalCode, when present, is a contiguous 5-digit run from the address text.
type ParsedAddress struct {
	FullAddress   string `json:"full_address"`
	StreetAddress string `json:"street_address"`
	District      string `json:"district"`
	Province      string `json:"province"`
	PostalCode    string `json:"postal_code"`

	// Trace records how each field was derived. Nil once lifted into an ExtractionTrace.
	Trace *AddressTrace `json:"trace,omitempty"`
}

// AddressTrace explains an address decomposition.
type AddressTrace struct {
	Original string            `json:"original"`
	Cleaned  string            `json:"cleaned_address"`
	Segments []string          `json:"split_parts"`
	Rules    map[string]string `json:"rules,omitempty"` // field name -> rule that produced it
	Notes    []string          `json:"parsing_notes,omitempty"`
}

// ExtractedFields holds everything pulled from one page of OCR text.
// Any subset of fields may be empty.
type ExtractedFields struct {
	RecipientName    string        `json:"recipient_name"`
	RecipientAddress string        `json:"recipient_address"`
	ParsedAddress    ParsedAddress `json:"parsed_address"`
	OrderID          string        `json:"order_id"`
	ShippingDate     string        `json:"shipping_date"`
}

// HasData is the inclusion gate: a page counts when it yields an order id or a recipient.
func (f ExtractedFields) HasData() bool {
	return f.OrderID != "" || f.RecipientName != ""
}

// PageRecord is the outcome of one page.
type PageRecord struct {
	Page int `json:"page"`
	ExtractedFields
	Included bool `json:"included"`
}

// NewPageRecord builds a record and applies the inclusion gate.
func NewPageRecord(page int, fields ExtractedFields) PageRecord {
	return PageRecord{
		Page:            page,
		ExtractedFields: fields,
		Included:        fields.HasData(),
	}
}

// Span is a half-open range of rune offsets into the page text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// PatternAttempt is one strategy tried for a field.
type PatternAttempt struct {
	Index    int    `json:"index"`
	Strategy string `json:"strategy"`
	Pattern  string `json:"pattern"`
	Matched  bool   `json:"matched"`
	Error    string `json:"error,omitempty"`
}

// FieldTrace records every strategy attempted for a field and which one won.
type FieldTrace struct {
	Attempts     []PatternAttempt `json:"attempts"`
	Matched      string           `json:"matched,omitempty"`
	PatternIndex int              `json:"pattern_index"` // -1 when nothing matched
	Span         *Span            `json:"span,omitempty"`
	FullMatch    string           `json:"full_match,omitempty"`
	Groups       []string         `json:"groups,omitempty"`
	Value        string           `json:"value,omitempty"`
}

// ManualScanTrace describes the line-scan fallback for the recipient address.
type ManualScanTrace struct {
	RecipientLine   int      `json:"recipient_line"` // -1 when the line was not found
	AddressLines    []string `json:"address_lines"`
	CombinedAddress string   `json:"combined_address"`
}

// ExtractionTrace is the diagnostic record of one extraction.
type ExtractionTrace struct {
	TextLength   int              `json:"raw_text_length"`
	TextPreview  string           `json:"raw_text_preview"`
	Recipient    FieldTrace       `json:"recipient"`
	OrderID      FieldTrace       `json:"order_id"`
	ShippingDate FieldTrace       `json:"shipping_date"`
	ManualScan   *ManualScanTrace `json:"manual_extraction,omitempty"`
	Address      *AddressTrace    `json:"address,omitempty"`
}

// PageDiagnostics is the per-page debug entry. It is produced for failed pages too.
type PageDiagnostics struct {
	PageNumber    int              `json:"page_number"`
	RawText       string           `json:"raw_ocr_text"`
	RawTextLength int              `json:"raw_text_length"`
	Extraction    *ExtractionTrace `json:"extraction_debug,omitempty"`
	Extracted     *ExtractedFields `json:"extracted_data,omitempty"`
	HasData       bool             `json:"has_data"`
	Error         string           `json:"error,omitempty"`
}

// DiagnosticsSummary is derived once a run completes.
type DiagnosticsSummary struct {
	TotalPagesProcessed int   `json:"total_pages_processed"`
	OrdersFound         int   `json:"orders_found"`
	PagesWithData       []int `json:"pages_with_data"`
	PagesWithoutData    []int `json:"pages_without_data"`
}

// DocumentResult is the aggregate of a document run.
// Records holds only included pages in ascending page order.
type DocumentResult struct {
	Document       string              `json:"document"`
	RunID          string              `json:"run_id,omitempty"`
	TotalPages     int                 `json:"total_pages"`
	ProcessedPages int                 `json:"processed_pages"`
	Records        []PageRecord        `json:"extracted_orders"`
	Status         Status              `json:"processing_status"`
	Diagnostics    []PageDiagnostics   `json:"debug_pages,omitempty"`
	Summary        *DiagnosticsSummary `json:"summary,omitempty"`
}
