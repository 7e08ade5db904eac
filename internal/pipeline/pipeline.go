// Package pipeline runs shipping-label documents through OCR and field
// extraction, one page at a time.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/natthawutgeng05/ocr-typhoon/internal/extract"
	"github.com/natthawutgeng05/ocr-typhoon/internal/pdf"
	"github.com/natthawutgeng05/ocr-typhoon/internal/types"
)

// OCR recognises the text of a single PDF page (1-indexed).
// providers.PageOCR satisfies it.
type OCR interface {
	RecognizePage(ctx context.Context, pdfPath string, page int, taskType string) (string, error)
}

// PageCounter returns the number of pages in a PDF.
type PageCounter func(pdfPath string) (int, error)

// Config configures a Pipeline.
type Config struct {
	// OCR is the page recognition capability. Required.
	OCR OCR
	// PageCount defaults to pdf.PageCount.
	PageCount PageCounter
	// TaskType is used when RunOptions leaves it empty.
	TaskType string
	Logger   *slog.Logger
}

// Pipeline processes documents. It holds no per-run state, so one Pipeline
// may serve concurrent runs.
type Pipeline struct {
	ocr       OCR
	pageCount PageCounter
	taskType  string
	logger    *slog.Logger
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.PageCount == nil {
		cfg.PageCount = pdf.PageCount
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{
		ocr:       cfg.OCR,
		pageCount: cfg.PageCount,
		taskType:  cfg.TaskType,
		logger:    cfg.Logger,
	}
}

// ProcessPage recognises one page and extracts its fields.
//
// The diagnostics entry is always returned, also on error. On OCR failure the
// record is empty and not included, and the error is returned as well.
func (p *Pipeline) ProcessPage(ctx context.Context, pdfPath string, page int, taskType string) (types.PageRecord, *types.PageDiagnostics, error) {
	diag := &types.PageDiagnostics{PageNumber: page}

	text, err := p.ocr.RecognizePage(ctx, pdfPath, page, taskType)
	if err != nil {
		diag.Error = err.Error()
		return types.NewPageRecord(page, types.ExtractedFields{}), diag, fmt.Errorf("page %d: %w", page, err)
	}

	fields, trace := extract.Extract(text)
	record := types.NewPageRecord(page, fields)

	diag.RawText = text
	diag.RawTextLength = len([]rune(text))
	diag.Extraction = trace
	diag.Extracted = &record.ExtractedFields
	diag.HasData = record.Included
	return record, diag, nil
}

// RunOptions controls a single document run.
type RunOptions struct {
	// MaxPages limits processing to the first N pages, clamped to [0, total].
	// Nil processes every page; zero processes none.
	MaxPages *int
	// Diagnostics keeps a per-page trace and a summary on the result.
	Diagnostics bool
	TaskType    string
	// DocumentName overrides the base name of pdfPath in the result.
	DocumentName string
}

// Run processes pages 1..N of the document in order and returns the
// aggregate. It never fails: an unreadable page count is treated as one page
// and page errors downgrade the status to partial success.
func (p *Pipeline) Run(ctx context.Context, pdfPath string, opts RunOptions) *types.DocumentResult {
	taskType := opts.TaskType
	if taskType == "" {
		taskType = p.taskType
	}
	name := opts.DocumentName
	if name == "" {
		name = filepath.Base(pdfPath)
	}

	total, err := p.pageCount(pdfPath)
	if err != nil || total < 1 {
		p.logger.Warn("page count unavailable, defaulting to 1", "document", name, "error", err)
		total = 1
	}

	result := &types.DocumentResult{
		Document:       name,
		RunID:          uuid.NewString(),
		TotalPages:     total,
		ProcessedPages: PagesToProcess(total, opts.MaxPages),
		Records:        []types.PageRecord{},
		Status:         types.StatusSuccess,
	}
	if opts.Diagnostics {
		result.Diagnostics = []types.PageDiagnostics{}
	}

	p.logger.Info("processing document",
		"document", name,
		"run_id", result.RunID,
		"total_pages", result.TotalPages,
		"processed_pages", result.ProcessedPages)

	for page := 1; page <= result.ProcessedPages; page++ {
		record, diag, err := p.ProcessPage(ctx, pdfPath, page, taskType)
		if err != nil {
			result.Status = types.StatusPartialSuccess
			p.logger.Warn("page failed", "document", name, "page", page, "error", err)
		} else {
			p.logger.Debug("page processed",
				"document", name,
				"page", page,
				"has_data", record.Included,
				"text_length", diag.RawTextLength)
		}

		if record.Included {
			result.Records = append(result.Records, record)
		}
		if opts.Diagnostics {
			result.Diagnostics = append(result.Diagnostics, *diag)
		}
	}

	if opts.Diagnostics {
		result.Summary = Summarize(result)
	}

	p.logger.Info("document processed",
		"document", name,
		"records", len(result.Records),
		"status", result.Status)
	return result
}

// PageLimit returns a MaxPages value limiting a run to n pages.
func PageLimit(n int) *int {
	return &n
}

// PagesToProcess clamps maxPages to [0, total]. A nil limit means every page.
func PagesToProcess(total int, maxPages *int) int {
	if maxPages == nil {
		return total
	}
	return max(0, min(*maxPages, total))
}

// Summarize derives which processed pages did and did not produce a record.
func Summarize(result *types.DocumentResult) *types.DiagnosticsSummary {
	withData := make(map[int]bool, len(result.Records))
	summary := &types.DiagnosticsSummary{
		TotalPagesProcessed: result.ProcessedPages,
		OrdersFound:         len(result.Records),
		PagesWithData:       []int{},
		PagesWithoutData:    []int{},
	}
	for _, r := range result.Records {
		withData[r.Page] = true
		summary.PagesWithData = append(summary.PagesWithData, r.Page)
	}
	for page := 1; page <= result.ProcessedPages; page++ {
		if !withData[page] {
			summary.PagesWithoutData = append(summary.PagesWithoutData, page)
		}
	}
	return summary
}
