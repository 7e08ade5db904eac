package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/natthawutgeng05/ocr-typhoon/internal/types"
)

// fakeOCR returns scripted page texts and fails the listed pages.
type fakeOCR struct {
	texts map[int]string
	fail  map[int]bool
	pages []int
	tasks []string
}

func (f *fakeOCR) RecognizePage(ctx context.Context, pdfPath string, page int, taskType string) (string, error) {
	f.pages = append(f.pages, page)
	f.tasks = append(f.tasks, taskType)
	if f.fail[page] {
		return "", errors.New("quota exceeded")
	}
	return f.texts[page], nil
}

func label(name, orderID string) string {
	return fmt.Sprintf("ถึง %s\n12 ถนนสุขุมวิท, คลองเตย, กรุงเทพมหานคร, 10110\n(+)66800000000\nOrder ID: %s\nShipping Date: 01/06/2025", name, orderID)
}

func fixedPages(n int) PageCounter {
	return func(string) (int, error) { return n, nil }
}

func TestRun_PartialFailure(t *testing.T) {
	ocr := &fakeOCR{
		texts: map[int]string{1: label("สมชาย ใจดี", "1001"), 3: label("สมหญิง รักดี", "1003")},
		fail:  map[int]bool{2: true},
	}
	p := New(Config{OCR: ocr, PageCount: fixedPages(3)})

	result := p.Run(context.Background(), "/tmp/orders.pdf", RunOptions{})

	if result.ProcessedPages != 3 || result.TotalPages != 3 {
		t.Errorf("pages = %d/%d", result.ProcessedPages, result.TotalPages)
	}
	if result.Status != types.StatusPartialSuccess {
		t.Errorf("status = %q", result.Status)
	}
	if len(result.Records) != 2 || result.Records[0].Page != 1 || result.Records[1].Page != 3 {
		t.Fatalf("records = %+v", result.Records)
	}
	if result.Records[1].OrderID != "1003" || result.Records[1].ParsedAddress.PostalCode != "10110" {
		t.Errorf("page 3 fields = %+v", result.Records[1].ExtractedFields)
	}
	if result.Document != "orders.pdf" {
		t.Errorf("document = %q", result.Document)
	}
	if result.RunID == "" {
		t.Error("expected run id")
	}
	if result.Diagnostics != nil || result.Summary != nil {
		t.Error("diagnostics should be absent when not requested")
	}
}

func TestRun_AllPagesSucceed(t *testing.T) {
	ocr := &fakeOCR{texts: map[int]string{1: label("A", "1"), 2: label("B", "2")}}
	p := New(Config{OCR: ocr, PageCount: fixedPages(2)})

	result := p.Run(context.Background(), "doc.pdf", RunOptions{})
	if result.Status != types.StatusSuccess {
		t.Errorf("status = %q", result.Status)
	}
	if len(result.Records) != 2 {
		t.Errorf("records = %d", len(result.Records))
	}
}

func TestRun_PageCountClamp(t *testing.T) {
	ocr := &fakeOCR{texts: map[int]string{5: label("late", "5")}}
	p := New(Config{OCR: ocr, PageCount: fixedPages(10)})

	result := p.Run(context.Background(), "doc.pdf", RunOptions{MaxPages: PageLimit(2)})

	if !reflect.DeepEqual(ocr.pages, []int{1, 2}) {
		t.Errorf("pages processed = %v, want [1 2]", ocr.pages)
	}
	if result.ProcessedPages != 2 || result.TotalPages != 10 {
		t.Errorf("pages = %d/%d", result.ProcessedPages, result.TotalPages)
	}
	if len(result.Records) != 0 {
		t.Errorf("records = %+v", result.Records)
	}
}

func TestRun_PageCountFailureDefaultsToOne(t *testing.T) {
	ocr := &fakeOCR{texts: map[int]string{1: label("A", "1")}}
	p := New(Config{OCR: ocr, PageCount: func(string) (int, error) { return 0, errors.New("not a pdf") }})

	result := p.Run(context.Background(), "broken.pdf", RunOptions{MaxPages: PageLimit(5)})

	if result.TotalPages != 1 || result.ProcessedPages != 1 {
		t.Errorf("pages = %d/%d", result.ProcessedPages, result.TotalPages)
	}
	if result.Status != types.StatusSuccess {
		t.Errorf("status = %q", result.Status)
	}
	if len(result.Records) != 1 {
		t.Errorf("records = %d", len(result.Records))
	}
}

func TestRun_BlankPage(t *testing.T) {
	ocr := &fakeOCR{}
	p := New(Config{OCR: ocr, PageCount: fixedPages(1)})
	result := p.Run(context.Background(), "doc.pdf", RunOptions{Diagnostics: true})

	if len(result.Records) != 0 || result.Status != types.StatusSuccess {
		t.Errorf("result = %+v", result)
	}
	if result.Records == nil {
		t.Error("records should be an empty slice, not nil")
	}
	if !reflect.DeepEqual(result.Summary.PagesWithoutData, []int{1}) {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestRun_InclusionGate(t *testing.T) {
	ocr := &fakeOCR{texts: map[int]string{1: "Shipping Date: 01/06/2025"}}
	p := New(Config{OCR: ocr, PageCount: fixedPages(1)})

	result := p.Run(context.Background(), "doc.pdf", RunOptions{Diagnostics: true})

	if len(result.Records) != 0 {
		t.Errorf("date-only page must not be included: %+v", result.Records)
	}
	d := result.Diagnostics[0]
	if d.HasData || d.Extracted == nil || d.Extracted.ShippingDate != "01/06/2025" {
		t.Errorf("diagnostics = %+v", d)
	}
}

func TestRun_Diagnostics(t *testing.T) {
	ocr := &fakeOCR{
		texts: map[int]string{1: label("A", "1"), 3: "nothing here"},
		fail:  map[int]bool{2: true},
	}
	p := New(Config{OCR: ocr, PageCount: fixedPages(3)})

	result := p.Run(context.Background(), "doc.pdf", RunOptions{Diagnostics: true})

	if len(result.Diagnostics) != 3 {
		t.Fatalf("diagnostics = %d, want one per page", len(result.Diagnostics))
	}
	for i, d := range result.Diagnostics {
		if d.PageNumber != i+1 {
			t.Errorf("diagnostics[%d].PageNumber = %d", i, d.PageNumber)
		}
	}
	failed := result.Diagnostics[1]
	if failed.Error == "" || failed.HasData || failed.Extraction != nil {
		t.Errorf("failed page diagnostics = %+v", failed)
	}
	ok := result.Diagnostics[0]
	if ok.Extraction == nil || ok.Extraction.Recipient.PatternIndex != 0 || ok.RawTextLength == 0 {
		t.Errorf("page 1 diagnostics = %+v", ok)
	}

	want := &types.DiagnosticsSummary{
		TotalPagesProcessed: 3,
		OrdersFound:         1,
		PagesWithData:       []int{1},
		PagesWithoutData:    []int{2, 3},
	}
	if !reflect.DeepEqual(result.Summary, want) {
		t.Errorf("summary = %+v, want %+v", result.Summary, want)
	}
}

func TestRun_TaskType(t *testing.T) {
	ocr := &fakeOCR{}
	p := New(Config{OCR: ocr, PageCount: fixedPages(2), TaskType: "structure"})

	p.Run(context.Background(), "doc.pdf", RunOptions{})
	p.Run(context.Background(), "doc.pdf", RunOptions{MaxPages: PageLimit(1), TaskType: "default"})

	if !reflect.DeepEqual(ocr.tasks, []string{"structure", "structure", "default"}) {
		t.Errorf("task types = %v", ocr.tasks)
	}
}

func TestProcessPage(t *testing.T) {
	ocr := &fakeOCR{texts: map[int]string{4: label("สมชาย", "42")}, fail: map[int]bool{5: true}}
	p := New(Config{OCR: ocr, PageCount: fixedPages(5)})

	record, diag, err := p.ProcessPage(context.Background(), "doc.pdf", 4, "default")
	if err != nil {
		t.Fatalf("ProcessPage() error = %v", err)
	}
	if !record.Included || record.Page != 4 || record.OrderID != "42" {
		t.Errorf("record = %+v", record)
	}
	if !diag.HasData || diag.PageNumber != 4 {
		t.Errorf("diag = %+v", diag)
	}

	record, diag, err = p.ProcessPage(context.Background(), "doc.pdf", 5, "default")
	if err == nil {
		t.Fatal("expected error")
	}
	if record.Included || record.RecipientName != "" || diag.Error == "" {
		t.Errorf("failed page: record = %+v, diag = %+v", record, diag)
	}
}

func TestRun_ZeroPageLimit(t *testing.T) {
	ocr := &fakeOCR{texts: map[int]string{1: label("A", "1"), 2: label("B", "2"), 3: label("C", "3")}}
	p := New(Config{OCR: ocr, PageCount: fixedPages(3)})

	result := p.Run(context.Background(), "doc.pdf", RunOptions{MaxPages: PageLimit(0), Diagnostics: true})

	if len(ocr.pages) != 0 {
		t.Errorf("ocr calls = %v, want none", ocr.pages)
	}
	if result.ProcessedPages != 0 || result.TotalPages != 3 {
		t.Errorf("pages = %d/%d", result.ProcessedPages, result.TotalPages)
	}
	if result.Status != types.StatusSuccess {
		t.Errorf("status = %q", result.Status)
	}
	if result.Records == nil || len(result.Records) != 0 {
		t.Errorf("records = %#v, want empty", result.Records)
	}
	if result.Summary == nil || result.Summary.TotalPagesProcessed != 0 || len(result.Summary.PagesWithoutData) != 0 {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestPagesToProcess(t *testing.T) {
	tests := []struct {
		name  string
		total int
		max   *int
		want  int
	}{
		{"unset", 10, nil, 10},
		{"zero", 10, PageLimit(0), 0},
		{"limit", 10, PageLimit(2), 2},
		{"above total", 3, PageLimit(5), 3},
		{"negative", 3, PageLimit(-1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PagesToProcess(tt.total, tt.max); got != tt.want {
				t.Errorf("PagesToProcess(%d, %v) = %d, want %d", tt.total, tt.max, got, tt.want)
			}
		})
	}
}
