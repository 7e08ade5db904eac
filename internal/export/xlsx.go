package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/natthawutgeng05/ocr-typhoon/internal/address"
	"github.com/natthawutgeng05/ocr-typhoon/internal/types"
)

// Sheet names and layout of the Excel export.
const (
	OrdersSheet  = "ข้อมูลการจัดส่ง"
	SummarySheet = "สรุปผลลัพธ์"

	maxColumnWidth = 50
	timestampFmt   = "2006-01-02 15:04:05"
)

// OrderColumns are the headers of the orders sheet, in column order.
var OrderColumns = []string{
	"หน้า",
	"Order ID",
	"ชื่อผู้รับ",
	"วันที่จัดส่ง",
	"ที่อยู่เดิม",
	"ที่อยู่ละเอียด",
	"อำเภอ",
	"จังหวัด",
	"รหัสไปรษณีย์",
}

func orderRow(r types.PageRecord) []string {
	return []string{
		strconv.Itoa(r.Page),
		r.OrderID,
		r.RecipientName,
		r.ShippingDate,
		r.RecipientAddress,
		r.ParsedAddress.StreetAddress,
		r.ParsedAddress.District,
		r.ParsedAddress.Province,
		r.ParsedAddress.PostalCode,
	}
}

// WriteXLSX writes the orders and summary sheets to path.
func WriteXLSX(path string, result *types.DocumentResult, exportedAt time.Time) error {
	var buf bytes.Buffer
	if err := EncodeXLSX(&buf, result, exportedAt); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("xlsx write %s: %w", path, err)
	}
	return nil
}

// EncodeXLSX writes the workbook to w.
func EncodeXLSX(w io.Writer, result *types.DocumentResult, exportedAt time.Time) error {
	f, err := buildWorkbook(result, exportedAt)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func buildWorkbook(result *types.DocumentResult, exportedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := make([][]string, 0, len(result.Records)+1)
	rows = append(rows, OrderColumns)
	for _, r := range result.Records {
		rows = append(rows, orderRow(r))
	}
	if err := writeSheet(f, OrdersSheet, rows); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	summary := [][]string{
		{"รายละเอียด", "ค่า"},
		{"ชื่อไฟล์", result.Document},
		{"จำนวนหน้าทั้งหมด", strconv.Itoa(result.TotalPages)},
		{"จำนวนหน้าที่ประมวลผล", strconv.Itoa(result.ProcessedPages)},
		{"จำนวนคำสั่งซื้อที่พบ", strconv.Itoa(len(result.Records))},
		{"วันที่ประมวลผล", exportedAt.Format(timestampFmt)},
	}
	if err := writeSheet(f, SummarySheet, summary); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// writeSheet stores every cell as a string so order ids and postal codes keep
// their leading zeros, then sizes each column to its longest value.
func writeSheet(f *excelize.File, sheet string, rows [][]string) error {
	widths := make([]int, len(rows[0]))
	for ri, row := range rows {
		for ci, v := range row {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
			}
			if n := utf8.RuneCountInString(v); n > widths[ci] {
				widths[ci] = n
			}
		}
	}
	for ci, w := range widths {
		col, err := excelize.ColumnNumberToName(ci + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(ColumnWidth(w))); err != nil {
			return fmt.Errorf("set width %s!%s: %w", sheet, col, err)
		}
	}
	return nil
}

// ColumnWidth is the longest cell length plus padding, capped at 50.
func ColumnWidth(longest int) int {
	return min(longest+2, maxColumnWidth)
}

// ReadXLSX reads the orders sheet back into records. Every returned record
// is included; FullAddress is re-derived from the raw address column.
func ReadXLSX(path string) ([]types.PageRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(OrdersSheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", OrdersSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", OrdersSheet)
	}

	records := make([]types.PageRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		// GetRows drops trailing empty cells.
		cells := make([]string, len(OrderColumns))
		copy(cells, row)

		page, err := strconv.Atoi(cells[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid page %q", i+2, cells[0])
		}
		records = append(records, types.PageRecord{
			Page: page,
			ExtractedFields: types.ExtractedFields{
				OrderID:          cells[1],
				RecipientName:    cells[2],
				ShippingDate:     cells[3],
				RecipientAddress: cells[4],
				ParsedAddress: types.ParsedAddress{
					FullAddress:   address.Normalize(cells[4]),
					StreetAddress: cells[5],
					District:      cells[6],
					Province:      cells[7],
					PostalCode:    cells[8],
				},
			},
			Included: true,
		})
	}
	return records, nil
}
