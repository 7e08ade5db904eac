// Package export writes document results as JSON, diagnostics JSON and
// Excel workbooks, and reads them back.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/natthawutgeng05/ocr-typhoon/internal/types"
)

// ErrInvalidResult is returned when a result document fails schema validation.
var ErrInvalidResult = errors.New("invalid result document")

const resultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["document", "total_pages", "processed_pages", "extracted_orders", "processing_status"],
  "properties": {
    "document": {"type": "string"},
    "run_id": {"type": "string"},
    "total_pages": {"type": "integer", "minimum": 0},
    "processed_pages": {"type": "integer", "minimum": 0},
    "processing_status": {"enum": ["success", "partial_success"]},
    "extracted_orders": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["page", "recipient_name", "recipient_address", "parsed_address", "order_id", "shipping_date"],
        "properties": {
          "page": {"type": "integer", "minimum": 1},
          "recipient_name": {"type": "string"},
          "recipient_address": {"type": "string"},
          "order_id": {"type": "string"},
          "shipping_date": {"type": "string"},
          "included": {"type": "boolean"},
          "parsed_address": {
            "type": "object",
            "required": ["street_address", "district", "province", "postal_code"],
            "properties": {
              "full_address": {"type": "string"},
              "street_address": {"type": "string"},
              "district": {"type": "string"},
              "province": {"type": "string"},
              "postal_code": {"type": "string", "pattern": "^([0-9๐-๙]{5})?$"}
            }
          }
        }
      }
    },
    "debug_pages": {"type": "array"},
    "summary": {"type": "object"}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("result.json", strings.NewReader(resultSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("result.json")
	})
	return compiledSchema, schemaErr
}

// ValidateResult checks raw JSON against the result document schema.
func ValidateResult(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	return nil
}

// EncodeJSON writes v as indented JSON with non-ASCII text left unescaped.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSON writes the result document to path.
func WriteJSON(path string, result *types.DocumentResult) error {
	return writeFile(path, result)
}

// ReadJSON loads and validates a result document.
func ReadJSON(path string) (*types.DocumentResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result: %w", err)
	}
	if err := ValidateResult(data); err != nil {
		return nil, err
	}
	var result types.DocumentResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}

// DiagnosticsReport is the standalone debug artifact.
type DiagnosticsReport struct {
	Summary *types.DiagnosticsSummary `json:"extraction_summary"`
	Pages   []types.PageDiagnostics   `json:"page_details"`
}

// WriteDiagnostics writes the per-page trace of a diagnostics run to path.
func WriteDiagnostics(path string, result *types.DocumentResult) error {
	if result.Diagnostics == nil {
		return errors.New("result has no diagnostics")
	}
	return writeFile(path, DiagnosticsReport{Summary: result.Summary, Pages: result.Diagnostics})
}

func writeFile(path string, v any) error {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
