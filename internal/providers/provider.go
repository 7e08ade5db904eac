package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Task types accepted by OCR providers.
const (
	// TaskDefault asks for plain markdown with markdown tables.
	TaskDefault = "default"
	// TaskStructure asks for markdown with HTML tables, keeping complex layouts intact.
	TaskStructure = "structure"
)

// ErrUnknownTaskType is returned for a task type outside TaskDefault/TaskStructure.
var ErrUnknownTaskType = errors.New("unknown task type")

// ValidateTaskType normalises an empty task type to TaskDefault and rejects unknown ones.
func ValidateTaskType(taskType string) (string, error) {
	switch taskType {
	case "":
		return TaskDefault, nil
	case TaskDefault, TaskStructure:
		return taskType, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTaskType, taskType)
	}
}

// OCRProvider handles image-to-text extraction for one rendered page.
type OCRProvider interface {
	// Name returns the provider identifier (e.g., "typhoon", "tesseract").
	Name() string

	// ProcessImage extracts text from a page image.
	ProcessImage(ctx context.Context, req *OCRRequest) (*OCRResult, error)

	// Rate limiting properties
	RequestsPerSecond() float64
	MaxRetries() int
	RetryDelayBase() time.Duration
}

// HealthChecker is implemented by providers that can verify their backend
// is reachable without spending an OCR request.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// OCRRequest is a single page to recognise.
type OCRRequest struct {
	Image    []byte // PNG bytes
	PageNum  int    // 1-indexed
	TaskType string

	// AnchorText is the page's embedded text layer, if any. Providers may use
	// it as a hint; it is never returned as the result.
	AnchorText string
}

// OCRResult is the response from an OCR provider.
type OCRResult struct {
	Success bool   `json:"success"`
	Text    string `json:"text"` // Markdown formatted

	Metadata map[string]any `json:"metadata,omitempty"`

	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	ModelUsed        string        `json:"model_used,omitempty"`
	ExecutionTime    time.Duration `json:"execution_time"`

	ErrorMessage string `json:"error_message,omitempty"`
	RetryCount   int    `json:"retry_count"`
}
