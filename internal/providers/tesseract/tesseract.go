//go:build tesseract

package tesseract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/natthawutgeng05/ocr-typhoon/internal/providers"
)

const (
	Name             = "tesseract"
	DefaultLanguages = "tha+eng"
)

func init() {
	providers.RegisterFactory(providers.TypeTesseract, func(cfg providers.OCRProviderConfig) (providers.OCRProvider, error) {
		return New(Config{Languages: cfg.Languages, RateLimit: cfg.RateLimit / 60}), nil
	})
}

// Config configures an Engine.
type Config struct {
	Languages string  // "+"-separated tesseract language codes
	DPI       int     // Resolution hint for the rendered image
	RateLimit float64 // Requests per second
}

// Engine implements providers.OCRProvider using gosseract.
type Engine struct {
	languages     []string
	dpi           int
	rateLimit     float64
	clientFactory func() *gosseract.Client
}

var _ providers.OCRProvider = (*Engine)(nil)

// New constructs a Tesseract-backed OCR engine.
func New(cfg Config) *Engine {
	if cfg.Languages == "" {
		cfg.Languages = DefaultLanguages
	}
	if cfg.DPI == 0 {
		cfg.DPI = 300
	}
	if cfg.RateLimit <= 0 {
		// Local and CPU-bound; the limiter only keeps pages sequential.
		cfg.RateLimit = 100
	}
	return &Engine{
		languages:     strings.Split(cfg.Languages, "+"),
		dpi:           cfg.DPI,
		rateLimit:     cfg.RateLimit,
		clientFactory: gosseract.NewClient,
	}
}

func (e *Engine) Name() string                  { return Name }
func (e *Engine) RequestsPerSecond() float64    { return e.rateLimit }
func (e *Engine) MaxRetries() int               { return 0 }
func (e *Engine) RetryDelayBase() time.Duration { return time.Second }

// ProcessImage recognises the page image. Tesseract has no notion of
// structured output, so both task types produce plain text.
func (e *Engine) ProcessImage(ctx context.Context, req *providers.OCRRequest) (*providers.OCRResult, error) {
	start := time.Now()
	if _, err := providers.ValidateTaskType(req.TaskType); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(e.dpi)); err != nil {
		return nil, fmt.Errorf("set dpi: %w", err)
	}
	if err := c.SetImageFromBytes(req.Image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize page %d: %w", req.PageNum, err)
	}

	return &providers.OCRResult{
		Success:       true,
		Text:          strings.TrimSpace(text),
		ModelUsed:     Name + ":" + strings.Join(e.languages, "+"),
		ExecutionTime: time.Since(start),
	}, nil
}
