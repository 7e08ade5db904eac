package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
)

// PageRenderer turns one PDF page into an image, and optionally its text layer.
// pdf.Renderer satisfies it.
type PageRenderer interface {
	RenderPage(ctx context.Context, pdfPath string, page int) ([]byte, error)
	PageText(ctx context.Context, pdfPath string, page int) (string, error)
}

// PageOCRConfig configures a PageOCR.
type PageOCRConfig struct {
	Provider OCRProvider
	Renderer PageRenderer
	// Limiter is shared by all callers of Provider. A private one is
	// created from Provider.RequestsPerSecond when nil.
	Limiter *RateLimiter
	// AnchorText passes the page's embedded text layer to the provider.
	AnchorText bool
	Logger     *slog.Logger
}

// PageOCR recognises single PDF pages: render, rate limit, call the provider
// and retry transient failures with exponential backoff.
type PageOCR struct {
	provider   OCRProvider
	renderer   PageRenderer
	limiter    *RateLimiter
	anchorText bool
	logger     *slog.Logger
}

// NewPageOCR creates a PageOCR.
func NewPageOCR(cfg PageOCRConfig) *PageOCR {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(cfg.Provider.RequestsPerSecond())
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &PageOCR{
		provider:   cfg.Provider,
		renderer:   cfg.Renderer,
		limiter:    cfg.Limiter,
		anchorText: cfg.AnchorText,
		logger:     cfg.Logger,
	}
}

// Provider returns the wrapped provider.
func (o *PageOCR) Provider() OCRProvider {
	return o.provider
}

// RecognizePage returns the markdown text of one page (1-indexed).
func (o *PageOCR) RecognizePage(ctx context.Context, pdfPath string, page int, taskType string) (string, error) {
	taskType, err := ValidateTaskType(taskType)
	if err != nil {
		return "", err
	}

	image, err := o.renderer.RenderPage(ctx, pdfPath, page)
	if err != nil {
		return "", err
	}

	req := &OCRRequest{Image: image, PageNum: page, TaskType: taskType}
	if o.anchorText {
		// The text layer is only a hint; scanned pages have none.
		if text, err := o.renderer.PageText(ctx, pdfPath, page); err == nil {
			req.AnchorText = text
		}
	}

	result, err := retry.DoWithData(
		func() (*OCRResult, error) {
			if err := o.limiter.Wait(ctx); err != nil {
				return nil, retry.Unrecoverable(err)
			}
			res, err := o.provider.ProcessImage(ctx, req)
			if err != nil {
				if rle, ok := IsRateLimitError(err); ok {
					o.limiter.Record429(rle.RetryAfter)
				}
				return nil, err
			}
			return res, nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(o.provider.MaxRetries())+1),
		retry.Delay(o.provider.RetryDelayBase()),
		retry.DelayType(retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(shouldRetry),
		retry.OnRetry(func(n uint, err error) {
			o.logger.Warn("ocr request failed, retrying",
				"provider", o.provider.Name(), "page", page, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("ocr page %d with %s: %w", page, o.provider.Name(), err)
	}
	return result.Text, nil
}

func shouldRetry(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	return !errors.Is(err, ErrUnknownTaskType) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// retryDelay backs off exponentially but never waits less than a provider's Retry-After.
func retryDelay(n uint, err error, cfg *retry.Config) time.Duration {
	d := retry.BackOffDelay(n, err, cfg)
	if rle, ok := IsRateLimitError(err); ok && rle.RetryAfter > d {
		return rle.RetryAfter
	}
	return d
}
