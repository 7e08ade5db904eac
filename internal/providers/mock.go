package providers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const MockOCRName = "mock"

// MockOCRProvider is an OCRProvider for testing.
type MockOCRProvider struct {
	// PageTexts maps page numbers to the text returned for them.
	// Pages without an entry get DefaultText.
	PageTexts   map[int]string
	DefaultText string

	// FailPages lists pages that always fail.
	FailPages  map[int]bool
	ShouldFail bool
	FailAfter  int // Fail after N requests (0 = never)
	Latency    time.Duration

	// HealthErr is returned by HealthCheck.
	HealthErr error

	RPS        float64
	Retries    int
	RetryDelay time.Duration

	requestCount atomic.Int64

	mu    sync.Mutex
	calls []OCRRequest
}

var _ OCRProvider = (*MockOCRProvider)(nil)

// NewMockOCRProvider creates a mock that never rate limits or retries.
func NewMockOCRProvider() *MockOCRProvider {
	return &MockOCRProvider{
		PageTexts:  make(map[int]string),
		FailPages:  make(map[int]bool),
		RPS:        1000,
		RetryDelay: time.Millisecond,
	}
}

func (p *MockOCRProvider) Name() string                  { return MockOCRName }
func (p *MockOCRProvider) RequestsPerSecond() float64    { return p.RPS }
func (p *MockOCRProvider) MaxRetries() int               { return p.Retries }
func (p *MockOCRProvider) RetryDelayBase() time.Duration { return p.RetryDelay }

// ProcessImage returns the configured text for the requested page.
func (p *MockOCRProvider) ProcessImage(ctx context.Context, req *OCRRequest) (*OCRResult, error) {
	count := p.requestCount.Add(1)

	p.mu.Lock()
	p.calls = append(p.calls, *req)
	p.mu.Unlock()

	if p.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.Latency):
		}
	}

	if p.ShouldFail || p.FailPages[req.PageNum] || (p.FailAfter > 0 && int(count) > p.FailAfter) {
		err := fmt.Errorf("mock OCR failure on page %d", req.PageNum)
		return &OCRResult{ErrorMessage: err.Error()}, err
	}

	text, ok := p.PageTexts[req.PageNum]
	if !ok {
		text = p.DefaultText
	}
	return &OCRResult{
		Success:   true,
		Text:      text,
		ModelUsed: MockOCRName,
	}, nil
}

// HealthCheck returns HealthErr.
func (p *MockOCRProvider) HealthCheck(ctx context.Context) error {
	return p.HealthErr
}

// RequestCount returns the number of ProcessImage calls made.
func (p *MockOCRProvider) RequestCount() int64 {
	return p.requestCount.Load()
}

// Calls returns a copy of every request received.
func (p *MockOCRProvider) Calls() []OCRRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]OCRRequest, len(p.calls))
	copy(out, p.calls)
	return out
}
