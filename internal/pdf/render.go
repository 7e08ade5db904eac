package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrRender is returned when a page cannot be rasterised or read.
var ErrRender = errors.New("pdf render failed")

// RendererConfig configures a Renderer.
type RendererConfig struct {
	// DPI is the rasterisation resolution (default: 300).
	DPI int
	// Pdftoppm is the pdftoppm binary (default: "pdftoppm").
	Pdftoppm string
	// Pdftotext is the pdftotext binary (default: "pdftotext").
	Pdftotext string
	// Runner executes the poppler tools (default: ExecRunner).
	Runner Runner
}

// Renderer turns single PDF pages into PNG images or text using poppler-utils.
type Renderer struct {
	cfg RendererConfig
}

// NewRenderer creates a renderer with defaults applied.
func NewRenderer(cfg RendererConfig) *Renderer {
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Runner == nil {
		cfg.Runner = ExecRunner{}
	}
	return &Renderer{cfg: cfg}
}

// RenderPage rasterises one 1-indexed page to PNG bytes.
func (r *Renderer) RenderPage(ctx context.Context, path string, page int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: invalid page %d", ErrRender, page)
	}

	tmpDir, err := os.MkdirTemp("", "ocr-typhoon-page-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// -singlefile writes <prefix>.png without a page suffix
	prefix := filepath.Join(tmpDir, "page")
	pageStr := strconv.Itoa(page)
	_, errb, err := r.cfg.Runner.Run(ctx, r.cfg.Pdftoppm,
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", strconv.Itoa(r.cfg.DPI),
		"-singlefile",
		path,
		prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: pdftoppm page %d: %v (%s)", ErrRender, page, err, strings.TrimSpace(string(errb)))
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftoppm did not create expected output: %v", ErrRender, err)
	}
	return data, nil
}

// PageText returns the embedded text layer of one page.
func (r *Renderer) PageText(ctx context.Context, path string, page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("%w: invalid page %d", ErrRender, page)
	}
	pageStr := strconv.Itoa(page)
	out, errb, err := r.cfg.Runner.Run(ctx, r.cfg.Pdftotext,
		"-f", pageStr,
		"-l", pageStr,
		"-layout",
		"-enc", "UTF-8",
		"-eol", "unix",
		path,
		"-",
	)
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext page %d: %v (%s)", ErrRender, page, err, strings.TrimSpace(string(errb)))
	}
	return strings.TrimRight(string(out), "\f\n"), nil
}

// DPI returns the configured resolution.
func (r *Renderer) DPI() int {
	return r.cfg.DPI
}
