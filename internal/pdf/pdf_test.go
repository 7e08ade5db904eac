package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/natthawutgeng05/ocr-typhoon/internal/testutil"
)

func TestPageCount(t *testing.T) {
	dir := t.TempDir()

	t.Run("counts pages", func(t *testing.T) {
		path := filepath.Join(dir, "labels.pdf")
		if err := os.WriteFile(path, testutil.MinimalPDF(3), 0o644); err != nil {
			t.Fatal(err)
		}
		n, err := PageCount(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 3 {
			t.Errorf("got %d pages, want 3", n)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := PageCount(filepath.Join(dir, "missing.pdf")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("not a pdf", func(t *testing.T) {
		path := filepath.Join(dir, "junk.pdf")
		if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := PageCount(path); err == nil {
			t.Error("expected error")
		}
	})
}

type call struct {
	name string
	args []string
}

// fakeRunner records calls. For pdftoppm it writes <prefix>.png like the real tool.
type fakeRunner struct {
	calls  []call
	stdout []byte
	err    error
	png    []byte
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.err != nil {
		return nil, []byte("boom"), f.err
	}
	if f.png != nil {
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+".png", f.png, 0o644); err != nil {
			return nil, nil, err
		}
	}
	return f.stdout, nil, nil
}

func TestRenderer_RenderPage(t *testing.T) {
	runner := &fakeRunner{png: []byte("\x89PNG fake")}
	r := NewRenderer(RendererConfig{Runner: runner, DPI: 200})

	data, err := r.RenderPage(context.Background(), "/in/labels.pdf", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "\x89PNG fake" {
		t.Errorf("got %q", data)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(runner.calls))
	}
	c := runner.calls[0]
	if c.name != "pdftoppm" {
		t.Errorf("binary: got %s", c.name)
	}
	want := []string{"-png", "-f", "4", "-l", "4", "-r", "200", "-singlefile", "/in/labels.pdf"}
	for i, w := range want {
		if c.args[i] != w {
			t.Errorf("arg %d: got %q, want %q", i, c.args[i], w)
		}
	}
}

func TestRenderer_RenderPageErrors(t *testing.T) {
	t.Run("command fails", func(t *testing.T) {
		r := NewRenderer(RendererConfig{Runner: &fakeRunner{err: errors.New("exit 1")}})
		_, err := r.RenderPage(context.Background(), "x.pdf", 1)
		if !errors.Is(err, ErrRender) {
			t.Errorf("expected ErrRender, got %v", err)
		}
	})

	t.Run("no output file", func(t *testing.T) {
		r := NewRenderer(RendererConfig{Runner: &fakeRunner{}})
		_, err := r.RenderPage(context.Background(), "x.pdf", 1)
		if !errors.Is(err, ErrRender) {
			t.Errorf("expected ErrRender, got %v", err)
		}
	})

	t.Run("invalid page", func(t *testing.T) {
		runner := &fakeRunner{}
		r := NewRenderer(RendererConfig{Runner: runner})
		if _, err := r.RenderPage(context.Background(), "x.pdf", 0); !errors.Is(err, ErrRender) {
			t.Errorf("expected ErrRender, got %v", err)
		}
		if len(runner.calls) != 0 {
			t.Error("runner should not be called")
		}
	})
}

func TestRenderer_PageText(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("ถึง สมชาย\nOrder ID: 1\n\f")}
	r := NewRenderer(RendererConfig{Runner: runner})

	text, err := r.PageText(context.Background(), "labels.pdf", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "ถึง สมชาย\nOrder ID: 1" {
		t.Errorf("got %q", text)
	}
	c := runner.calls[0]
	if c.name != "pdftotext" || c.args[1] != "2" || c.args[len(c.args)-1] != "-" {
		t.Errorf("unexpected call: %+v", c)
	}
}

func TestNewRenderer_Defaults(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	if r.DPI() != 300 {
		t.Errorf("dpi: got %d", r.DPI())
	}
}
