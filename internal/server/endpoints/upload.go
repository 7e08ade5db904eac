package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/natthawutgeng05/ocr-typhoon/internal/api"
	"github.com/natthawutgeng05/ocr-typhoon/internal/config"
	"github.com/natthawutgeng05/ocr-typhoon/internal/export"
	"github.com/natthawutgeng05/ocr-typhoon/internal/pipeline"
	"github.com/natthawutgeng05/ocr-typhoon/internal/providers"
	"github.com/natthawutgeng05/ocr-typhoon/internal/svcctx"
	"github.com/natthawutgeng05/ocr-typhoon/internal/types"
)

// UploadResponse is the result of processing an uploaded document.
type UploadResponse struct {
	Success      bool                  `json:"success"`
	Results      *types.DocumentResult `json:"results"`
	DownloadURLs DownloadURLs          `json:"download_urls"`
	DebugMode    bool                  `json:"debug_mode"`
}

// DownloadURLs point at the artifacts written for one upload.
type DownloadURLs struct {
	JSON  string `json:"json"`
	Excel string `json:"excel"`
	Debug string `json:"debug,omitempty"`
}

// UploadEndpoint handles POST /upload with a multipart PDF.
type UploadEndpoint struct {
	// Now defaults to time.Now; it stamps artifact names.
	Now func() time.Time
}

var _ api.Endpoint = (*UploadEndpoint)(nil)

func (e *UploadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/upload", e.handler
}

func (e *UploadEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Upload and process a shipping-label PDF
//	@Description	OCR every page, extract order records and write JSON and Excel artifacts
//	@Tags			documents
//	@Accept			mpfd
//	@Produce		json
//	@Param			file		formData	file	true	"PDF document"
//	@Param			max_pages	formData	int		false	"Process only the first N pages"
//	@Param			debug_mode	formData	bool	false	"Write a per-page diagnostics report"
//	@Param			task_type	formData	string	false	"OCR task type (default or structure)"
//	@Param			provider	formData	string	false	"OCR provider name"
//	@Success		200			{object}	UploadResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		413			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/upload [post]
func (e *UploadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := svcctx.ConfigFrom(ctx)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	maxMB := cfg.Server.MaxUploadMB
	if maxMB <= 0 {
		maxMB = config.DefaultConfig().Server.MaxUploadMB
	}
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxMB)<<20)

	const maxMemory = 32 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d MB limit", maxMB))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fh, err := r.FormFile("file")
	if err != nil || fh.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "Invalid file type. Please upload a PDF file.")
		return
	}

	// A non-blank max_pages, zero included, overrides the configured default.
	maxPages := cfg.Defaults.PageLimit()
	if v := strings.TrimSpace(r.FormValue("max_pages")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid max_pages: %q", v))
			return
		}
		maxPages = pipeline.PageLimit(n)
	}
	debugMode := strings.EqualFold(r.FormValue("debug_mode"), "true")

	taskType := r.FormValue("task_type")
	if taskType == "" {
		taskType = cfg.Defaults.TaskType
	}
	taskType, err = providers.ValidateTaskType(taskType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	providerName := r.FormValue("provider")
	if providerName == "" {
		providerName = cfg.Defaults.OCRProvider
	}

	homeDir := svcctx.HomeFrom(ctx)
	if homeDir == nil {
		writeError(w, http.StatusServiceUnavailable, "home directory not initialized")
		return
	}
	registry := svcctx.RegistryFrom(ctx)
	if registry == nil {
		writeError(w, http.StatusServiceUnavailable, "provider registry not initialized")
		return
	}
	renderer := svcctx.RendererFrom(ctx)
	if renderer == nil {
		writeError(w, http.StatusServiceUnavailable, "page renderer not initialized")
		return
	}
	logger := svcctx.LoggerFrom(ctx)

	ocr, err := registry.PageOCR(providerName, providers.PageOCRConfig{
		Renderer:   renderer,
		AnchorText: cfg.Defaults.AnchorText,
		Logger:     logger,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	destPath, err := homeDir.UploadPath(fh.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := saveUpload(file, destPath); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save file: %v", err))
		return
	}
	defer os.Remove(destPath)

	p := pipeline.New(pipeline.Config{OCR: ocr, Logger: logger})
	result := p.Run(ctx, destPath, pipeline.RunOptions{
		MaxPages:     maxPages,
		Diagnostics:  debugMode,
		TaskType:     taskType,
		DocumentName: filepath.Base(fh.Filename),
	})

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	files, err := export.Write(result, homeDir.ResultsPath(), homeDir.DebugPath(), now())
	if err != nil {
		logger.Error("failed to write artifacts", "document", result.Document, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", err))
		return
	}

	urls := DownloadURLs{
		JSON:  "/download/" + filepath.Base(files.JSON),
		Excel: "/download/" + filepath.Base(files.Excel),
	}
	if files.Debug != "" {
		urls.Debug = "/download_debug/" + filepath.Base(files.Debug)
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success:      true,
		Results:      result,
		DownloadURLs: urls,
		DebugMode:    debugMode,
	})
}

func saveUpload(src io.Reader, destPath string) error {
	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(destPath)
		return err
	}
	return dst.Close()
}

func (e *UploadEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		maxPages int
		debug    bool
		taskType string
		provider string
	)
	cmd := &cobra.Command{
		Use:   "upload <pdf>",
		Short: "Upload a PDF to the server for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{
				"debug_mode": strconv.FormatBool(debug),
			}
			if cmd.Flags().Changed("max-pages") {
				fields["max_pages"] = strconv.Itoa(maxPages)
			}
			if taskType != "" {
				fields["task_type"] = taskType
			}
			if provider != "" {
				fields["provider"] = provider
			}

			client := api.NewClient(getServerURL())
			var resp UploadResponse
			if err := client.Upload(cmd.Context(), "/upload", "file", args[0], fields, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Process only the first N pages (default: all)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Request a diagnostics report")
	cmd.Flags().StringVar(&taskType, "task-type", "", "OCR task type: default or structure")
	cmd.Flags().StringVar(&provider, "provider", "", "OCR provider name")
	return cmd
}
