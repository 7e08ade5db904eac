package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/natthawutgeng05/ocr-typhoon/internal/api"
	"github.com/natthawutgeng05/ocr-typhoon/internal/config"
	"github.com/natthawutgeng05/ocr-typhoon/internal/export"
	"github.com/natthawutgeng05/ocr-typhoon/internal/home"
	"github.com/natthawutgeng05/ocr-typhoon/internal/pdf"
	"github.com/natthawutgeng05/ocr-typhoon/internal/pipeline"
	"github.com/natthawutgeng05/ocr-typhoon/internal/providers"
	"github.com/natthawutgeng05/ocr-typhoon/internal/types"
)

var (
	processMaxPages int
	processDebug    bool
	processTaskType string
	processProvider string
	processOutDir   string
)

// processOutput is printed after a local run.
type processOutput struct {
	Document       string                    `json:"document" yaml:"document"`
	Status         types.Status              `json:"processing_status" yaml:"processing_status"`
	TotalPages     int                       `json:"total_pages" yaml:"total_pages"`
	ProcessedPages int                       `json:"processed_pages" yaml:"processed_pages"`
	Orders         int                       `json:"orders" yaml:"orders"`
	Files          map[string]string         `json:"files" yaml:"files"`
	Summary        *types.DiagnosticsSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

var processCmd = &cobra.Command{
	Use:   "process <pdf>",
	Short: "Process a PDF locally without a server",
	Long: `Run OCR and field extraction on a PDF and write the JSON and Excel
results. Uses the same providers and defaults as the server.

Examples:
  ocr-typhoon process labels.pdf
  ocr-typhoon process labels.pdf --max-pages 5 --debug
  ocr-typhoon process labels.pdf --provider tesseract --out-dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pdfPath := args[0]

		if !strings.EqualFold(filepath.Ext(pdfPath), ".pdf") {
			return fmt.Errorf("%s is not a PDF file", pdfPath)
		}

		logger, err := newLogger()
		if err != nil {
			return err
		}

		configMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := configMgr.Get()

		taskType := processTaskType
		if taskType == "" {
			taskType = cfg.Defaults.TaskType
		}
		if taskType, err = providers.ValidateTaskType(taskType); err != nil {
			return err
		}
		providerName := processProvider
		if providerName == "" {
			providerName = cfg.Defaults.OCRProvider
		}
		maxPages := cfg.Defaults.PageLimit()
		if cmd.Flags().Changed("max-pages") {
			maxPages = pipeline.PageLimit(processMaxPages)
		}

		registry := providers.NewRegistry()
		registry.SetLogger(logger)
		registry.Reload(cfg.ToProviderRegistryConfig())

		ocr, err := registry.PageOCR(providerName, providers.PageOCRConfig{
			Renderer:   pdf.NewRenderer(pdf.RendererConfig{DPI: cfg.Defaults.DPI}),
			AnchorText: cfg.Defaults.AnchorText,
			Logger:     logger,
		})
		if err != nil {
			return err
		}

		resultsDir, debugDir := processOutDir, processOutDir
		if resultsDir == "" {
			h, err := home.New(homeDir)
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			resultsDir, debugDir = h.ResultsPath(), h.DebugPath()
		}

		result := pipeline.New(pipeline.Config{OCR: ocr, Logger: logger}).Run(ctx, pdfPath, pipeline.RunOptions{
			MaxPages:    maxPages,
			Diagnostics: processDebug,
			TaskType:    taskType,
		})

		files, err := export.Write(result, resultsDir, debugDir, time.Now())
		if err != nil {
			return err
		}

		out := processOutput{
			Document:       result.Document,
			Status:         result.Status,
			TotalPages:     result.TotalPages,
			ProcessedPages: result.ProcessedPages,
			Orders:         len(result.Records),
			Files:          map[string]string{"json": files.JSON, "excel": files.Excel},
			Summary:        result.Summary,
		}
		if files.Debug != "" {
			out.Files["debug"] = files.Debug
		}
		return api.Output(out)
	},
}

func init() {
	processCmd.Flags().IntVar(&processMaxPages, "max-pages", 0, "Process only the first N pages (default: all)")
	processCmd.Flags().BoolVar(&processDebug, "debug", false, "Write a per-page diagnostics report")
	processCmd.Flags().StringVar(&processTaskType, "task-type", "", "OCR task type: default or structure")
	processCmd.Flags().StringVar(&processProvider, "provider", "", "OCR provider name (default from config)")
	processCmd.Flags().StringVar(&processOutDir, "out-dir", "", "Directory for results (default: <home>/results)")

	rootCmd.AddCommand(processCmd)
}
