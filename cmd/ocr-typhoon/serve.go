package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/natthawutgeng05/ocr-typhoon/internal/config"
	"github.com/natthawutgeng05/ocr-typhoon/internal/home"
	"github.com/natthawutgeng05/ocr-typhoon/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ocr-typhoon server",
	Long: `Start the ocr-typhoon HTTP server.

The server provides:
  - /         - Upload page
  - /upload   - Process a PDF and return the extracted orders
  - /download - Fetch JSON and Excel results
  - /health   - Basic server health check
  - /swagger  - OpenAPI documentation

Host and port default to the server section of the config file. On hosted
platforms the PORT environment variable takes precedence.

Examples:
  ocr-typhoon serve                    # Start with config defaults
  ocr-typhoon serve --port 3000        # Start on custom port
  ocr-typhoon serve --host 127.0.0.1   # Bind to loopback only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger, err := newLogger()
		if err != nil {
			return err
		}

		configMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		configMgr.SetLogger(logger)
		cfg := configMgr.Get()

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		host := serveHost
		if host == "" {
			host = cfg.Server.Host
		}
		port := servePort
		if port == "" {
			port = os.Getenv("PORT")
		}
		if port == "" {
			port = cfg.Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			Home:          h,
			ConfigManager: configMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
