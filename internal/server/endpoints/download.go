package endpoints

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/natthawutgeng05/ocr-typhoon/internal/api"
	"github.com/natthawutgeng05/ocr-typhoon/internal/home"
	"github.com/natthawutgeng05/ocr-typhoon/internal/svcctx"
)

// DownloadEndpoint handles GET /download/{filename} for result artifacts.
type DownloadEndpoint struct{}

var _ api.Endpoint = (*DownloadEndpoint)(nil)

func (e *DownloadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/download/{filename}", e.handler
}

func (e *DownloadEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Download a result artifact
//	@Description	Serve a JSON or Excel result written by /upload
//	@Tags			documents
//	@Produce		octet-stream
//	@Param			filename	path		string	true	"Artifact file name"
//	@Success		200			{file}		file
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/download/{filename} [get]
func (e *DownloadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	serveArtifact(w, r, (*home.Dir).ResultFile)
}

func (e *DownloadEndpoint) Command(getServerURL func() string) *cobra.Command {
	return downloadCommand("download", "/download/", "Download a result artifact", getServerURL)
}

// DownloadDebugEndpoint handles GET /download_debug/{filename} for diagnostics reports.
type DownloadDebugEndpoint struct{}

var _ api.Endpoint = (*DownloadDebugEndpoint)(nil)

func (e *DownloadDebugEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/download_debug/{filename}", e.handler
}

func (e *DownloadDebugEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Download a diagnostics report
//	@Tags			documents
//	@Produce		json
//	@Param			filename	path		string	true	"Debug report file name"
//	@Success		200			{file}		file
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/download_debug/{filename} [get]
func (e *DownloadDebugEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	serveArtifact(w, r, (*home.Dir).DebugFile)
}

func (e *DownloadDebugEndpoint) Command(getServerURL func() string) *cobra.Command {
	return downloadCommand("download-debug", "/download_debug/", "Download a diagnostics report", getServerURL)
}

func serveArtifact(w http.ResponseWriter, r *http.Request, resolve func(*home.Dir, string) (string, error)) {
	homeDir := svcctx.HomeFrom(r.Context())
	if homeDir == nil {
		writeError(w, http.StatusServiceUnavailable, "home directory not initialized")
		return
	}

	name := r.PathValue("filename")
	path, err := resolve(homeDir, name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("file not found: %s", name))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("file not found: %s", name))
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name()))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func downloadCommand(use, prefix, short string, getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   use + " <filename>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFile == "" {
				outputFile = args[0]
			}
			client := api.NewClient(getServerURL())
			n, err := client.Download(cmd.Context(), prefix+url.PathEscape(args[0]), outputFile)
			if err != nil {
				return err
			}
			cmd.Printf("Saved %s (%d bytes)\n", outputFile, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Destination path (default: the artifact name)")
	return cmd
}
