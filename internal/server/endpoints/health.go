package endpoints

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/natthawutgeng05/ocr-typhoon/internal/api"
	"github.com/natthawutgeng05/ocr-typhoon/internal/home"
	"github.com/natthawutgeng05/ocr-typhoon/version"
)

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	Platform    string `json:"platform"`
	Environment string `json:"environment"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct {
	// Getenv reads deployment variables (default: os.Getenv).
	Getenv func(string) string
	// Now defaults to time.Now.
	Now func() time.Time
}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Health check
//	@Description	Reports liveness and the deployment platform
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Timestamp:   now().Format(time.RFC3339),
		Version:     version.APIVersion,
		Platform:    home.Platform(getenv),
		Environment: home.Environment(getenv),
	})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
