package endpoints

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/natthawutgeng05/ocr-typhoon/internal/api"
	"github.com/natthawutgeng05/ocr-typhoon/internal/providers"
	"github.com/natthawutgeng05/ocr-typhoon/internal/svcctx"
)

// ProvidersResponse lists the registered OCR providers.
type ProvidersResponse struct {
	Default   string                   `json:"default"`
	Providers []providers.ProviderInfo `json:"providers"`
}

// providerCheckTimeout bounds all health checks of one request.
const providerCheckTimeout = 10 * time.Second

// ProvidersEndpoint handles GET /providers.
type ProvidersEndpoint struct{}

var _ api.Endpoint = (*ProvidersEndpoint)(nil)

func (e *ProvidersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/providers", e.handler
}

func (e *ProvidersEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List OCR providers
//	@Description	Registered providers with their retry policy and rate limiter state
//	@Tags			providers
//	@Produce		json
//	@Param			check	query		bool	false	"Verify each provider's backend is reachable"
//	@Success		200	{object}	ProvidersResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/providers [get]
func (e *ProvidersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	registry := svcctx.RegistryFrom(r.Context())
	if registry == nil {
		writeError(w, http.StatusServiceUnavailable, "provider registry not initialized")
		return
	}

	check := false
	if v := r.URL.Query().Get("check"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid check: "+strconv.Quote(v))
			return
		}
		check = b
	}

	var resp ProvidersResponse
	if check {
		ctx, cancel := context.WithTimeout(r.Context(), providerCheckTimeout)
		defer cancel()
		resp.Providers = registry.CheckHealth(ctx)
	} else {
		resp.Providers = registry.Info()
	}
	if cfg := svcctx.ConfigFrom(r.Context()); cfg != nil {
		resp.Default = cfg.Defaults.OCRProvider
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ProvidersEndpoint) Command(getServerURL func() string) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List registered OCR providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/providers"
			if check {
				path += "?check=true"
			}
			client := api.NewClient(getServerURL())
			var resp ProvidersResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Verify each provider's backend is reachable")
	return cmd
}
