package endpoints

import (
	"github.com/natthawutgeng05/ocr-typhoon/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// SwaggerInstance selects the registered OpenAPI document (default: swag.Name)
	SwaggerInstance string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoint
		&HealthEndpoint{},

		// Document endpoints
		&UploadEndpoint{},
		&DownloadEndpoint{},
		&DownloadDebugEndpoint{},

		// Provider endpoints
		&ProvidersEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{InstanceName: cfg.SwaggerInstance},
		&SwaggerUIEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
