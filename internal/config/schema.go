package config

// Config holds ocr-typhoon configuration.
// Loaded from config.yaml in the working directory or $HOME/.ocr-typhoon.
type Config struct {
	OCRProviders map[string]OCRProviderCfg `mapstructure:"ocr_providers" yaml:"ocr_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
}

// OCRProviderCfg configures an OCR provider.
type OCRProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"`                               // "typhoon-ocr", "tesseract"
	Model     string  `mapstructure:"model" yaml:"model,omitempty"`                   // Model name (typhoon-ocr)
	APIKey    string  `mapstructure:"api_key" yaml:"api_key,omitempty"`               // API key (supports ${ENV_VAR} syntax)
	BaseURL   string  `mapstructure:"base_url" yaml:"base_url,omitempty"`             // OpenAI-compatible endpoint
	Languages string  `mapstructure:"languages" yaml:"languages,omitempty"`           // "+"-separated (tesseract)
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit,omitempty"`         // Requests per minute
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies processing defaults.
type DefaultsCfg struct {
	OCRProvider string `mapstructure:"ocr_provider" yaml:"ocr_provider"` // Provider used when a request names none
	TaskType    string `mapstructure:"task_type" yaml:"task_type"`       // "default" or "structure"
	MaxPages    int    `mapstructure:"max_pages" yaml:"max_pages"`       // 0 = all pages
	DPI         int    `mapstructure:"dpi" yaml:"dpi"`                   // Page render resolution
	AnchorText  bool   `mapstructure:"anchor_text" yaml:"anchor_text"`   // Send the PDF text layer as a hint
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host        string `mapstructure:"host" yaml:"host"`
	Port        string `mapstructure:"port" yaml:"port"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OCRProviders: map[string]OCRProviderCfg{
			"typhoon": {
				Type:      "typhoon-ocr",
				Model:     "typhoon-ocr-preview",
				APIKey:    "${TYPHOON_OCR_API_KEY}",
				BaseURL:   "https://api.opentyphoon.ai/v1",
				RateLimit: 60,
				Enabled:   true,
			},
			"tesseract": {
				Type:      "tesseract",
				Languages: "tha+eng",
				Enabled:   false,
			},
		},
		Defaults: DefaultsCfg{
			OCRProvider: "typhoon",
			TaskType:    "default",
			MaxPages:    0,
			DPI:         300,
		},
		Server: ServerCfg{
			Host:        "0.0.0.0",
			Port:        "8080",
			MaxUploadMB: 50,
		},
	}
}

// PageLimit returns the configured page limit, or nil when every page is processed.
func (d DefaultsCfg) PageLimit() *int {
	if d.MaxPages <= 0 {
		return nil
	}
	n := d.MaxPages
	return &n
}

// GetOCRProvider returns an OCR provider config by name.
func (c *Config) GetOCRProvider(name string) (OCRProviderCfg, bool) {
	cfg, ok := c.OCRProviders[name]
	return cfg, ok
}

// EnabledOCRProviders returns all enabled OCR providers.
func (c *Config) EnabledOCRProviders() map[string]OCRProviderCfg {
	result := make(map[string]OCRProviderCfg)
	for name, cfg := range c.OCRProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
