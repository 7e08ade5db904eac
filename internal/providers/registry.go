package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Provider types accepted in config.
const (
	TypeTyphoonOCR = "typhoon-ocr"
	TypeTesseract  = "tesseract"
)

// ErrProviderNotFound is returned by Get for unknown names.
var ErrProviderNotFound = errors.New("OCR provider not found")

// Factory builds a provider from its resolved config.
type Factory func(cfg OCRProviderConfig) (OCRProvider, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{
		TypeTyphoonOCR: newTyphoonFromConfig,
	}
)

// RegisterFactory makes a provider type available to registries built from
// config. Optional engines register themselves from init.
func RegisterFactory(providerType string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[providerType] = f
}

func lookupFactory(providerType string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[providerType]
	return f, ok
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	OCRProviders map[string]OCRProviderConfig
}

// OCRProviderConfig matches config.OCRProviderCfg with the API key resolved.
type OCRProviderConfig struct {
	Type      string
	Model     string
	APIKey    string
	BaseURL   string
	Languages string  // tesseract only, e.g. "tha+eng"
	RateLimit float64 // Requests per minute
	Enabled   bool
}

func newTyphoonFromConfig(cfg OCRProviderConfig) (OCRProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing API key")
	}
	return NewTyphoonOCRClient(TyphoonOCRConfig{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		RateLimit: cfg.RateLimit / 60,
	}), nil
}

type registryEntry struct {
	provider OCRProvider
	limiter  *RateLimiter
	cfg      OCRProviderConfig
}

// Registry holds the configured OCR providers and their rate limiters.
// It supports config-driven instantiation and hot reload.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
	logger  *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
		logger:  slog.Default(),
	}
}

// NewRegistryFromConfig creates a registry with every enabled provider that
// its factory accepts.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds a provider by name, replacing any existing one.
func (r *Registry) Register(name string, provider OCRProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &registryEntry{
		provider: provider,
		limiter:  NewRateLimiter(provider.RequestsPerSecond()),
	}
	r.logger.Info("registered OCR provider", "name", name)
}

// Unregister removes a provider by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		delete(r.entries, name)
		r.logger.Info("unregistered OCR provider", "name", name)
	}
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (OCRProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return e.provider, nil
}

// Limiter returns the rate limiter shared by every caller of the named provider.
func (r *Registry) Limiter(name string) *RateLimiter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[name]; ok {
		return e.limiter
	}
	return nil
}

// PageOCR builds a PageOCR over the named provider. Provider and Limiter in
// cfg are replaced by the registered ones so concurrent documents share a
// single rate budget.
func (r *Registry) PageOCR(name string, cfg PageOCRConfig) (*PageOCR, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	logger := r.logger
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	cfg.Provider = e.provider
	cfg.Limiter = e.limiter
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	return NewPageOCR(cfg), nil
}

// Has checks if a provider is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// List returns registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProviderInfo describes a registered provider for listings.
type ProviderInfo struct {
	Name              string            `json:"name"`
	Type              string            `json:"type,omitempty"`
	Model             string            `json:"model,omitempty"`
	RequestsPerSecond float64           `json:"requests_per_second"`
	MaxRetries        int               `json:"max_retries"`
	RetryDelayBase    time.Duration     `json:"retry_delay_base"`
	Limiter           RateLimiterStatus `json:"limiter"`

	// Set by CheckHealth only.
	Health      string `json:"health,omitempty"`
	HealthError string `json:"health_error,omitempty"`
}

// Health states reported by CheckHealth.
const (
	HealthOK          = "ok"
	HealthFailed      = "error"
	HealthUnsupported = "unsupported"
)

// Info returns a description of every registered provider, sorted by name.
func (r *Registry) Info() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProviderInfo, 0, len(r.entries))
	for name, e := range r.entries {
		out = append(out, ProviderInfo{
			Name:              name,
			Type:              e.cfg.Type,
			Model:             e.cfg.Model,
			RequestsPerSecond: e.provider.RequestsPerSecond(),
			MaxRetries:        e.provider.MaxRetries(),
			RetryDelayBase:    e.provider.RetryDelayBase(),
			Limiter:           e.limiter.Status(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CheckHealth returns Info with each provider's health filled in. Providers
// that do not implement HealthChecker are reported as unsupported. Checks run
// outside the registry lock.
func (r *Registry) CheckHealth(ctx context.Context) []ProviderInfo {
	infos := r.Info()

	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.entries))
	for name, e := range r.entries {
		if hc, ok := e.provider.(HealthChecker); ok {
			checkers[name] = hc
		}
	}
	logger := r.logger
	r.mu.RUnlock()

	for i := range infos {
		hc, ok := checkers[infos[i].Name]
		if !ok {
			infos[i].Health = HealthUnsupported
			continue
		}
		if err := hc.HealthCheck(ctx); err != nil {
			infos[i].Health = HealthFailed
			infos[i].HealthError = err.Error()
			logger.Warn("OCR provider health check failed", "provider", infos[i].Name, "error", err)
			continue
		}
		infos[i].Health = HealthOK
	}
	return infos
}

// Reload updates the registry from config. Providers that are no longer
// configured (or are disabled) are unregistered; providers with changed
// settings are rebuilt.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)
	for name, provCfg := range cfg.OCRProviders {
		if !provCfg.Enabled {
			continue
		}
		existing, hasExisting := r.entries[name]
		if hasExisting && existing.cfg == provCfg {
			want[name] = true
			continue
		}

		factory, ok := lookupFactory(provCfg.Type)
		if !ok {
			r.logger.Warn("unknown OCR provider type", "name", name, "type", provCfg.Type)
			continue
		}
		provider, err := factory(provCfg)
		if err != nil {
			r.logger.Warn("skipping OCR provider", "name", name, "type", provCfg.Type, "error", err)
			continue
		}
		want[name] = true

		r.entries[name] = &registryEntry{
			provider: provider,
			limiter:  NewRateLimiter(provider.RequestsPerSecond()),
			cfg:      provCfg,
		}
		if hasExisting {
			r.logger.Info("updated OCR provider", "name", name, "type", provCfg.Type)
		} else {
			r.logger.Info("registered OCR provider", "name", name, "type", provCfg.Type)
		}
	}

	for name := range r.entries {
		if !want[name] {
			delete(r.entries, name)
			r.logger.Info("unregistered OCR provider", "name", name)
		}
	}
}
