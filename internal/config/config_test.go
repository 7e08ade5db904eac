package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	typhoon, ok := cfg.GetOCRProvider("typhoon")
	if !ok {
		t.Fatal("expected default typhoon provider")
	}
	if typhoon.APIKey != "${TYPHOON_OCR_API_KEY}" {
		t.Errorf("api key placeholder = %q", typhoon.APIKey)
	}
	if typhoon.RateLimit != 60 || !typhoon.Enabled {
		t.Errorf("typhoon = %+v", typhoon)
	}
	if _, ok := cfg.EnabledOCRProviders()["tesseract"]; ok {
		t.Error("tesseract should be disabled by default")
	}
	if cfg.Defaults.OCRProvider != "typhoon" || cfg.Defaults.TaskType != "default" || cfg.Defaults.DPI != 300 {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Server.Port != "8080" || cfg.Server.MaxUploadMB != 50 {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestDefaultsCfg_PageLimit(t *testing.T) {
	if got := (DefaultsCfg{}).PageLimit(); got != nil {
		t.Errorf("unset max_pages: got %d, want nil", *got)
	}
	if got := (DefaultsCfg{MaxPages: -1}).PageLimit(); got != nil {
		t.Errorf("negative max_pages: got %d, want nil", *got)
	}
	if got := (DefaultsCfg{MaxPages: 4}).PageLimit(); got == nil || *got != 4 {
		t.Errorf("max_pages 4: got %v", got)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		if result := ResolveEnvVars("${TEST_API_KEY}"); result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		if result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}"); result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		if result := ResolveEnvVars("literal-value"); result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestToProviderRegistryConfig(t *testing.T) {
	t.Setenv("TEST_TYPHOON_KEY", "ty-key-123")

	cfg := &Config{
		OCRProviders: map[string]OCRProviderCfg{
			"typhoon": {Type: "typhoon-ocr", APIKey: "${TEST_TYPHOON_KEY}", BaseURL: "http://local", RateLimit: 30, Enabled: true},
			"local":   {Type: "tesseract", Languages: "tha", Enabled: true},
		},
	}

	reg := cfg.ToProviderRegistryConfig()
	ty := reg.OCRProviders["typhoon"]
	if ty.APIKey != "ty-key-123" || ty.BaseURL != "http://local" || ty.RateLimit != 30 {
		t.Errorf("typhoon = %+v", ty)
	}
	if reg.OCRProviders["local"].Languages != "tha" {
		t.Errorf("local = %+v", reg.OCRProviders["local"])
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		path := writeConfig(t, `
ocr_providers:
  typhoon:
    type: typhoon-ocr
    api_key: literal-key
    rate_limit: 20
    enabled: true
defaults:
  task_type: structure
  max_pages: 5
`)
		mgr, err := NewManager(path)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.OCRProviders["typhoon"].APIKey != "literal-key" || cfg.OCRProviders["typhoon"].RateLimit != 20 {
			t.Errorf("typhoon = %+v", cfg.OCRProviders["typhoon"])
		}
		if cfg.Defaults.TaskType != "structure" || cfg.Defaults.MaxPages != 5 {
			t.Errorf("defaults = %+v", cfg.Defaults)
		}
		// untouched keys keep their defaults
		if cfg.Defaults.DPI != 300 || cfg.Server.Port != "8080" {
			t.Errorf("defaults not applied: %+v %+v", cfg.Defaults, cfg.Server)
		}
		if mgr.ConfigFileUsed() != path {
			t.Errorf("ConfigFileUsed = %q", mgr.ConfigFileUsed())
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("OCRT_SERVER_PORT", "9090")
		t.Setenv("OCRT_DEFAULTS_MAX_PAGES", "3")

		mgr, err := NewManager(writeConfig(t, "server:\n  host: 127.0.0.1\n"))
		if err != nil {
			t.Fatal(err)
		}
		cfg := mgr.Get()
		if cfg.Server.Port != "9090" || cfg.Server.Host != "127.0.0.1" {
			t.Errorf("server = %+v", cfg.Server)
		}
		if cfg.Defaults.MaxPages != 3 {
			t.Errorf("max pages = %d", cfg.Defaults.MaxPages)
		}
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		if _, err := NewManager(writeConfig(t, "ocr_providers: [unclosed")); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("OCRT_DOTENV_SAMPLE=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("OCRT_DOTENV_SAMPLE") })

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv() error = %v", err)
	}
	if got := os.Getenv("OCRT_DOTENV_SAMPLE"); got != "from-file" {
		t.Errorf("OCRT_DOTENV_SAMPLE = %q", got)
	}

	if err := loadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	cfg := mgr.Get()
	ty := cfg.OCRProviders["typhoon"]
	if ty.Model != "typhoon-ocr-preview" || ty.BaseURL != "https://api.opentyphoon.ai/v1" {
		t.Errorf("typhoon = %+v", ty)
	}
	if cfg.OCRProviders["tesseract"].Languages != "tha+eng" {
		t.Errorf("tesseract = %+v", cfg.OCRProviders["tesseract"])
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "defaults:\n  dpi: 200\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "defaults:\n  dpi: 200\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = mgr.Get().Defaults.DPI
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	path := writeConfig(t, "defaults:\n  task_type: default\n")

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value
	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Defaults.TaskType)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("defaults:\n  task_type: structure\n"), 0o644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if got := mgr.Get().Defaults.TaskType; got != "structure" {
		t.Errorf("config not updated: got %s", got)
	}
	if v := lastValue.Load(); v != "structure" {
		t.Errorf("callback received %v", v)
	}
}
