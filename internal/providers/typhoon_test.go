package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func chatCompletionBody(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1718000000,
		"model":   TyphoonOCRModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 40, "total_tokens": 160},
	}
}

func TestTyphoonOCRClient_ProcessImage(t *testing.T) {
	t.Run("successful OCR", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}

			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			if req["model"] != TyphoonOCRModel {
				t.Errorf("model = %v", req["model"])
			}
			if req["repetition_penalty"] != 1.2 {
				t.Errorf("repetition_penalty = %v", req["repetition_penalty"])
			}
			if req["max_tokens"] != float64(16000) {
				t.Errorf("max_tokens = %v", req["max_tokens"])
			}
			raw, _ := json.Marshal(req["messages"])
			if !strings.Contains(string(raw), "data:image/png;base64,") {
				t.Error("expected image data URL in messages")
			}
			if !strings.Contains(string(raw), "RAW_TEXT_START") {
				t.Error("expected prompt in messages")
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(chatCompletionBody(`{"natural_text": "**ถึง** สมชาย ใจดี"}`))
		}))
		defer server.Close()

		client := NewTyphoonOCRClient(TyphoonOCRConfig{APIKey: "test-key", BaseURL: server.URL})

		result, err := client.ProcessImage(context.Background(), &OCRRequest{Image: []byte("png"), PageNum: 1})
		if err != nil {
			t.Fatalf("ProcessImage() error = %v", err)
		}
		if !result.Success {
			t.Error("expected Success = true")
		}
		if result.Text != "**ถึง** สมชาย ใจดี" {
			t.Errorf("unexpected text: %q", result.Text)
		}
		if result.PromptTokens != 120 || result.CompletionTokens != 40 {
			t.Errorf("tokens = %d/%d", result.PromptTokens, result.CompletionTokens)
		}
		if result.Metadata["task_type"] != TaskDefault {
			t.Errorf("task_type = %v", result.Metadata["task_type"])
		}
	})

	t.Run("unknown task type sends nothing", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		client := NewTyphoonOCRClient(TyphoonOCRConfig{APIKey: "k", BaseURL: server.URL})
		_, err := client.ProcessImage(context.Background(), &OCRRequest{Image: []byte("png"), PageNum: 1, TaskType: "layout"})
		if err == nil {
			t.Fatal("expected error")
		}
		if called {
			t.Error("no request should be sent for an unknown task type")
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"message":"too many requests","type":"rate_limit"}}`)
		}))
		defer server.Close()

		client := NewTyphoonOCRClient(TyphoonOCRConfig{APIKey: "k", BaseURL: server.URL})
		_, err := client.ProcessImage(context.Background(), &OCRRequest{Image: []byte("png"), PageNum: 1})

		rle, ok := IsRateLimitError(err)
		if !ok {
			t.Fatalf("expected RateLimitError, got %v", err)
		}
		if rle.StatusCode != http.StatusTooManyRequests {
			t.Errorf("StatusCode = %d", rle.StatusCode)
		}
		if rle.RetryAfter != 7*time.Second {
			t.Errorf("RetryAfter = %v", rle.RetryAfter)
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewTyphoonOCRClient(TyphoonOCRConfig{APIKey: "k", BaseURL: server.URL})
		result, err := client.ProcessImage(context.Background(), &OCRRequest{Image: []byte("png"), PageNum: 1})
		if err == nil {
			t.Fatal("expected error")
		}
		if _, ok := IsRateLimitError(err); ok {
			t.Error("500 should not be a rate limit error")
		}
		if result == nil || result.Success {
			t.Error("expected failed result")
		}
	})
}

func TestTyphoonOCRClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/models" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
			return
		}
		w.Write([]byte(`{"object": "list", "data": [{"id": "typhoon-ocr-preview", "object": "model", "created": 1718000000, "owned_by": "scb10x"}]}`))
	}))
	defer server.Close()

	var _ HealthChecker = (*TyphoonOCRClient)(nil)

	good := NewTyphoonOCRClient(TyphoonOCRConfig{APIKey: "good-key", BaseURL: server.URL})
	if err := good.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	bad := NewTyphoonOCRClient(TyphoonOCRConfig{APIKey: "bad-key", BaseURL: server.URL})
	if err := bad.HealthCheck(context.Background()); err == nil {
		t.Error("expected error for rejected key")
	}
}

func TestBuildPrompt(t *testing.T) {
	def := BuildPrompt(TaskDefault, "anchor")
	if !strings.Contains(def, "markdown format") || !strings.Contains(def, "RAW_TEXT_START\nanchor\nRAW_TEXT_END") {
		t.Errorf("default prompt = %q", def)
	}
	structure := BuildPrompt(TaskStructure, "")
	if !strings.Contains(structure, "HTML format") {
		t.Errorf("structure prompt = %q", structure)
	}
}

func TestParseNaturalText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json", `{"natural_text": "hello"}`, "hello"},
		{"fenced json", "```json\n{\"natural_text\": \"hello\"}\n```", "hello"},
		{"empty text", `{"natural_text": ""}`, ""},
		{"plain markdown", "# Title\nbody", "# Title\nbody"},
		{"json without field", `{"text": "x"}`, `{"text": "x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseNaturalText(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
