package agent_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/reqguard/internal/agent"
)

type capturedRequest struct {
	Model               string          `json:"model"`
	Temperature         float32         `json:"temperature"`
	MaxTokens           int             `json:"max_tokens"`
	MaxCompletionTokens int             `json:"max_completion_tokens"`
	ResponseFormat      *responseFormat `json:"response_format"`
	Messages            []message       `json:"messages"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// stubBackend records the last chat completion request and returns a fixed
// reply in the OpenAI wire shape.
func stubBackend(t *testing.T, reply string) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   captured.Model,
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": reply,
					},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	return srv, captured
}

func newSystem(t *testing.T, srv *httptest.Server, model string) agent.System {
	t.Helper()

	cfg := agent.Config{
		BaseURL:     srv.URL + "/v1",
		APIKey:      "test-key",
		Model:       model,
		MaxTokens:   512,
		Temperature: 0.2,
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	return agent.New(&cfg, slog.Default())
}

func TestComplete(t *testing.T) {
	srv, captured := stubBackend(t, "structured output")
	sys := newSystem(t, srv, "gpt-4o-mini")

	got, err := sys.Complete(context.Background(), agent.Request{
		System: "system turn",
		User:   "user turn",
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if got != "structured output" {
		t.Errorf("Complete() = %q, want %q", got, "structured output")
	}

	if len(captured.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != "system turn" {
		t.Errorf("system message = %+v", captured.Messages[0])
	}
	if captured.Messages[1].Role != "user" || captured.Messages[1].Content != "user turn" {
		t.Errorf("user message = %+v", captured.Messages[1])
	}

	if captured.Temperature != 0.2 {
		t.Errorf("temperature = %v, want configured default 0.2", captured.Temperature)
	}
	if captured.MaxTokens != 512 {
		t.Errorf("max_tokens = %d, want 512", captured.MaxTokens)
	}
	if captured.ResponseFormat != nil {
		t.Errorf("response_format = %+v, want unset", captured.ResponseFormat)
	}
}

func TestCompleteTemperatureOverride(t *testing.T) {
	srv, captured := stubBackend(t, "{}")
	sys := newSystem(t, srv, "gpt-4o-mini")

	zero := float32(0)
	if _, err := sys.Complete(context.Background(), agent.Request{
		System:      "verify",
		User:        "items",
		Temperature: &zero,
	}); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if captured.Temperature != 0 {
		t.Errorf("temperature = %v, want explicit 0", captured.Temperature)
	}
}

func TestCompleteJSONResponse(t *testing.T) {
	srv, captured := stubBackend(t, `{"loan_type":"YES"}`)
	sys := newSystem(t, srv, "gpt-4o-mini")

	if _, err := sys.Complete(context.Background(), agent.Request{
		System:       "verify",
		User:         "items",
		JSONResponse: true,
	}); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", captured.ResponseFormat)
	}
}

func TestCompleteReasoningModelTokenField(t *testing.T) {
	tests := []struct {
		model         string
		wantReasoning bool
	}{
		{"gpt-4o-mini", false},
		{"o1-mini", true},
		{"o3", true},
		{"o4-mini", true},
		{"gpt-5", true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			srv, captured := stubBackend(t, "ok")
			sys := newSystem(t, srv, tt.model)

			if _, err := sys.Complete(context.Background(), agent.Request{
				System: "s",
				User:   "u",
			}); err != nil {
				t.Fatalf("Complete() error: %v", err)
			}

			if tt.wantReasoning {
				if captured.MaxCompletionTokens != 512 || captured.MaxTokens != 0 {
					t.Errorf(
						"tokens = max %d / completion %d, want completion-only",
						captured.MaxTokens, captured.MaxCompletionTokens,
					)
				}
				if captured.Temperature != 0 {
					t.Errorf("temperature = %v, want unset for %s", captured.Temperature, tt.model)
				}
			} else {
				if captured.MaxTokens != 512 || captured.MaxCompletionTokens != 0 {
					t.Errorf(
						"tokens = max %d / completion %d, want max-only",
						captured.MaxTokens, captured.MaxCompletionTokens,
					)
				}
				if captured.Temperature != 0.2 {
					t.Errorf("temperature = %v, want configured default 0.2", captured.Temperature)
				}
			}
		})
	}
}

func TestCompleteRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	cfg := agent.Config{
		BaseURL:        srv.URL + "/v1",
		APIKey:         "test-key",
		Model:          "gpt-4o-mini",
		MaxTokens:      512,
		Temperature:    0.2,
		RequestTimeout: "50ms",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	sys := agent.New(&cfg, slog.Default())

	start := time.Now()
	_, err := sys.Complete(context.Background(), agent.Request{System: "s", User: "u"})
	if err == nil {
		t.Fatal("Complete() should fail once the request timeout elapses")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Complete() took %v, request timeout not applied", elapsed)
	}
}

func TestModel(t *testing.T) {
	srv, _ := stubBackend(t, "ok")
	sys := newSystem(t, srv, "gpt-4o-mini")

	if got := sys.Model(); got != "gpt-4o-mini" {
		t.Errorf("Model() = %q, want gpt-4o-mini", got)
	}
}

func TestConfigValidation(t *testing.T) {
	t.Run("api key required", func(t *testing.T) {
		cfg := agent.Config{Model: "gpt-4o-mini"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("Finalize() should require an API key")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := agent.Config{APIKey: "k"}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error: %v", err)
		}

		if cfg.Model != "gpt-4o-mini" {
			t.Errorf("Model = %q, want gpt-4o-mini", cfg.Model)
		}
		if cfg.MaxTokens != 2048 {
			t.Errorf("MaxTokens = %d, want 2048", cfg.MaxTokens)
		}
	})
}
