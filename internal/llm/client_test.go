package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateParsesCandidateText(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "candidates": [
    {"content": {"parts": [{"text": "{\"action\":"}, {"text": " \"filter\"}"}]}}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{
		APIKey:     "demo",
		BaseURL:    ts.URL,
		Model:      "test-model",
		HTTPClient: ts.Client(),
	}

	out, err := c.Generate(context.Background(), "question", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != `{"action": "filter"}` {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if _, err := c.Generate(context.Background(), "question", nil); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestGenerateSurfacesHTTPFailure(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := &Client{APIKey: "demo", BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.Generate(context.Background(), "question", nil); err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}
