package ai

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bosocmputer/sar_caption_gemini/internal/common"
)

func TestMistralGenerateCaption(t *testing.T) {
	var got mistralChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %s", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"pixtral-12b-2409","choices":[{"message":{"role":"assistant","content":"  Marshland with low vegetation.  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	m := NewMistralProvider("test-key", "pixtral-12b-2409", srv.URL+"/", srv.Client())
	text, err := m.GenerateCaption(testContext(t), SystemPrompt, Image{MIMEType: "image/png", Data: []byte("png")})
	if err != nil {
		t.Fatalf("Unexpected error %s", err)
	}

	if expected, actual := "  Marshland with low vegetation.  ", text; expected != actual {
		t.Errorf("Expected %q, got %q", expected, actual)
	}
	if expected, actual := "pixtral-12b-2409", got.Model; expected != actual {
		t.Errorf("Expected model %q, got %q", expected, actual)
	}
	if len(got.Messages) != 1 || len(got.Messages[0].Content) != 2 {
		t.Fatalf("Expected one message with two parts, got %+v", got.Messages)
	}
	if got.Messages[0].Content[0].Text != SystemPrompt {
		t.Errorf("Expected prompt as first part")
	}
	if expected, actual := "data:image/png;base64,cG5n", got.Messages[0].Content[1].ImageURL; expected != actual {
		t.Errorf("Expected image url %q, got %q", expected, actual)
	}
}

func TestMistralErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"nested error", http.StatusUnauthorized, `{"error":{"message":"Unauthorized"}}`, "Unauthorized"},
		{"top level message", http.StatusTooManyRequests, `{"object":"error","message":"Requests rate limit exceeded"}`, "rate limit"},
		{"plain body", http.StatusBadGateway, `upstream down`, "upstream down"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`, "empty response"},
		{"bad json", http.StatusOK, `{`, "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			m := NewMistralProvider("key", "pixtral-12b-2409", srv.URL, srv.Client())
			_, err := m.GenerateCaption(testContext(t), SystemPrompt, Image{Data: []byte("x")})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestMistralMissingKey(t *testing.T) {
	m := NewMistralProvider("", "pixtral-12b-2409", "http://127.0.0.1:0", nil)
	_, err := m.GenerateCaption(testContext(t), SystemPrompt, Image{})
	if err == nil || !strings.Contains(err.Error(), "MISTRAL_API_KEY") {
		t.Errorf("Expected missing key error, got %v", err)
	}
}

func TestMistralLogsAndTokensUnderRequestContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"Coastal dunes."}}],"usage":{"prompt_tokens":1500,"completion_tokens":12,"total_tokens":1512}}`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	rc := common.NewRequestContext("mistral")
	ctx := common.WithRequestContext(testContext(t), rc)

	m := NewMistralProvider("key", "pixtral-12b-2409", srv.URL, srv.Client())
	if _, err := m.GenerateCaption(ctx, SystemPrompt, Image{MIMEType: "image/png", Data: []byte("png")}); err != nil {
		t.Fatalf("Unexpected error %s", err)
	}

	if expected, actual := (common.TokenUsage{InputTokens: 1500, OutputTokens: 12, TotalTokens: 1512}), rc.TotalTokens; expected != actual {
		t.Errorf("Expected %+v, got %+v", expected, actual)
	}
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if !strings.Contains(line, "["+rc.RequestID+"]") {
			t.Errorf("Expected request id prefix on log line %q", line)
		}
	}
}
