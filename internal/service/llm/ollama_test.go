package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"humdum-app/internal/config"
)

func newOllamaTestConfig(baseURL string) *config.LLMConfig {
	return &config.LLMConfig{
		OllamaBaseURL: baseURL,
		Model:         "humdum_3.1",
		SystemPrompt:  "You are a mental health assistant named HumDum.",
		Timeout:       2 * time.Second,
	}
}

func TestOllamaReply_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path: got %s, want /api/chat", r.URL.Path)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "humdum_3.1" {
			t.Errorf("model: got %q, want humdum_3.1", req.Model)
		}
		if req.Stream {
			t.Error("stream must be disabled")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected message structure: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(chatResponse{
			Message: Message{Role: "assistant", Content: "That sounds difficult. Tell me more."},
			Done:    true,
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(newOllamaTestConfig(server.URL))

	reply, err := provider.Reply(context.Background(), "I feel overwhelmed")
	if err != nil {
		t.Fatalf("Reply returned error: %v", err)
	}
	if reply != "That sounds difficult. Tell me more." {
		t.Errorf("reply: got %q", reply)
	}
}

func TestOllamaReply_RetriesOnceThenSucceeds(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()

		if n == 1 {
			http.Error(w, "loading model", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(chatResponse{Message: Message{Role: "assistant", Content: "hello"}, Done: true})
	}))
	defer server.Close()

	provider := NewOllamaProvider(newOllamaTestConfig(server.URL))

	reply, err := provider.Reply(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Reply returned error after retry: %v", err)
	}
	if reply != "hello" {
		t.Errorf("reply: got %q, want hello", reply)
	}

	mu.Lock()
	defer mu.Unlock()
	if attempts != 2 {
		t.Errorf("attempts: got %d, want 2", attempts)
	}
}

func TestOllamaReply_UnavailableAfterRetry(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOllamaProvider(newOllamaTestConfig(server.URL))

	if _, err := provider.Reply(context.Background(), "hi"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if attempts != 2 {
		t.Errorf("attempts: got %d, want 2 (one retry, then give up)", attempts)
	}
}

func TestOllamaReply_EmptyContentIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{Message: Message{Role: "assistant", Content: ""}, Done: true})
	}))
	defer server.Close()

	provider := NewOllamaProvider(newOllamaTestConfig(server.URL))

	if _, err := provider.Reply(context.Background(), "hi"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for empty reply, got %v", err)
	}
}

func TestOllamaReply_CanceledContextStopsRetry(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOllamaProvider(newOllamaTestConfig(server.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := provider.Reply(ctx, "hi"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if attempts > 1 {
		t.Errorf("canceled context must not retry, got %d attempts", attempts)
	}
}

func TestParseProviderType(t *testing.T) {
	cases := []struct {
		in      string
		want    ProviderType
		wantErr bool
	}{
		{in: "ollama", want: ProviderOllama},
		{in: "", want: ProviderOllama},
		{in: "openai", want: ProviderOpenAI},
		{in: "bogus", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseProviderType(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseProviderType(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseProviderType(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseProviderType(%q): got %v, want %v", tc.in, got, tc.want)
		}
	}
}
