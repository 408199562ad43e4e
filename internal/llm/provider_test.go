package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCanedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestMockProvider_RespondHook(t *testing.T) {
	mock := NewMockProvider()
	mock.Respond = func(req Request) MockResponse {
		if req.System == "fail" {
			return MockResponse{Err: &ErrProviderUnavailable{}}
		}
		return MockResponse{Content: json.RawMessage(`{"echo":"` + req.System + `"}`)}
	}

	resp, err := mock.Generate(context.Background(), Request{System: "grade"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"echo":"grade"}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if _, err := mock.Generate(context.Background(), Request{System: "fail"}); err == nil {
		t.Fatal("expected error from hook")
	}
	if got := len(mock.Requests()); got != 2 {
		t.Fatalf("expected 2 recorded requests, got %d", got)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "quiz-gen")
	if p := PurposeFrom(ctx); p != "quiz-gen" {
		t.Fatalf("expected 'quiz-gen', got %q", p)
	}

	if id := QuizIDFrom(ctx); id != "" {
		t.Fatalf("expected no quiz id, got %q", id)
	}
	ctx = WithQuizID(ctx, "q-123")
	if id := QuizIDFrom(ctx); id != "q-123" {
		t.Fatalf("expected 'q-123', got %q", id)
	}
	if p := PurposeFrom(ctx); p != "quiz-gen" {
		t.Fatalf("purpose lost after WithQuizID: %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	retry := DefaultConfig().Retry
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gemini without key", Config{Provider: "gemini", Retry: retry}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g-test"}, Retry: retry}, false},
		{"anthropic without key", Config{Provider: "anthropic", Retry: retry}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}, Retry: retry}, false},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}, Retry: retry}, false},
		{"openrouter without key", Config{Provider: "openrouter", Retry: retry}, true},
		{"mock needs no key", Config{Provider: "mock", Retry: retry}, false},
		{"no provider", Config{Retry: retry}, true},
		{"zero attempts", Config{Provider: "mock"}, true},
		{"unknown provider", Config{Provider: "unknown", Retry: retry}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Discover(t *testing.T) {
	t.Run("explicit provider wins", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "g")
		cfg := DefaultConfig()
		cfg.Provider = "mock"
		if !cfg.Discover() || cfg.Provider != "mock" {
			t.Fatalf("provider = %q, want mock", cfg.Provider)
		}
	})

	t.Run("configured key beats env", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "g")
		cfg := DefaultConfig()
		cfg.Anthropic.APIKey = "a"
		if !cfg.Discover() || cfg.Provider != "anthropic" {
			t.Fatalf("provider = %q, want anthropic", cfg.Provider)
		}
	})

	t.Run("env priority", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "o")
		t.Setenv("ANTHROPIC_API_KEY", "a")
		t.Setenv("OPENROUTER_API_KEY", "")
		cfg := DefaultConfig()
		if !cfg.Discover() {
			t.Fatal("expected discovery to succeed")
		}
		if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "o" {
			t.Fatalf("got provider %q key %q", cfg.Provider, cfg.OpenAI.APIKey)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
			t.Setenv(k, "")
		}
		cfg := DefaultConfig()
		if cfg.Discover() {
			t.Fatalf("expected no provider, got %q", cfg.Provider)
		}
	})
}

func TestRequestValidate(t *testing.T) {
	user := []Message{{Role: RoleUser, Content: "q"}}
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"minimal", Request{Messages: user}, false},
		{"full", Request{System: "s", Messages: user, MaxTokens: 512, Temperature: 0.4, Schema: &Schema{Name: "grade"}}, false},
		{"no messages", Request{MaxTokens: 10}, true},
		{"negative max tokens", Request{Messages: user, MaxTokens: -1}, true},
		{"temperature too high", Request{Messages: user, Temperature: 1.5}, true},
		{"unnamed schema", Request{Messages: user, Schema: &Schema{}}, true},
		{"unknown role", Request{Messages: []Message{{Role: "system", Content: "x"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var rejected *ErrRejected
				if !errors.As(err, &rejected) || rejected.Status != 0 {
					t.Errorf("expected local ErrRejected, got %T (%v)", err, err)
				}
			}
		})
	}
}

func TestResponseDecode(t *testing.T) {
	resp := &Response{Content: json.RawMessage(`{"score": 7}`)}
	var out struct {
		Score int `json:"score"`
	}
	if err := resp.Decode(&out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Score != 7 {
		t.Errorf("score = %d, want 7", out.Score)
	}

	bad := &Response{Content: json.RawMessage(`not json`)}
	err := bad.Decode(&out)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
	if string(inv.Content) != "not json" {
		t.Errorf("content = %q", inv.Content)
	}
}

func TestUsageTotal(t *testing.T) {
	if got := (Usage{InputTokens: 3, OutputTokens: 4}).Total(); got != 7 {
		t.Errorf("Total() = %d, want 7", got)
	}
	if got := (Usage{InputTokens: 3, OutputTokens: 4, TotalTokens: 9}).Total(); got != 9 {
		t.Errorf("Total() = %d, want 9", got)
	}
}
