package llm

import (
	"errors"
	"slices"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-flash-lite", "gemini-2.5-flash-lite"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":  map[string]any{"type": "string"},
			"score": map[string]any{"type": "integer"},
			"type":  map[string]any{"type": "string", "enum": []any{"mcq", "short", "long"}},
			"options": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []any{"text", "score"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["text"].Type != "STRING" {
		t.Fatalf("expected STRING for text, got %s", schema.Properties["text"].Type)
	}
	if schema.Properties["score"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for score, got %s", schema.Properties["score"].Type)
	}
	if len(schema.Properties["type"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["type"].Enum))
	}
	if schema.Properties["options"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for options, got %s", schema.Properties["options"].Type)
	}
	if schema.Properties["options"].Items.Type != "INTEGER" {
		t.Fatalf("expected INTEGER for options items, got %s", schema.Properties["options"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestBuildGeminiSchema_OrderingAndBounds(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"modelAnswer": map[string]any{"type": "string"},
			"topic":       map[string]any{"type": "string"},
			"id":          map[string]any{"type": "string"},
			"options":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 2, "maxItems": 6},
			"score":       map[string]any{"type": "integer", "minimum": 0, "maximum": 100.0},
		},
		"required": []any{"id", "topic", "modelAnswer"},
	}

	schema := buildGeminiSchema(def)

	want := []string{"id", "topic", "modelAnswer", "options", "score"}
	if !slices.Equal(schema.PropertyOrdering, want) {
		t.Errorf("PropertyOrdering = %v, want %v", schema.PropertyOrdering, want)
	}
	score := schema.Properties["score"]
	if score.Minimum == nil || *score.Minimum != 0 || score.Maximum == nil || *score.Maximum != 100 {
		t.Errorf("score bounds = %v..%v", score.Minimum, score.Maximum)
	}
	opts := schema.Properties["options"]
	if opts.MinItems == nil || *opts.MinItems != 2 || opts.MaxItems == nil || *opts.MaxItems != 6 {
		t.Errorf("options item bounds = %v..%v", opts.MinItems, opts.MaxItems)
	}
	if opts.PropertyOrdering != nil {
		t.Errorf("non-object schema got PropertyOrdering %v", opts.PropertyOrdering)
	}
}

func TestGeminiBlocked(t *testing.T) {
	tests := []struct {
		name     string
		result   *genai.GenerateContentResponse
		wantStop string
		check    func(error) bool
	}{
		{
			name:     "normal stop",
			result:   &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}}},
			wantStop: "end",
			check:    func(err error) bool { return err == nil },
		},
		{
			name:     "truncated",
			result:   &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}}},
			wantStop: "max_tokens",
			check:    func(err error) bool { return err == nil },
		},
		{
			name:     "safety stop",
			result:   &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}},
			wantStop: "error",
			check: func(err error) bool {
				var inv *ErrInvalidResponse
				return errors.As(err, &inv)
			},
		},
		{
			name: "blocked prompt",
			result: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			wantStop: "error",
			check: func(err error) bool {
				var rej *ErrRejected
				return errors.As(err, &rej)
			},
		},
		{
			name:     "no candidates",
			result:   &genai.GenerateContentResponse{},
			wantStop: "error",
			check: func(err error) bool {
				var inv *ErrInvalidResponse
				return errors.As(err, &inv)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapGeminiStopReason(tt.result); got != tt.wantStop {
				t.Errorf("stop reason = %q, want %q", got, tt.wantStop)
			}
			if err := geminiBlocked(tt.result); !tt.check(err) {
				t.Errorf("geminiBlocked() = %T (%v)", err, err)
			}
		})
	}
}

func TestMapGeminiUsage(t *testing.T) {
	if got := mapGeminiUsage(nil); got != (Usage{}) {
		t.Errorf("nil usage = %+v", got)
	}
	got := mapGeminiUsage(&genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 4})
	if got.InputTokens != 10 || got.OutputTokens != 4 || got.Total() != 14 {
		t.Errorf("usage = %+v", got)
	}
}
