package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive structured JSON.
type Provider interface {
	// Generate sends a prompt to the LLM and returns a structured response.
	// The request's Schema field, when set, instructs the provider to return
	// JSON conforming to that schema. The response Content will be the
	// validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. Quiz generation and grading
	// are single-turn, so this usually holds one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	// When nil, the response Content is raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0. Generation uses
	// 0.4, grading 0.2. Zero leaves the provider default in place.
	Temperature float64
}

// Validate reports requests no provider can serve. Base providers call it
// before touching the network so a bad request never costs a round trip.
func (r Request) Validate() error {
	var problem error
	switch {
	case len(r.Messages) == 0:
		problem = errors.New("no messages")
	case r.MaxTokens < 0:
		problem = fmt.Errorf("negative max tokens %d", r.MaxTokens)
	case r.Temperature < 0 || r.Temperature > 1:
		problem = fmt.Errorf("temperature %.2f outside [0, 1]", r.Temperature)
	case r.Schema != nil && r.Schema.Name == "":
		problem = errors.New("schema has no name")
	}
	if problem == nil {
		for i, m := range r.Messages {
			if m.Role != RoleUser && m.Role != RoleAssistant {
				problem = fmt.Errorf("message %d has unknown role %q", i, m.Role)
				break
			}
		}
	}
	if problem != nil {
		return &ErrRejected{Err: problem}
	}
	return nil
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// validation). Kebab-case, e.g. "quiz-questions".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object. When no Schema was
	// provided, this is the raw text response wrapped as a JSON string.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Decode unmarshals the response content into v. A decode failure is
// reported as ErrInvalidResponse so the caller sees the raw content.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	return nil
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Total returns TotalTokens, or the sum of input and output when the
// provider did not report a total.
func (u Usage) Total() int {
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.InputTokens + u.OutputTokens
}
