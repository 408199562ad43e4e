package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash":      "gemini-2.5-flash",
	"gemini-flash-lite": "gemini-2.5-flash-lite",
	"gemini-pro":        "gemini-2.5-pro",
}

// GeminiProvider implements Provider using the Google Gemini SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := resolveModel(cfg.Model, geminiModels)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	}

	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}

	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	// Configure structured output.
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = buildGeminiSchema(req.Schema.Definition)
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, buildGeminiContents(req.Messages), config)
	if err != nil {
		return nil, mapGeminiError(err)
	}
	if err := geminiBlocked(result); err != nil {
		return nil, err
	}

	stop := mapGeminiStopReason(result)
	content, err := checkStructured(req.Schema, json.RawMessage(result.Text()), stop)
	if err != nil {
		return nil, err
	}

	return &Response{
		Content:    content,
		Model:      p.model,
		StopReason: stop,
		Usage:      mapGeminiUsage(result.UsageMetadata),
	}, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

func buildGeminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, len(msgs))
	for i, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		out[i] = &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		}
	}
	return out
}

// buildGeminiSchema converts a JSON Schema definition map to a
// genai.Schema. Gemini emits object properties in PropertyOrdering, so
// required fields come first in their declared order, then the rest by
// name. Quiz questions then read id, type, topic, text before the answer.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{
		Required: stringList(def["required"]),
		Enum:     stringList(def["enum"]),
	}
	if t, ok := def["type"].(string); ok {
		schema.Type = mapGeminiType(t)
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}
	if v, ok := numberField(def, "minimum"); ok {
		schema.Minimum = &v
	}
	if v, ok := numberField(def, "maximum"); ok {
		schema.Maximum = &v
	}
	if v, ok := numberField(def, "minItems"); ok {
		n := int64(v)
		schema.MinItems = &n
	}
	if v, ok := numberField(def, "maxItems"); ok {
		n := int64(v)
		schema.MaxItems = &n
	}
	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildGeminiSchema(items)
	}

	props, ok := def["properties"].(map[string]any)
	if !ok {
		return schema
	}
	schema.Properties = make(map[string]*genai.Schema, len(props))
	var rest []string
	for name, v := range props {
		if propDef, ok := v.(map[string]any); ok {
			schema.Properties[name] = buildGeminiSchema(propDef)
			if !slices.Contains(schema.Required, name) {
				rest = append(rest, name)
			}
		}
	}
	slices.Sort(rest)
	for _, name := range schema.Required {
		if _, ok := schema.Properties[name]; ok {
			schema.PropertyOrdering = append(schema.PropertyOrdering, name)
		}
	}
	schema.PropertyOrdering = append(schema.PropertyOrdering, rest...)
	return schema
}

func stringList(v any) []string {
	list, _ := v.([]any)
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func numberField(def map[string]any, key string) (float64, bool) {
	switch v := def[key].(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func mapGeminiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func mapGeminiStopReason(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) == 0 {
		return "error"
	}
	switch result.Candidates[0].FinishReason {
	case genai.FinishReasonMaxTokens:
		return "max_tokens"
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist:
		return "error"
	default:
		return "end"
	}
}

// geminiBlocked reports a reply Gemini withheld. A blocked prompt will be
// blocked again, so it is rejected; a blocked candidate may pass on retry.
func geminiBlocked(result *genai.GenerateContentResponse) error {
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return &ErrRejected{Err: fmt.Errorf("gemini blocked the prompt: %s", fb.BlockReason)}
	}
	if len(result.Candidates) == 0 {
		return &ErrInvalidResponse{Err: errors.New("gemini returned no candidates")}
	}
	if mapGeminiStopReason(result) == "error" {
		return &ErrInvalidResponse{
			Err: fmt.Errorf("gemini stopped the reply: %s", result.Candidates[0].FinishReason),
		}
	}
	return nil
}

func mapGeminiUsage(u *genai.GenerateContentResponseUsageMetadata) Usage {
	if u == nil {
		return Usage{}
	}
	return Usage{
		InputTokens:  int(u.PromptTokenCount),
		OutputTokens: int(u.CandidatesTokenCount),
		TotalTokens:  int(u.TotalTokenCount),
	}
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
