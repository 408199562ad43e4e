package problemgen

import "github.com/abhisek/cmaster/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A batch of C programming revision questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Identifier unique within this quiz, e.g. q1",
						},
						"type": map[string]any{
							"type":        "string",
							"enum":        []any{"mcq", "short", "long"},
							"description": "mcq: pick one option; short: a value, output or one-line fix; long: code or pseudocode",
						},
						"topic": map[string]any{
							"type":        "string",
							"description": "One of the revision topic names",
						},
						"text": map[string]any{
							"type":        "string",
							"description": "The question. Code listings go in fenced blocks",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "MCQ only: the answer options",
						},
						"correctOptionIndex": map[string]any{
							"type":        "integer",
							"description": "MCQ only: zero-based index of the correct option",
						},
						"modelAnswer": map[string]any{
							"type":        "string",
							"description": "Canonical answer; for MCQ, an explanation of why the correct option is right",
						},
					},
					"required": []any{"id", "type", "topic", "text", "modelAnswer"},
				},
			},
		},
		"required": []any{"questions"},
	},
}
