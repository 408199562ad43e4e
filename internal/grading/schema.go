package grading

import "github.com/abhisek/cmaster/internal/llm"

// GradeSchema defines the JSON schema for grading responses.
var GradeSchema = &llm.Schema{
	Name:        "answer-grade",
	Description: "Examiner verdict on one student answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"description": "Score from 0 to 100",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Short feedback for the student",
			},
			"modelAnswer": map[string]any{
				"type":        "string",
				"description": "The canonical correct answer",
			},
		},
		"required":             []any{"score", "feedback", "modelAnswer"},
		"additionalProperties": false,
	},
}
