package problemgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated batch; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxAttempts bounds regeneration after retryable validation failures.
	MaxAttempts int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&CountValidator{},
			&UniqueIDValidator{},
			&TopicCoverageValidator{},
		},
		MaxAttempts: 3,
		MaxTokens:   8192,
		Temperature: 0.4,
	}
}
