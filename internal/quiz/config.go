package quiz

import (
	"errors"
	"slices"

	"github.com/abhisek/cmaster/internal/topics"
)

// Difficulty is the requested level of a quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties returns the levels from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Valid reports whether d is a known level.
func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties(), d)
}

// Per-type count limits offered by the config form.
const (
	MaxMCQ   = 20
	MaxShort = 10
	MaxLong  = 5

	// MaxFocusTopics caps the weak topics passed to the generator.
	MaxFocusTopics = 3
)

// ErrEmptyQuiz is returned by Validate when no question is requested.
var ErrEmptyQuiz = errors.New("quiz must request at least one question")

// Config is the set of choices a student makes before a quiz. It is
// treated as immutable once handed to generation.
type Config struct {
	MCQCount    int        `json:"mcqCount"`
	ShortCount  int        `json:"shortCount"`
	LongCount   int        `json:"longCount"`
	Difficulty  Difficulty `json:"difficulty"`
	Topics      []string   `json:"topics"`
	FocusTopics []string   `json:"focusTopics"`
}

// DefaultConfig returns three MCQs, two short and one long answer at
// medium difficulty.
func DefaultConfig() Config {
	return Config{
		MCQCount:   3,
		ShortCount: 2,
		LongCount:  1,
		Difficulty: DifficultyMedium,
	}
}

// Total returns the number of questions requested.
func (c Config) Total() int {
	return c.MCQCount + c.ShortCount + c.LongCount
}

// Count returns the requested count for a question type.
func (c Config) Count(t QuestionType) int {
	switch t {
	case TypeMCQ:
		return c.MCQCount
	case TypeShort:
		return c.ShortCount
	case TypeLong:
		return c.LongCount
	default:
		return 0
	}
}

// Normalize returns a copy with counts clamped to their limits, an unknown
// difficulty replaced by medium, topics restricted to the catalog and at
// most MaxFocusTopics focus topics.
func (c Config) Normalize() Config {
	out := Config{
		MCQCount:   clamp(c.MCQCount, 0, MaxMCQ),
		ShortCount: clamp(c.ShortCount, 0, MaxShort),
		LongCount:  clamp(c.LongCount, 0, MaxLong),
		Difficulty: c.Difficulty,
		Topics:     topics.Filter(c.Topics),
	}
	if !out.Difficulty.Valid() {
		out.Difficulty = DifficultyMedium
	}

	// Focus topics keep their ranking order.
	for _, t := range c.FocusTopics {
		if len(out.FocusTopics) == MaxFocusTopics {
			break
		}
		if t != "" && !slices.Contains(out.FocusTopics, t) {
			out.FocusTopics = append(out.FocusTopics, t)
		}
	}
	return out
}

// Validate rejects a configuration that requests nothing.
func (c Config) Validate() error {
	if c.Total() <= 0 {
		return ErrEmptyQuiz
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
