package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/cmaster/internal/quiz"
	"github.com/abhisek/cmaster/internal/topics"
)

const systemPromptHeader = `You are a strict C programming examiner writing a revision quiz for an introductory C course.

Rules:
- Produce exactly the number of questions requested for each type, no more and no fewer.
- Every question belongs to one of the topics in the course material below; set "topic" to that topic's name exactly.
- mcq questions carry 3 to 5 plausible options and the zero-based index of the single correct option. Distractors reflect common student mistakes.
- short questions ask for a value, the output of a snippet, a one-line fix or a definition.
- long questions ask the student to write or trace a complete function or program, or to find and fix a bug.
- Put code listings in fenced code blocks. Use standard C99.
- modelAnswer is the canonical answer. For mcq it explains why the correct option is right.
- Number question ids q1, q2, ... in order.

Difficulty:
- easy: direct recall and single-step evaluation.
- medium: multi-step tracing, spotting a bug in a short function.
- hard: pointer arithmetic, nested loops, subtle off-by-one or precedence bugs.

Course material:
`

// systemPrompt returns the generation system prompt with the topic catalog
// embedded.
func systemPrompt() string {
	return systemPromptHeader + topics.Material()
}

// buildUserMessage renders the per-quiz request.
func buildUserMessage(cfg quiz.Config, weakTopics []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate exactly: %d MCQs, %d Short Answer, %d Long Answer.\n",
		cfg.MCQCount, cfg.ShortCount, cfg.LongCount)
	fmt.Fprintf(&b, "Difficulty: %s\n", cfg.Difficulty)

	if len(cfg.Topics) > 0 {
		fmt.Fprintf(&b, "\nCRITICAL: You MUST include questions on these topics: %s\n",
			strings.Join(cfg.Topics, ", "))
	}

	if len(weakTopics) > 0 {
		fmt.Fprintf(&b, "\nAlso consider these weak areas of the student: %s\n",
			strings.Join(weakTopics, ", "))
	}

	return b.String()
}

// buildRetryMessage asks the model to correct a rejected batch.
func buildRetryMessage(verr *ValidationError) string {
	return fmt.Sprintf("Your previous answer was rejected: %s. Regenerate the whole quiz and fix this.", verr.Message)
}
