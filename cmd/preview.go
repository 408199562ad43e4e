package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/cmaster/internal/grading"
	"github.com/abhisek/cmaster/internal/llm"
	"github.com/abhisek/cmaster/internal/problemgen"
	"github.com/abhisek/cmaster/internal/quiz"
	"github.com/abhisek/cmaster/internal/screens/summary"
	"github.com/abhisek/cmaster/internal/topics"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate a quiz and answer it on stdin (no database)",
	Long: `Generate a quiz and optionally answer and grade it on the command line.

This is a stateless developer tool: no database, no profile update, no
history. Useful for evaluating question and grading quality across
providers.`,
	RunE: runPreview,
}

func init() {
	f := previewCmd.Flags()
	def := quiz.DefaultConfig()
	f.Int("mcq", def.MCQCount, "Number of multiple-choice questions")
	f.Int("short", def.ShortCount, "Number of short-answer questions")
	f.Int("long", def.LongCount, "Number of long-answer questions")
	f.String("difficulty", string(def.Difficulty), "Difficulty: easy, medium or hard")
	f.StringSlice("topic", nil, "Restrict to a topic (repeatable; default all)")
	f.StringSlice("focus", nil, "Weak topic to emphasize (repeatable, at most 3)")
	f.Bool("json", false, "Print the generated questions as JSON and exit")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	f := cmd.Flags()
	mcq, _ := f.GetInt("mcq")
	short, _ := f.GetInt("short")
	long, _ := f.GetInt("long")
	difficulty, _ := f.GetString("difficulty")
	topicFlags, _ := f.GetStringSlice("topic")
	focus, _ := f.GetStringSlice("focus")
	asJSON, _ := f.GetBool("json")

	for _, t := range topicFlags {
		if !topics.IsKnown(t) {
			return fmt.Errorf("unknown topic %q: choose from %s", t, strings.Join(topics.Names(), ", "))
		}
	}
	if !quiz.Difficulty(difficulty).Valid() {
		return fmt.Errorf("invalid difficulty %q: must be easy, medium or hard", difficulty)
	}

	qcfg := quiz.Config{
		MCQCount:    mcq,
		ShortCount:  short,
		LongCount:   long,
		Difficulty:  quiz.Difficulty(difficulty),
		Topics:      topicFlags,
		FocusTopics: focus,
	}.Normalize()
	if err := qcfg.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	llmCfg := cfg.LLM
	if !llmCfg.Discover() {
		return errNoProvider
	}
	// No EventRepo: requests are not recorded.
	provider, err := llm.NewProvider(ctx, llmCfg, nil, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Generating %d questions with %s...\n", qcfg.Total(), provider.ModelID())
	questions, err := problemgen.New(provider, generatorConfig(cfg.Generation)).
		Generate(ctx, qcfg, qcfg.FocusTopics)
	if err != nil {
		return fmt.Errorf("generate quiz: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(questions)
	}

	in := bufio.NewReader(os.Stdin)
	var answers []quiz.UserAnswer
	for i, q := range questions {
		fmt.Printf("\n── Question %d/%d · %s · %s ──\n", i+1, len(questions), q.Type.Label(), q.Topic)
		fmt.Println(q.Text)
		for j, o := range q.Options {
			fmt.Printf("  %c) %s\n", 'A'+j, o)
		}

		a, ok, err := readAnswer(in, q)
		if err != nil {
			break
		}
		if !ok {
			fmt.Println("(skipped)")
			continue
		}
		answers = append(answers, a)
	}

	if len(answers) > 0 {
		fmt.Fprintln(os.Stderr, "\nGrading...")
		answers = grading.New(provider, graderConfig(cfg.Grading)).GradeAll(ctx, questions, answers)
	}
	fmt.Println()
	fmt.Println(summary.RenderResults(quiz.Summarize(questions, answers), 100))
	return nil
}

// readAnswer reads one answer. MCQs take a letter or number; short
// answers one line; long answers lines up to a lone ".". An empty answer
// skips the question.
func readAnswer(in *bufio.Reader, q quiz.Question) (quiz.UserAnswer, bool, error) {
	switch q.Type {
	case quiz.TypeMCQ:
		fmt.Print("\nYour choice: ")
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return quiz.UserAnswer{}, false, err
		}
		idx, ok := parseChoice(strings.TrimSpace(line), len(q.Options))
		if !ok {
			return quiz.UserAnswer{}, false, nil
		}
		return quiz.GradeChoice(q, idx), true, nil

	case quiz.TypeLong:
		fmt.Println("\nYour answer (end with a line containing only \".\"):")
		var lines []string
		for {
			line, err := in.ReadString('\n')
			trimmed := strings.TrimRight(line, "\r\n")
			if trimmed == "." {
				break
			}
			lines = append(lines, trimmed)
			if err != nil {
				if len(lines) == 1 && lines[0] == "" {
					return quiz.UserAnswer{}, false, err
				}
				break
			}
		}
		text := strings.TrimSpace(strings.Join(lines, "\n"))
		if text == "" {
			return quiz.UserAnswer{}, false, nil
		}
		return quiz.TextAnswer(q, text), true, nil

	default:
		fmt.Print("\nYour answer: ")
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return quiz.UserAnswer{}, false, err
		}
		text := strings.TrimSpace(line)
		if text == "" {
			return quiz.UserAnswer{}, false, nil
		}
		return quiz.TextAnswer(q, text), true, nil
	}
}

// parseChoice accepts "b", "B" or "2" for the second of n options.
func parseChoice(s string, n int) (int, bool) {
	if s == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i - 1, i >= 1 && i <= n
	}
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && int(c-'a') < n {
			return int(c - 'a'), true
		}
	}
	return 0, false
}
