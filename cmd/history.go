package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/cmaster/internal/screens/summary"
	"github.com/abhisek/cmaster/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse finished quizzes",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.QuizRepo().List(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("No quizzes recorded yet.")
			return nil
		}

		fmt.Printf("%-8s  %-16s  %-6s  %-5s  %-5s  %-5s  %s\n",
			"ID", "Finished", "Level", "MCQ", "Short", "Long", "Score")
		fmt.Println(strings.Repeat("─", 64))
		for _, r := range recs {
			fmt.Printf("%-8s  %-16s  %-6s  %-5d  %-5d  %-5d  %.0f%%\n",
				truncate(r.ID, 8),
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				r.Config.Difficulty,
				r.Config.MCQCount, r.Config.ShortCount, r.Config.LongCount,
				r.MeanScore,
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the graded results of one quiz (an ID prefix is enough)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.QuizRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get quiz: %w", err)
		}
		if rec == nil {
			return fmt.Errorf("quiz %q not found", args[0])
		}

		fmt.Printf("Quiz %s, %s, %s\n\n", rec.ID,
			rec.Timestamp.Local().Format("2006-01-02 15:04"), rec.Config.Difficulty)
		fmt.Println(summary.RenderResults(rec.Results(), width))
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
	historyViewCmd.Flags().Int("width", 100, "Render width")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
