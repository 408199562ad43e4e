package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect or reset the weak-topic profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show quiz totals and weak topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		profiles, done, err := openProfileBackend(cmd)
		if err != nil {
			return err
		}
		defer done()

		p, err := profiles.Load(ctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		printProfile(p)

		history, _ := cmd.Flags().GetInt("history")
		if history <= 0 {
			return nil
		}
		hs, ok := profiles.(*store.ProfileStore)
		if !ok {
			fmt.Println("\nProfile history is only kept by the sqlite backend.")
			return nil
		}
		past, err := hs.History(ctx, history+1)
		if err != nil {
			return err
		}
		// The newest snapshot is the current profile.
		if len(past) > 0 {
			past = past[1:]
		}
		fmt.Println()
		fmt.Println("Previous snapshots")
		fmt.Println(strings.Repeat("─", 48))
		for _, s := range past {
			fmt.Printf("%4d quizzes  avg %5.1f%%  weakest: %s\n",
				s.TotalQuizzes, s.AverageScore, strings.Join(profile.FocusTopics(s), ", "))
		}
		return nil
	},
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm("Reset quiz totals and weak topics?") {
			fmt.Println("Aborted.")
			return nil
		}

		profiles, done, err := openProfileBackend(cmd)
		if err != nil {
			return err
		}
		defer done()

		if r, ok := profiles.(profile.Resetter); ok {
			err = r.Reset(ctx)
		} else {
			err = profiles.Save(ctx, profile.New())
		}
		if err != nil {
			return fmt.Errorf("reset profile: %w", err)
		}
		fmt.Println("Profile reset.")
		return nil
	},
}

func init() {
	profileShowCmd.Flags().Int("history", 0, "Also show this many previous snapshots (sqlite backend)")
	profileResetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileResetCmd)
}

// openProfileBackend opens the configured profile store without building
// the LLM pipeline.
func openProfileBackend(cmd *cobra.Command) (profile.Store, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	profiles, closeProfiles, err := openProfiles(cmd.Context(), cfg.Profile, st)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	done := func() {
		if closeProfiles != nil {
			_ = closeProfiles()
		}
		st.Close()
	}
	return profiles, done, nil
}

func printProfile(p profile.UserProfile) {
	fmt.Printf("Quizzes taken:  %d\n", p.TotalQuizzes)
	if p.TotalQuizzes > 0 {
		fmt.Printf("Average score:  %.1f%%\n", p.AverageScore)
	} else {
		fmt.Println("Average score:  --")
	}

	ranked := profile.Ranked(p)
	if len(ranked) == 0 {
		fmt.Println("\nNo weak topics yet.")
		return
	}

	fmt.Println()
	fmt.Printf("%-28s  %s\n", "Weak topic", "Misses")
	fmt.Println(strings.Repeat("─", 40))
	for _, tc := range ranked {
		fmt.Printf("%-28s  %d\n", tc.Topic, tc.Count)
	}
	fmt.Printf("\nNext quiz focuses on: %s\n", strings.Join(profile.FocusTopics(p), ", "))
}

// confirm asks a yes/no question on stdin. Anything but y/yes is no.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

