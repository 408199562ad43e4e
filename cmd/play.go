package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/cmaster/internal/app"
	"github.com/abhisek/cmaster/internal/screens/home"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the quiz TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetBool("skip-intro")
		return runPlay(cmd, skip)
	},
}

func init() {
	playCmd.Flags().Bool("skip-intro", false, "Go straight to the home screen")
}

// runPlay builds the runtime and launches the TUI. Without a provider the
// app still starts so the profile and history stay reachable.
func runPlay(cmd *cobra.Command, skipIntro bool) error {
	rt, err := buildRuntime(cmd, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	deps := home.Deps{
		Session:  rt.session,
		History:  rt.store.QuizRepo(),
		LLMReady: rt.provider != nil,
	}
	return app.Run(cmd.Context(), deps, app.Options{SkipWelcome: skipIntro})
}
