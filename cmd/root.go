package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/cmaster/internal/config"
	"github.com/abhisek/cmaster/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "cmaster",
	Short: "AI revision quizzes for C programming",
	Long: `cmaster generates C programming revision quizzes with an LLM, grades
free-text answers, and keeps a profile of weak topics that steers the
next quiz.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, false)
	},
}

// Execute runs the root command under ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/cmaster/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides CMASTER_DB env var)")
	pf.String("provider", "", "LLM provider: gemini, openai, anthropic, openrouter or mock")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagBindings maps persistent flags to their config keys.
var flagBindings = map[string]string{
	"db":        "db.path",
	"provider":  "llm.provider",
	"log-level": "log.level",
}

// loadConfig merges defaults, the config file, CMASTER_* variables and the
// flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	for name, key := range flagBindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}
	path, _ := cmd.Flags().GetString("config")
	return config.Load(v, path)
}

// resolveDBPath returns the database path from the config (--db,
// CMASTER_DB_PATH or the file), then CMASTER_DB, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.DB.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the sqlite store for commands that only read it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
