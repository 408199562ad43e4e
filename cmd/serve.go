package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/cmaster/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz session over a local JSON API",
	Long: `Serve the active quiz session to a browser frontend on a local address.

Generation and grading run in the background; clients poll GET /api/v1/quiz
for progress. Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.requireProvider(); err != nil {
			return err
		}

		addr := rt.cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		ctx := cmd.Context()
		srv := server.New(ctx, rt.session, rt.store.QuizRepo(), rt.logger)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from server.addr, 127.0.0.1:8740)")
}
