package internal

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/MrSnakeDoc/hassglue/internal/core"
	"github.com/MrSnakeDoc/hassglue/internal/daemon"
	"github.com/MrSnakeDoc/hassglue/internal/middleware"

	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the poll loop and the HTTP API",
		Long: `Runs until interrupted: polls the Supervisor and the monitored files and
serves entity state, install requests and Prometheus metrics over HTTP.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := middleware.Get[*core.Base](cmd, middleware.CtxKeyBase)
			if err != nil {
				return err
			}
			listen, err := cmd.Flags().GetString("listen")
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return daemon.New(base, listen).Execute(ctx)
		},
	}

	cmd.Flags().StringP("listen", "l", "", "Listen address (default from config, 127.0.0.1:8787)")
	return cmd
}
