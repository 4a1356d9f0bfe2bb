package internal

import (
	"github.com/MrSnakeDoc/hassglue/internal/core"
	"github.com/MrSnakeDoc/hassglue/internal/list"
	"github.com/MrSnakeDoc/hassglue/internal/middleware"

	"github.com/spf13/cobra"
)

func NewUpdatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updates",
		Short: "Inspect Supervisor, Core, OS and add-on updates",
	}
	cmd.AddCommand(withSupervisor(newUpdatesListCmd)())
	return cmd
}

func newUpdatesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show installed and latest versions",
		Long: `Refreshes version data from the Supervisor and lists every update entity.
When the Supervisor is unreachable the last known state is shown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := middleware.Get[*core.Base](cmd, middleware.CtxKeyBase)
			if err != nil {
				return err
			}
			pending, err := cmd.Flags().GetBool("pending")
			if err != nil {
				return err
			}
			return list.New(base).Updates(cmd.Context(), pending)
		},
	}
	cmd.Flags().BoolP("pending", "p", false, "Only show subjects with an update available")
	return cmd
}
