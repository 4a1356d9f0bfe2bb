package internal

import (
	"github.com/MrSnakeDoc/hassglue/internal/add"
	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/core"
	"github.com/MrSnakeDoc/hassglue/internal/list"
	"github.com/MrSnakeDoc/hassglue/internal/middleware"
	"github.com/MrSnakeDoc/hassglue/internal/remove"

	"github.com/spf13/cobra"
)

func NewFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage monitored files",
	}
	cmd.AddCommand(
		withConfig(newFilesAddCmd)(),
		withConfig(newFilesRemoveCmd)(),
		withBase(newFilesListCmd)(),
	)
	return cmd
}

var withConfig = middleware.UseMiddlewareChain(middleware.RequireConfig)

func newFilesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Monitor the size of one or more files",
		Long: `Registers files to monitor. Paths that do not name a regular file are
skipped with a warning.

Examples:
  hassglue files add /backup/home-assistant_v2.db
  hassglue files add ~/logs/*.log`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			path, err := middleware.Get[string](cmd, middleware.CtxKeyConfigPath)
			if err != nil {
				return err
			}
			_, err = add.New(cfg, path).Execute(args)
			return err
		},
	}
}

func newFilesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|path>...",
		Aliases: []string{"rm"},
		Short:   "Stop monitoring files",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			path, err := middleware.Get[string](cmd, middleware.CtxKeyConfigPath)
			if err != nil {
				return err
			}
			return remove.New(cfg, path).Execute(args)
		},
	}
}

func newFilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"probe"},
		Short:   "Probe monitored files and show their size",
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := middleware.Get[*core.Base](cmd, middleware.CtxKeyBase)
			if err != nil {
				return err
			}
			return list.New(base).Files(cmd.Context())
		},
	}
}
