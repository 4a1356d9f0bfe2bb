package internal

import (
	"github.com/MrSnakeDoc/hassglue/internal/middleware"
	"github.com/spf13/cobra"
)

var (
	withBase       = middleware.UseMiddlewareChain(middleware.RequireConfig, middleware.RequireBase)
	withSupervisor = middleware.UseMiddlewareChain(middleware.RequireConfig, middleware.RequireBase, middleware.RequireSupervisor)
)

var defaultCommands = []middleware.CommandFactory{
	NewInitCmd,
	NewFilesCmd,
	NewUpdatesCmd,
	withSupervisor(NewInstallCmd),
	withBase(NewServeCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
