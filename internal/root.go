package internal

import (
	"context"
	"os"
	"strings"

	"github.com/MrSnakeDoc/hassglue/internal/checker"
	"github.com/MrSnakeDoc/hassglue/internal/core"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/middleware"
	"github.com/MrSnakeDoc/hassglue/internal/notifier"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hassglue",
		Short: "File size sensors and Supervisor update entities for Home Assistant",
		Long: `hassglue watches file sizes and tracks Home Assistant Supervisor, Core,
Operating System and add-on versions, exposing both as entities over a small
HTTP API. Updates can be installed from the command line or through the API.`,
		Example: `hassglue files add /backup/home-assistant_v2.db
hassglue updates list
hassglue install update.home_assistant_core_update --backup
hassglue serve`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.ConfigureLoggerFromFlags()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			versionFlag, _ := cmd.Flags().GetBool("version")
			if versionFlag {
				checker.PrintVersion()
				return nil
			}
			return cmd.Help()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			noUpdate, _ := cmd.Flags().GetBool("no-update-check")
			envNoUpdate := strings.TrimSpace(os.Getenv("HASSGLUE_NO_UPDATE_CHECK")) == "1"

			switch cmd.Name() {
			case "install", "serve", "init", "help", "completion", "hassglue":
				return nil
			}
			if cmd.HasParent() && cmd.Parent().Name() == "updates" {
				return nil
			}
			if noUpdate || envNoUpdate || logger.FlagJSON {
				return nil
			}

			base, err := middleware.Get[*core.Base](cmd, middleware.CtxKeyBase)
			if err != nil || !base.HasSupervisor() {
				return nil
			}
			if err := base.Load(context.Background()); err != nil {
				logger.Debug("no cached update state: %v", err)
				return nil
			}
			notifier.DisplayUpdateNotification(base.Updates())
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")
	cmd.PersistentFlags().String(middleware.FlagConfig, "", "Path to the config file (default ~/.config/hassglue/config.yml)")
	cmd.PersistentFlags().Bool("no-update-check", false, "Do not print the pending updates box")
	cmd.PersistentFlags().CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Verbose output (repeat for more)")
	cmd.PersistentFlags().BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().BoolVarP(&logger.FlagSilent, "silent", "s", false, "Print nothing")
	cmd.PersistentFlags().BoolVar(&logger.FlagJSON, "json", false, "Structured JSON logs")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	root := NewRootCmd()

	if os.Getenv("COMP_LINE") != "" ||
		(len(os.Args) > 1 && strings.HasPrefix(os.Args[1], "__complete")) {
		return root.Execute()
	}

	if err := root.Execute(); err != nil {
		logger.Debug("Failed to execute root command: %v", err)
		return err
	}
	return nil
}
