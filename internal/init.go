package internal

import (
	"os"

	"github.com/MrSnakeDoc/hassglue/internal/globalconfig"
	"github.com/MrSnakeDoc/hassglue/internal/initiator"
	"github.com/MrSnakeDoc/hassglue/internal/middleware"
	"github.com/MrSnakeDoc/hassglue/internal/prompter"

	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the hassglue configuration",
		Long: `Initialize hassglue configuration.
This command will:
- Create ~/.config/hassglue/config.yml (or the --config path) with defaults
- Ask for a Supervisor token unless --token or SUPERVISOR_TOKEN is set
- Create the state directory`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			explicit, _ := cmd.Flags().GetString(middleware.FlagConfig)
			path, err := globalconfig.ConfigPath(explicit)
			if err != nil {
				return err
			}

			url, _ := cmd.Flags().GetString("supervisor-url")
			token, _ := cmd.Flags().GetString("token")
			yes, _ := cmd.Flags().GetBool("yes")

			var p prompter.Prompter = prompter.New(os.Stdin, os.Stdout)
			if yes {
				p = prompter.Yes{}
			}
			return initiator.New(path, p).Execute(url, token)
		},
	}

	cmd.Flags().String("supervisor-url", "", "Supervisor API base URL (default http://supervisor)")
	cmd.Flags().String("token", "", "Supervisor API token")
	cmd.Flags().BoolP("yes", "y", false, "Do not prompt")
	return cmd
}
