package internal

import (
	"os"

	"github.com/MrSnakeDoc/hassglue/internal/core"
	"github.com/MrSnakeDoc/hassglue/internal/errs"
	"github.com/MrSnakeDoc/hassglue/internal/install"
	"github.com/MrSnakeDoc/hassglue/internal/middleware"
	"github.com/MrSnakeDoc/hassglue/internal/prompter"

	"github.com/spf13/cobra"
)

func NewInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [entity ids...]",
		Short: "Install pending updates through the Supervisor",
		Long: `Installs updates for the given update entities, or every pending update
with --all. The "update." prefix of entity ids may be omitted.

Examples:
    hassglue install update.home_assistant_core_update --backup
    hassglue install home_assistant_core_update --version 2022.5.0
    hassglue install core_ssh_update
    hassglue install --all --yes`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			version, _ := cmd.Flags().GetString("version")
			switch {
			case all && len(args) > 0:
				return middleware.FlagComboError(errs.AllWithNamedEntity, args[0])
			case !all && len(args) == 0:
				return middleware.FlagComboError(errs.ProvideEntityOrAll)
			case all && version != "":
				return middleware.FlagComboError(errs.VersionWithAll)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := middleware.Get[*core.Base](cmd, middleware.CtxKeyBase)
			if err != nil {
				return err
			}

			all, err := cmd.Flags().GetBool("all")
			if err != nil {
				return err
			}
			version, err := cmd.Flags().GetString("version")
			if err != nil {
				return err
			}
			backup, err := cmd.Flags().GetBool("backup")
			if err != nil {
				return err
			}
			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return err
			}

			var p prompter.Prompter = prompter.New(os.Stdin, os.Stdout)
			if yes {
				p = prompter.Yes{}
			}

			return install.New(base, p).Execute(cmd.Context(), install.Options{
				IDs:     args,
				All:     all,
				Version: version,
				Backup:  backup,
			})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Install every pending update")
	cmd.Flags().String("version", "", "Install a specific version (Core and OS only)")
	cmd.Flags().BoolP("backup", "b", false, "Take a backup before updating (Core and add-ons only)")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}
