package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/core"
	"github.com/MrSnakeDoc/hassglue/internal/globalconfig"

	"github.com/spf13/cobra"
)

// FlagConfig is the persistent flag overriding the config file location.
const FlagConfig = "config"

// RequireConfig loads the configuration and stores it, with its path, on the
// command context.
func RequireConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	explicit, _ := cmd.Flags().GetString(FlagConfig)
	path, err := globalconfig.ConfigPath(explicit)
	if err != nil {
		return err
	}

	cfg, err := globalconfig.Load(path)
	if err != nil {
		if errors.Is(err, globalconfig.ErrNoConfig) {
			return err
		}
		return fmt.Errorf("missing config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, CtxKeyConfig, cfg)
	ctx = context.WithValue(ctx, CtxKeyConfigPath, path)
	cmd.SetContext(ctx)

	return next(cmd, args)
}

// RequireBase builds the runtime from the loaded configuration. It must run
// after RequireConfig.
func RequireBase(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	cfg, err := Get[*config.Config](cmd, CtxKeyConfig)
	if err != nil {
		return err
	}
	base, err := core.NewBase(cfg, nil)
	if err != nil {
		return err
	}
	cmd.SetContext(context.WithValue(cmd.Context(), CtxKeyBase, base))
	return next(cmd, args)
}

// RequireSupervisor rejects commands that need update entities when no
// Supervisor token is configured. It must run after RequireBase.
func RequireSupervisor(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	base, err := Get[*core.Base](cmd, CtxKeyBase)
	if err != nil {
		return err
	}
	path, _ := Get[string](cmd, CtxKeyConfigPath)
	if err := base.RequireSupervisor(path); err != nil {
		return err
	}
	return next(cmd, args)
}
