package initiator

import (
	"fmt"
	"os"

	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/globalconfig"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/prompter"
	"github.com/MrSnakeDoc/hassglue/internal/utils"
	"github.com/MrSnakeDoc/hassglue/internal/utils/pathutils"
)

type Initiator struct {
	ConfigPath string
	Prompter   prompter.Prompter
}

// New returns an initiator writing to configPath. A nil prompter never asks
// for a token.
func New(configPath string, p prompter.Prompter) *Initiator {
	return &Initiator{ConfigPath: configPath, Prompter: p}
}

// Execute writes a default configuration unless one already exists, then
// makes sure the state directory is there.
func (i *Initiator) Execute(supervisorURL, token string) error {
	if ok, _ := utils.FileExists(i.ConfigPath); ok {
		logger.Info("Configuration already exists at %s", i.ConfigPath)
		return nil
	}

	cfg := config.Default()
	if supervisorURL != "" {
		cfg.Supervisor.URL = supervisorURL
	}

	if token == "" && os.Getenv(globalconfig.EnvSupervisorToken) == "" && i.Prompter != nil {
		answer, err := i.Prompter.Prompt("Supervisor token (leave empty to use SUPERVISOR_TOKEN): ")
		if err != nil {
			logger.Debug("token prompt failed: %v", err)
		}
		token = answer
	}
	cfg.Supervisor.Token = token

	stateDir, err := pathutils.ToAbsolutePath(cfg.StateDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	cfg.StateDir = stateDir

	if err := globalconfig.Save(&cfg, i.ConfigPath); err != nil {
		return err
	}
	logger.Success("Created %s", i.ConfigPath)
	return nil
}
