package remove

import (
	"fmt"

	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/globalconfig"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/utils/pathutils"
)

type Remover struct {
	Config     *config.Config
	ConfigPath string
}

func New(cfg *config.Config, configPath string) *Remover {
	return &Remover{Config: cfg, ConfigPath: configPath}
}

// Execute stops monitoring each entry given by id or path. Unknown targets
// are reported and skipped.
func (r *Remover) Execute(targets []string) error {
	if len(targets) == 0 {
		return fmt.Errorf("no entry provided, please specify at least one id or path")
	}

	removed := 0
	for _, t := range targets {
		if r.Config.RemoveFile(t) {
			removed++
			logger.Success("Removed %s from configuration", t)
			continue
		}
		if abs, err := pathutils.ToAbsolutePath(t); err == nil && r.Config.RemoveFile(abs) {
			removed++
			logger.Success("Removed %s from configuration", abs)
			continue
		}
		logger.Info("%s is not monitored", t)
	}

	if removed == 0 {
		return nil
	}
	if err := globalconfig.Save(r.Config, r.ConfigPath); err != nil {
		return err
	}
	logger.Success("Configuration updated successfully")
	return nil
}
