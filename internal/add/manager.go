package add

import (
	"fmt"

	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/errs"
	"github.com/MrSnakeDoc/hassglue/internal/filesize"
	"github.com/MrSnakeDoc/hassglue/internal/globalconfig"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
)

type Adder struct {
	Config     *config.Config
	ConfigPath string
}

func New(cfg *config.Config, configPath string) *Adder {
	return &Adder{Config: cfg, ConfigPath: configPath}
}

// Execute registers every path that names a regular file. Invalid paths are
// skipped with a warning; the config is saved once if anything was added.
func (a *Adder) Execute(paths []string) ([]config.FileEntry, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no file path provided, please specify at least one path")
	}

	var added []config.FileEntry
	for _, p := range paths {
		abs, err := filesize.ValidatePath(p)
		if err != nil {
			logger.Warn("Skipping %s: %v", p, err)
			continue
		}

		if existing, found := a.Config.FindFile(abs); found {
			logger.Info("%s", errs.Msg(errs.DuplicateFileEntry, abs, existing.ID))
			continue
		}

		entry, err := a.Config.AddFile(abs)
		if err != nil {
			return added, err
		}
		added = append(added, entry)
		logger.Success("Monitoring %s (entry %s)", abs, entry.ID)
	}

	if len(added) == 0 {
		return nil, nil
	}
	if err := globalconfig.Save(a.Config, a.ConfigPath); err != nil {
		return added, err
	}
	logger.Success("Configuration updated successfully")
	return added, nil
}
