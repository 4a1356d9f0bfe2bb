package globalconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/utils"
	"github.com/MrSnakeDoc/hassglue/internal/utils/pathutils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/hassglue"
	configFile = "config.yml"
	envFile    = ".env"

	EnvSupervisorToken = "SUPERVISOR_TOKEN"
	EnvSupervisorURL   = "HASSGLUE_SUPERVISOR_URL"
	EnvListen          = "HASSGLUE_LISTEN"
	EnvConfigPath      = "HASSGLUE_CONFIG"
)

var ErrNoConfig = errors.New("no configuration found. Please run 'hassglue init' first")

func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath resolves the config file location: explicit flag, then
// HASSGLUE_CONFIG, then ~/.config/hassglue/config.yml.
func ConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return pathutils.ToAbsolutePath(explicit)
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfigPath)); env != "" {
		return pathutils.ToAbsolutePath(env)
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func Load(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrNoConfig
	}

	cfg := config.Default()
	if err := utils.FileReader(path, utils.FileTypeYAML, &cfg); err != nil {
		return nil, err
	}

	loadDotEnv(filepath.Join(filepath.Dir(path), envFile))
	applyEnv(&cfg)

	stateDir, err := pathutils.ToAbsolutePath(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state dir: %w", err)
	}
	cfg.StateDir = stateDir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(cfg *config.Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *cfg
	homePath, err := pathutils.ToHomePathFormat(out.StateDir)
	if err != nil {
		return fmt.Errorf("failed to convert to home path format: %w", err)
	}
	out.StateDir = homePath

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file may carry the Supervisor token.
	if err := utils.WriteFileAtomic(path+".tmp", path, bytes.NewReader(data), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.Warn("failed to load %s: %v", p, err)
			continue
		}
		logger.Debug("loaded environment overrides from %s", p)
	}
	// .env in the working directory, if any
	_ = godotenv.Load()
}

func applyEnv(cfg *config.Config) {
	if v := strings.TrimSpace(os.Getenv(EnvSupervisorToken)); v != "" {
		cfg.Supervisor.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSupervisorURL)); v != "" {
		cfg.Supervisor.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvListen)); v != "" {
		cfg.API.Listen = v
	}
}
