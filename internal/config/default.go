package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	Supervisor SupervisorConfig `yaml:"supervisor"`
	Poll       PollConfig       `yaml:"poll"`
	API        APIConfig        `yaml:"api"`
	StateDir   string           `yaml:"state_dir,omitempty"`
	Files      []FileEntry      `yaml:"files,omitempty"`
}

type SupervisorConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

type PollConfig struct {
	Updates time.Duration `yaml:"updates"`
	Files   time.Duration `yaml:"files"`
	Watch   bool          `yaml:"watch"`
}

type APIConfig struct {
	Listen string `yaml:"listen"`
}

// FileEntry is one monitored file. ID plays the role of a config entry id and
// becomes the sensor's unique id.
type FileEntry struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

const (
	DefaultSupervisorURL = "http://supervisor"
	DefaultListen        = "127.0.0.1:8787"
)

func Default() Config {
	return Config{
		Supervisor: SupervisorConfig{
			URL:     DefaultSupervisorURL,
			Timeout: 30 * time.Second,
		},
		Poll: PollConfig{
			Updates: 5 * time.Minute,
			Files:   30 * time.Second,
			Watch:   true,
		},
		API: APIConfig{
			Listen: DefaultListen,
		},
		StateDir: "~/.local/state/hassglue",
	}
}

// FindFile returns the entry monitoring path, if any.
func (c *Config) FindFile(path string) (FileEntry, bool) {
	for _, f := range c.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileEntry{}, false
}

// AddFile registers path under a fresh entry id. Paths are expected to be
// absolute already; a path can only be registered once.
func (c *Config) AddFile(path string) (FileEntry, error) {
	if existing, ok := c.FindFile(path); ok {
		return existing, fmt.Errorf("%s is already monitored (entry %s)", path, existing.ID)
	}
	entry := FileEntry{ID: uuid.NewString(), Path: path}
	c.Files = append(c.Files, entry)
	return entry, nil
}

// RemoveFile drops the entry matching either its id or its path.
func (c *Config) RemoveFile(idOrPath string) bool {
	for i, f := range c.Files {
		if f.ID == idOrPath || f.Path == idOrPath {
			c.Files = append(c.Files[:i], c.Files[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Config) Validate() error {
	if c.Supervisor.URL == "" {
		return fmt.Errorf("supervisor.url must not be empty")
	}
	if c.Poll.Updates <= 0 {
		return fmt.Errorf("poll.updates must be positive, got %s", c.Poll.Updates)
	}
	if c.Poll.Files <= 0 {
		return fmt.Errorf("poll.files must be positive, got %s", c.Poll.Files)
	}
	seen := make(map[string]struct{}, len(c.Files))
	for _, f := range c.Files {
		if f.ID == "" {
			return fmt.Errorf("file entry %s has no id", f.Path)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("duplicate file entry id %s", f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}
