package add

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/globalconfig"
	"github.com/MrSnakeDoc/hassglue/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	m.Run()
}

func setup(t *testing.T) (*Adder, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg := config.Default()
	cfg.StateDir = filepath.Join(home, "state")
	return New(&cfg, filepath.Join(home, "config.yml")), home
}

func TestExecute_AddsValidPaths(t *testing.T) {
	a, home := setup(t)
	good := filepath.Join(home, "backup.db")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0o644))

	added, err := a.Execute([]string{good, filepath.Join(home, "missing.db"), home})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, good, added[0].Path)
	assert.NotEmpty(t, added[0].ID)

	saved, err := globalconfig.Load(a.ConfigPath)
	require.NoError(t, err)
	require.Len(t, saved.Files, 1)
	assert.Equal(t, added[0].ID, saved.Files[0].ID)
}

func TestExecute_DuplicateIsSkipped(t *testing.T) {
	a, home := setup(t)
	good := filepath.Join(home, "backup.db")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0o644))

	_, err := a.Execute([]string{good})
	require.NoError(t, err)
	added, err := a.Execute([]string{good})
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Len(t, a.Config.Files, 1)
}

func TestExecute_NoArgs(t *testing.T) {
	a, _ := setup(t)
	_, err := a.Execute(nil)
	assert.Error(t, err)
}
