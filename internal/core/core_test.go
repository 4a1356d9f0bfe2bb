package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/supervisor/supervisortest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	m.Run()
}

func testConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Supervisor.URL = url
	cfg.Supervisor.Token = supervisortest.Token
	cfg.StateDir = t.TempDir()
	return &cfg
}

func TestNewBase_WithoutTokenOnlyFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.db")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	cfg := config.Default()
	cfg.StateDir = t.TempDir()
	cfg.Files = []config.FileEntry{{ID: "entry-1", Path: path}}

	b, err := NewBase(&cfg, nil)
	require.NoError(t, err)

	assert.False(t, b.HasSupervisor())
	assert.Nil(t, b.Updates())
	assert.Len(t, b.Sensors, 1)
	assert.Error(t, b.RequireSupervisor("/tmp/config.yml"))
	assert.NoError(t, b.Refresh(context.Background()))

	_, ok := b.Registry.Get("entry-1")
	assert.True(t, ok)
}

func TestRefresh_RegistersUpdateEntities(t *testing.T) {
	srv := supervisortest.New(t)
	b, err := NewBase(testConfig(t, srv.URL), nil)
	require.NoError(t, err)

	require.NoError(t, b.Refresh(context.Background()))

	var ids []string
	for _, f := range b.Updates() {
		ids = append(ids, f.ID())
	}
	assert.Equal(t, []string{
		"update.core_ssh_update",
		"update.home_assistant_core_update",
		"update.home_assistant_operating_system_update",
		"update.home_assistant_supervisor_update",
	}, ids)

	_, ok := b.Registry.Get("update.home_assistant_core_update")
	assert.True(t, ok)
}

func TestFindUpdate(t *testing.T) {
	srv := supervisortest.New(t)
	b, err := NewBase(testConfig(t, srv.URL), nil)
	require.NoError(t, err)
	require.NoError(t, b.Refresh(context.Background()))

	f, err := b.FindUpdate("home_assistant_core_update")
	require.NoError(t, err)
	assert.Equal(t, "update.home_assistant_core_update", f.ID())

	_, err = b.FindUpdate("update.missing_update")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestLoad_UsesSnapshotFromPreviousRun(t *testing.T) {
	srv := supervisortest.New(t)
	cfg := testConfig(t, srv.URL)

	first, err := NewBase(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, first.Refresh(context.Background()))

	second, err := NewBase(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, second.Load(context.Background()))

	f, err := second.FindUpdate("update.home_assistant_core_update")
	require.NoError(t, err)
	assert.Equal(t, "2022.5.0", f.LatestVersion())
	assert.Equal(t, 1, srv.Gets("/core/info"), "load must not hit the Supervisor")
}
