package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

type payload struct {
	Subjects map[string]string `json:"subjects"`
}

func newTestFS(t *testing.T) (*FS, string) {
	t.Helper()
	tmp := t.TempDir()
	fs, err := NewFS(tmp)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs, tmp
}

func TestWriteAndReadSnapshot(t *testing.T) {
	fs, dir := newTestFS(t)
	now := time.Now().UTC().Truncate(time.Second)

	in := payload{Subjects: map[string]string{"core": "2022.5.0"}}
	require.NoError(t, fs.WriteSnapshot(context.Background(), in, Meta{Subjects: 1, LastSuccess: now, LastChecked: now}))

	var out payload
	meta, err := fs.ReadSnapshot(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, 1, meta.Subjects)
	assert.True(t, meta.LastSuccess.Equal(now))
	assert.NotEmpty(t, meta.SHA256)
	assert.Positive(t, meta.SizeBytes)

	// A fresh FS on the same dir loads from disk.
	fs2, err := NewFS(dir)
	require.NoError(t, err)
	var again payload
	_, err = fs2.ReadSnapshot(context.Background(), &again)
	require.NoError(t, err)
	assert.Equal(t, in, again)
}

func TestReadSnapshot_NothingPersisted(t *testing.T) {
	fs, _ := newTestFS(t)
	var out payload
	_, err := fs.ReadSnapshot(context.Background(), &out)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadSnapshot_ChecksumMismatch(t *testing.T) {
	fs, dir := newTestFS(t)
	require.NoError(t, fs.WriteSnapshot(context.Background(), payload{}, Meta{}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "snapshot.json"), []byte(`{"subjects":{"x":"y"}}`), 0o644))

	fs2, err := NewFS(dir)
	require.NoError(t, err)
	var out payload
	_, err = fs2.ReadSnapshot(context.Background(), &out)
	assert.Error(t, err)
}

func TestWriteMeta_UpdatesLastChecked(t *testing.T) {
	fs, _ := newTestFS(t)
	ts := time.Date(2022, 5, 4, 10, 0, 0, 0, time.UTC)
	require.NoError(t, fs.WriteMeta(context.Background(), Meta{LastChecked: ts}))

	m, err := fs.ReadMeta(context.Background())
	require.NoError(t, err)
	assert.True(t, m.LastChecked.Equal(ts))
}
