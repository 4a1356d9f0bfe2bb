package filesize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func makeFile(t *testing.T, name string, size int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
	return path
}

func TestResult_Megabytes(t *testing.T) {
	tests := []struct {
		bytes  int64
		want   float64
		wantOK bool
	}{
		{0, 0, false},
		{1, 0, true},
		{4_999, 0, true},
		{1_000_000, 1, true},
		{2_500_000, 2.5, true},
		{123_456_789, 123.46, true},
	}
	for _, tt := range tests {
		got, ok := Result{Bytes: tt.bytes}.Megabytes()
		assert.Equal(t, tt.wantOK, ok, "bytes=%d", tt.bytes)
		assert.InDelta(t, tt.want, got, 1e-9, "bytes=%d", tt.bytes)
	}
}

func TestProbe_ReportsSizeAndMtime(t *testing.T) {
	path := makeFile(t, "backup.db", 2_500_000)
	mtime := time.Date(2022, 4, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	res, err := Probe(path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, int64(2_500_000), res.Bytes)
	assert.True(t, res.LastModified.Equal(mtime))
}

func TestProbe_MissingFile(t *testing.T) {
	_, err := Probe(filepath.Join(t.TempDir(), "nope"))

	var pe *ProbeError
	require.ErrorAs(t, err, &pe)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSensor_ScenarioA_RegularFile(t *testing.T) {
	path := makeFile(t, "backup.db", 2_500_000)
	s := NewSensor(path, "entry-1")

	s.Update(context.Background())

	assert.Equal(t, "backup.db", s.Name())
	assert.Equal(t, "entry-1", s.ID())
	assert.Equal(t, Icon, s.Icon())
	assert.Equal(t, 2.5, s.Value())

	attrs := s.Attributes()
	assert.Equal(t, path, attrs[AttrPath])
	assert.Equal(t, int64(2_500_000), attrs[AttrBytes])
	assert.NotEmpty(t, attrs[AttrLastUpdated])
	assert.NoError(t, s.Err())
}

// An empty file deliberately reports no value while still exposing bytes=0.
func TestSensor_ScenarioB_EmptyFileHasNoValue(t *testing.T) {
	path := makeFile(t, "empty.log", 0)
	s := NewSensor(path, "entry-2")

	s.Update(context.Background())

	assert.Nil(t, s.Value())
	assert.Equal(t, int64(0), s.Attributes()[AttrBytes])
	_, ok := s.Last()
	assert.True(t, ok)
}

func TestSensor_ScenarioC_FileDeletedAfterSetup(t *testing.T) {
	path := makeFile(t, "gone.db", 1_000_000)
	s := NewSensor(path, "entry-3")
	s.Update(context.Background())
	require.Equal(t, 1.0, s.Value())

	require.NoError(t, os.Remove(path))

	assert.NotPanics(t, func() { s.Update(context.Background()) })
	assert.Nil(t, s.Value())

	var pe *ProbeError
	assert.ErrorAs(t, s.Err(), &pe)
	assert.Equal(t, path, s.Attributes()[AttrPath], "previous attributes are kept")
	_, ok := s.Last()
	assert.False(t, ok)
}

func TestSensor_RecoversOnNextPoll(t *testing.T) {
	calls := 0
	s := NewSensor("/data/flaky.db", "entry-4")
	s.probe = func(p string) (Result, error) {
		calls++
		if calls == 1 {
			return Result{}, &ProbeError{Path: p, Cause: os.ErrPermission}
		}
		return Result{Path: p, Bytes: 3_000_000, LastModified: time.Now()}, nil
	}

	s.Update(context.Background())
	assert.Nil(t, s.Value())

	s.Update(context.Background())
	assert.Equal(t, 3.0, s.Value())
	assert.NoError(t, s.Err())
}

func TestValidatePath(t *testing.T) {
	file := makeFile(t, "ok.log", 10)

	abs, err := ValidatePath(file)
	require.NoError(t, err)
	assert.Equal(t, file, abs)

	_, err = ValidatePath(t.TempDir())
	assert.Error(t, err, "directories are rejected")

	_, err = ValidatePath(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestNewSensors_SkipsInvalidEntries(t *testing.T) {
	file := makeFile(t, "ok.log", 10)
	entries := []config.FileEntry{
		{ID: "a", Path: file},
		{ID: "b", Path: filepath.Join(t.TempDir(), "missing.log")},
	}

	sensors := NewSensors(entries)
	require.Len(t, sensors, 1)
	assert.Equal(t, "a", sensors[0].ID())
	assert.Equal(t, file, sensors[0].Path())
}
