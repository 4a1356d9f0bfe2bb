package filesize

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/MrSnakeDoc/hassglue/internal/config"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
)

const (
	Icon = "mdi:file"
	Unit = "MB"

	AttrPath        = "path"
	AttrLastUpdated = "last_updated"
	AttrBytes       = "bytes"
)

// Sensor exposes one file's size as an entity.
type Sensor struct {
	path    string
	entryID string
	name    string
	probe   func(string) (Result, error)

	mu      sync.RWMutex
	value   *float64
	attrs   map[string]any
	last    Result
	lastErr error
}

func NewSensor(path, entryID string) *Sensor {
	return &Sensor{
		path:    path,
		entryID: entryID,
		name:    filepath.Base(path),
		probe:   Probe,
	}
}

// NewSensors builds a sensor for every entry whose path currently names a
// regular file. Invalid entries are skipped with a warning.
func NewSensors(entries []config.FileEntry) []*Sensor {
	sensors := make([]*Sensor, 0, len(entries))
	for _, e := range entries {
		abs, err := ValidatePath(e.Path)
		if err != nil {
			logger.Warn("skipping file entry %s: %v", e.ID, err)
			continue
		}
		sensors = append(sensors, NewSensor(abs, e.ID))
	}
	return sensors
}

func (s *Sensor) ID() string   { return s.entryID }
func (s *Sensor) Name() string { return s.name }
func (s *Sensor) Icon() string { return Icon }
func (s *Sensor) Path() string { return s.path }

// Value is the size in MB, or nil when unknown or when the file is empty.
func (s *Sensor) Value() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.value == nil {
		return nil
	}
	return *s.value
}

func (s *Sensor) Attributes() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.attrs == nil {
		return nil
	}
	out := make(map[string]any, len(s.attrs)+1)
	for k, v := range s.attrs {
		out[k] = v
	}
	out["unit_of_measurement"] = Unit
	return out
}

// Last returns the latest successful probe and whether the most recent probe
// succeeded.
func (s *Sensor) Last() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.lastErr == nil && !s.last.LastModified.IsZero()
}

func (s *Sensor) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Update stats the file. A failing stat clears the value but keeps the last
// reported attributes; the next poll retries.
func (s *Sensor) Update(_ context.Context) {
	res, err := s.probe(s.path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		logger.LogError("Can not retrieve file statistics %v", err)
		s.value = nil
		s.lastErr = err
		return
	}

	s.lastErr = nil
	s.last = res
	if mb, ok := res.Megabytes(); ok {
		s.value = &mb
	} else {
		s.value = nil
	}
	s.attrs = map[string]any{
		AttrPath:        s.path,
		AttrLastUpdated: res.LastModified.Local().Format(time.RFC3339),
		AttrBytes:       res.Bytes,
	}
}
