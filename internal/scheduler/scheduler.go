// Package scheduler drives the poll cycles: Supervisor refreshes on one
// ticker, file probes on another, plus immediate re-probes on file events.
package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/MrSnakeDoc/hassglue/internal/entity"
	"github.com/MrSnakeDoc/hassglue/internal/filesize"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/metrics"
	"github.com/MrSnakeDoc/hassglue/internal/update"
	"github.com/MrSnakeDoc/hassglue/internal/utils"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

var errNoWatchedDirs = errors.New("no directory could be watched")

type Scheduler struct {
	Cache    update.Cache
	Updater  update.Updater
	Registry *entity.Registry
	Sensors  []*filesize.Sensor
	Metrics  *metrics.Metrics

	UpdateInterval time.Duration
	FileInterval   time.Duration
	// Watch enables fsnotify re-probes; polling always runs.
	Watch bool

	mu       sync.Mutex
	knownIDs map[string]bool
}

// Run performs one full cycle immediately, then keeps polling until ctx is
// cancelled. Failures are logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.RefreshUpdates(ctx)
	s.ProbeFiles(ctx)

	if s.Watch && len(s.Sensors) > 0 {
		if w, err := s.startWatcher(); err != nil {
			logger.Warn("file watch unavailable, falling back to polling: %v", err)
		} else {
			defer utils.Close(w)
			go s.watch(ctx, w)
		}
	}

	updates := time.NewTicker(orDefault(s.UpdateInterval, 5*time.Minute))
	defer updates.Stop()
	files := time.NewTicker(orDefault(s.FileInterval, 30*time.Second))
	defer files.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("scheduler: stopping")
			return nil
		case <-updates.C:
			s.RefreshUpdates(ctx)
		case <-files.C:
			s.ProbeFiles(ctx)
		}
	}
}

// RefreshUpdates refreshes the Supervisor cache, reconciles update entities
// with the add-on list and publishes their state.
// Without a cache (no Supervisor configured) it does nothing.
func (s *Scheduler) RefreshUpdates(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	start := time.Now()
	err := s.Cache.Refresh(ctx)
	if s.Metrics != nil {
		s.Metrics.RecordRefresh(time.Since(start), err)
	}
	if err != nil {
		logger.Warn("refresh failed: %v", err)
	} else {
		logger.Debug("refresh: done in %s", time.Since(start).Truncate(time.Millisecond))
	}

	if s.Registry != nil {
		update.SyncRegistry(s.Registry, s.Cache, s.Updater)
	}
	s.publishUpdates()
}

func (s *Scheduler) publishUpdates() {
	facades := update.Entities(s.Cache, s.Updater)

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(facades))
	for _, f := range facades {
		seen[f.ID()] = true
		if s.Metrics != nil && f.LatestVersion() != "" {
			s.Metrics.RecordUpdateAvailable(f.ID(), f.UpdateAvailable())
		}
	}
	for id := range s.knownIDs {
		if !seen[id] && s.Metrics != nil {
			s.Metrics.ForgetUpdate(id)
		}
	}
	s.knownIDs = seen
}

func (s *Scheduler) ProbeFiles(ctx context.Context) {
	for _, sensor := range s.Sensors {
		s.probe(ctx, sensor)
	}
}

func (s *Scheduler) probe(ctx context.Context, sensor *filesize.Sensor) {
	sensor.Update(ctx)
	if s.Metrics == nil {
		return
	}
	if res, ok := sensor.Last(); ok {
		s.Metrics.RecordFile(sensor.ID(), sensor.Path(), &res.Bytes)
		return
	}
	s.Metrics.RecordFile(sensor.ID(), sensor.Path(), nil)
}

func (s *Scheduler) startWatcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := make(map[string]bool)
	for _, sensor := range s.Sensors {
		dirs[filepath.Dir(sensor.Path())] = true
	}
	added := 0
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			logger.Warn("can not watch %s: %v", dir, err)
			continue
		}
		added++
	}
	if added == 0 {
		_ = w.Close()
		return nil, errNoWatchedDirs
	}
	logger.Debug("watching %d directories for file changes", added)
	return w, nil
}

func (s *Scheduler) watch(ctx context.Context, w *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			for _, sensor := range s.sensorsFor(event.Name) {
				// let the writer finish before stat'ing
				time.Sleep(debounce)
				logger.Debug("file event %s on %s", event.Op, event.Name)
				s.probe(ctx, sensor)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.LogError("file watcher error: %v", err)
		}
	}
}

func (s *Scheduler) sensorsFor(name string) []*filesize.Sensor {
	clean := filepath.Clean(name)
	var out []*filesize.Sensor
	for _, sensor := range s.Sensors {
		if filepath.Clean(sensor.Path()) == clean {
			out = append(out, sensor)
		}
	}
	return out
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
