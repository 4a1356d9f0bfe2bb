// Package coordinator holds the latest Supervisor, Core, OS and add-on version
// state. It is the only writer of that state; update entities read through it.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/store"
	"github.com/MrSnakeDoc/hassglue/internal/supervisor"

	"golang.org/x/sync/errgroup"
)

const changelogConcurrency = 4

// Fetcher is the read side of the Supervisor API.
type Fetcher interface {
	Info(ctx context.Context) (*supervisor.Info, error)
	CoreInfo(ctx context.Context) (*supervisor.VersionInfo, error)
	OSInfo(ctx context.Context) (*supervisor.VersionInfo, error)
	SupervisorInfo(ctx context.Context) (*supervisor.SupervisorInfo, error)
	AddonChangelog(ctx context.Context, slug string) (string, error)
}

type Coordinator struct {
	fetcher Fetcher
	store   store.Store

	// refreshMu serialises refreshes; mu guards the data readers see.
	refreshMu sync.Mutex

	mu          sync.RWMutex
	subjects    map[string]SubjectState
	hassOS      bool
	lastUpdated time.Time
	lastErr     error
	listeners   []func()
}

type snapshot struct {
	HassOS   bool                    `json:"hassos"`
	Subjects map[string]SubjectState `json:"subjects"`
}

// New returns an empty coordinator. st may be nil to disable persistence.
func New(f Fetcher, st store.Store) *Coordinator {
	return &Coordinator{
		fetcher:  f,
		store:    st,
		subjects: make(map[string]SubjectState),
	}
}

// Read returns the current state of key. Every call observes the cache at the
// time of the call.
func (c *Coordinator) Read(key string) (SubjectState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.subjects[key]
	if !ok {
		return SubjectState{}, fmt.Errorf("%w: %s", ErrSubjectUnavailable, key)
	}
	return s, nil
}

// Addons returns every cached add-on, sorted by slug.
func (c *Coordinator) Addons() []SubjectState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]SubjectState, 0, len(c.subjects))
	for key, s := range c.subjects {
		if _, ok := AddonSlug(key); ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

func (c *Coordinator) IsHassOS() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hassOS
}

func (c *Coordinator) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated
}

// LastError is the error of the most recent refresh, nil after a success.
func (c *Coordinator) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// OnRefresh registers fn to run after every refresh, successful or not.
func (c *Coordinator) OnRefresh(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Refresh fetches every subject and swaps the cache in one step. On failure
// the previous versions are kept but every subject is marked unavailable.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	start := time.Now()
	subjects, hassOS, err := c.fetchAll(ctx)

	c.mu.Lock()
	if err != nil {
		for k, s := range c.subjects {
			s.Available = false
			c.subjects[k] = s
		}
		c.lastErr = err
	} else {
		c.subjects = subjects
		c.hassOS = hassOS
		c.lastUpdated = time.Now()
		c.lastErr = nil
	}
	listeners := append([]func(){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}

	if err != nil {
		return fmt.Errorf("refresh supervisor data: %w", err)
	}

	logger.Debug("coordinator refreshed in %s (%d subjects)", time.Since(start).Truncate(time.Millisecond), len(subjects))
	c.persist(ctx, subjects, hassOS)
	return nil
}

// Load restores the last persisted snapshot, if any. It is meant for boot,
// before the first Refresh.
func (c *Coordinator) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	var snap snapshot
	meta, err := c.store.ReadSnapshot(ctx, &snap)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load snapshot: %w", err)
	}
	if snap.Subjects == nil {
		snap.Subjects = make(map[string]SubjectState)
	}

	c.mu.Lock()
	c.subjects = snap.Subjects
	c.hassOS = snap.HassOS
	c.lastUpdated = meta.LastSuccess
	c.mu.Unlock()

	logger.Debug("loaded %d subjects from snapshot (age: %s)", len(snap.Subjects), time.Since(meta.LastSuccess).Truncate(time.Second))
	return nil
}

func (c *Coordinator) fetchAll(ctx context.Context) (map[string]SubjectState, bool, error) {
	var (
		info *supervisor.Info
		core *supervisor.VersionInfo
		sup  *supervisor.SupervisorInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = c.fetcher.Info(gctx)
		return err
	})
	g.Go(func() (err error) {
		core, err = c.fetcher.CoreInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		sup, err = c.fetcher.SupervisorInfo(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	hassOS := info.IsHassOS()
	subjects := make(map[string]SubjectState, len(sup.Addons)+3)
	subjects[KeyCore] = SubjectState{
		Key:           KeyCore,
		Name:          "Home Assistant Core",
		Version:       core.Version,
		LatestVersion: core.VersionLatest,
		Available:     true,
	}
	subjects[KeySupervisor] = SubjectState{
		Key:           KeySupervisor,
		Name:          "Home Assistant Supervisor",
		Version:       sup.Version,
		LatestVersion: sup.VersionLatest,
		Available:     true,
	}

	var (
		osInfo     *supervisor.VersionInfo
		changelogs = make([]string, len(sup.Addons))
	)
	g2, g2ctx := errgroup.WithContext(ctx)
	g2.SetLimit(changelogConcurrency)
	if hassOS {
		g2.Go(func() (err error) {
			osInfo, err = c.fetcher.OSInfo(g2ctx)
			return err
		})
	}
	for i, addon := range sup.Addons {
		i, addon := i, addon
		g2.Go(func() error {
			log, err := c.fetcher.AddonChangelog(g2ctx, addon.Slug)
			if err != nil {
				// Not every add-on ships a changelog.
				logger.Debug("no changelog for add-on %s: %v", addon.Slug, err)
				return nil
			}
			changelogs[i] = log
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, false, err
	}

	if osInfo != nil {
		subjects[KeyOS] = SubjectState{
			Key:           KeyOS,
			Name:          "Home Assistant Operating System",
			Version:       osInfo.Version,
			LatestVersion: osInfo.VersionLatest,
			Available:     true,
		}
	}
	for i, addon := range sup.Addons {
		key := AddonKey(addon.Slug)
		subjects[key] = SubjectState{
			Key:           key,
			Slug:          addon.Slug,
			Name:          addon.Name,
			Version:       addon.Version,
			LatestVersion: addon.VersionLatest,
			Changelog:     changelogs[i],
			Icon:          addon.Icon,
			Available:     true,
		}
	}

	return subjects, hassOS, nil
}

func (c *Coordinator) persist(ctx context.Context, subjects map[string]SubjectState, hassOS bool) {
	if c.store == nil {
		return
	}
	now := time.Now().UTC()
	addons := 0
	for key := range subjects {
		if _, ok := AddonSlug(key); ok {
			addons++
		}
	}
	meta := store.Meta{
		Subjects:    len(subjects),
		Addons:      addons,
		HassOS:      hassOS,
		LastSuccess: now,
		LastChecked: now,
	}
	if err := c.store.WriteSnapshot(ctx, snapshot{HassOS: hassOS, Subjects: subjects}, meta); err != nil {
		logger.Warn("failed to persist supervisor snapshot: %v", err)
	}
}
