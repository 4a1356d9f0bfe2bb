package update

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MrSnakeDoc/hassglue/internal/coordinator"
)

type fakeCache struct {
	mu         sync.Mutex
	subjects   map[string]coordinator.SubjectState
	hassOS     bool
	refreshes  int
	refreshErr error
	// onRefresh lets a test change what the next read sees.
	onRefresh func(c *fakeCache)
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		hassOS: true,
		subjects: map[string]coordinator.SubjectState{
			coordinator.KeyCore: {
				Key: coordinator.KeyCore, Name: "Home Assistant Core",
				Version: "2022.4.0", LatestVersion: "2022.5.0", Available: true,
			},
			coordinator.KeyOS: {
				Key: coordinator.KeyOS, Name: "Home Assistant Operating System",
				Version: "8.0", LatestVersion: "8.1", Available: true,
			},
			coordinator.KeySupervisor: {
				Key: coordinator.KeySupervisor, Name: "Home Assistant Supervisor",
				Version: "2022.05.0", LatestVersion: "2022.05.0", Available: true,
			},
			coordinator.AddonKey("core_ssh"): {
				Key: coordinator.AddonKey("core_ssh"), Slug: "core_ssh", Name: "Terminal & SSH",
				Version: "9.0", LatestVersion: "9.1", Changelog: "# 9.1\n- fixes",
				Icon: true, Available: true,
			},
		},
	}
}

func (c *fakeCache) Read(key string) (coordinator.SubjectState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.subjects[key]
	if !ok {
		return coordinator.SubjectState{}, fmt.Errorf("%s: %w", key, coordinator.ErrSubjectUnavailable)
	}
	return st, nil
}

func (c *fakeCache) Refresh(context.Context) error {
	c.mu.Lock()
	c.refreshes++
	hook := c.onRefresh
	c.mu.Unlock()
	if hook != nil {
		hook(c)
	}
	return c.refreshErr
}

func (c *fakeCache) Addons() []coordinator.SubjectState {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []coordinator.SubjectState
	for _, st := range c.subjects {
		if st.Slug != "" {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

func (c *fakeCache) IsHassOS() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hassOS
}

func (c *fakeCache) set(st coordinator.SubjectState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subjects[st.Key] = st
}

func (c *fakeCache) drop(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subjects, key)
}

type call struct {
	Method  string
	Slug    string
	Version string
	Backup  bool
}

type fakeUpdater struct {
	calls []call
	err   error
}

func (u *fakeUpdater) UpdateCore(_ context.Context, version string, backup bool) error {
	u.calls = append(u.calls, call{Method: "core", Version: version, Backup: backup})
	return u.err
}

func (u *fakeUpdater) UpdateOS(_ context.Context, version string) error {
	u.calls = append(u.calls, call{Method: "os", Version: version})
	return u.err
}

func (u *fakeUpdater) UpdateSupervisor(context.Context) error {
	u.calls = append(u.calls, call{Method: "supervisor"})
	return u.err
}

func (u *fakeUpdater) UpdateAddon(_ context.Context, slug string, backup bool) error {
	u.calls = append(u.calls, call{Method: "addon", Slug: slug, Backup: backup})
	return u.err
}
