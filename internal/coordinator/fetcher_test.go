package coordinator

import (
	"context"
	"errors"
	"sync"

	"github.com/MrSnakeDoc/hassglue/internal/supervisor"
)

// fakeFetcher serves canned Supervisor data and counts calls.
type fakeFetcher struct {
	mu         sync.Mutex
	info       supervisor.Info
	core       supervisor.VersionInfo
	os         supervisor.VersionInfo
	sup        supervisor.SupervisorInfo
	changelogs map[string]string
	failCore   error
	calls      map[string]int
}

func newFakeFetcher() *fakeFetcher {
	hassos := "8.0"
	return &fakeFetcher{
		info: supervisor.Info{Supervisor: "2022.05.0", Homeassistant: "2022.4.0", Hassos: &hassos},
		core: supervisor.VersionInfo{Version: "2022.4.0", VersionLatest: "2022.5.0"},
		os:   supervisor.VersionInfo{Version: "8.0", VersionLatest: "8.1"},
		sup: supervisor.SupervisorInfo{
			VersionInfo: supervisor.VersionInfo{Version: "2022.05.0", VersionLatest: "2022.05.0"},
			Addons: []supervisor.Addon{
				{Slug: "core_ssh", Name: "Terminal & SSH", Version: "9.0", VersionLatest: "9.1", Icon: true},
				{Slug: "a0d7b954_vscode", Name: "Studio Code Server", Version: "5.0", VersionLatest: "5.0"},
			},
		},
		changelogs: map[string]string{"core_ssh": "# 9.1\n- fixes"},
		calls:      make(map[string]int),
	}
}

func (f *fakeFetcher) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeFetcher) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeFetcher) Info(context.Context) (*supervisor.Info, error) {
	f.count("info")
	info := f.info
	return &info, nil
}

func (f *fakeFetcher) CoreInfo(context.Context) (*supervisor.VersionInfo, error) {
	f.count("core")
	if f.failCore != nil {
		return nil, f.failCore
	}
	core := f.core
	return &core, nil
}

func (f *fakeFetcher) OSInfo(context.Context) (*supervisor.VersionInfo, error) {
	f.count("os")
	v := f.os
	return &v, nil
}

func (f *fakeFetcher) SupervisorInfo(context.Context) (*supervisor.SupervisorInfo, error) {
	f.count("supervisor")
	sup := f.sup
	sup.Addons = append([]supervisor.Addon(nil), f.sup.Addons...)
	return &sup, nil
}

func (f *fakeFetcher) AddonChangelog(_ context.Context, slug string) (string, error) {
	f.count("changelog")
	log, ok := f.changelogs[slug]
	if !ok {
		return "", errors.New("no changelog")
	}
	return log, nil
}
