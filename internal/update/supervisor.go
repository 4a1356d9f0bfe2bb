package update

import (
	"context"

	"github.com/MrSnakeDoc/hassglue/internal/coordinator"
	"github.com/MrSnakeDoc/hassglue/internal/version"
)

const (
	SupervisorTitle   = "Home Assistant Supervisor"
	SupervisorPicture = "https://brands.home-assistant.io/hassio/icon.png"
)

type SupervisorUpdate struct {
	subject
}

func NewSupervisorUpdate(cache Cache, updater Updater) *SupervisorUpdate {
	return &SupervisorUpdate{subject{cache: cache, updater: updater, key: coordinator.KeySupervisor}}
}

func (u *SupervisorUpdate) ID() string                 { return entityID(SupervisorTitle) }
func (u *SupervisorUpdate) Name() string               { return SupervisorTitle + " Update" }
func (u *SupervisorUpdate) Title() string              { return SupervisorTitle }
func (u *SupervisorUpdate) ReleaseSummary() string     { return "" }
func (u *SupervisorUpdate) EntityPicture() string      { return SupervisorPicture }
func (u *SupervisorUpdate) SupportedFeatures() Feature { return FeatureInstall }
func (u *SupervisorUpdate) Value() any                 { return stateValue(u) }
func (u *SupervisorUpdate) Attributes() map[string]any { return attributes(u) }

func (u *SupervisorUpdate) ReleaseURL() string {
	latest := u.LatestVersion()
	if latest == "" {
		return ""
	}
	return SupervisorReleaseURL(latest)
}

// Install always moves to the latest Supervisor; version and backup are
// ignored.
func (u *SupervisorUpdate) Install(ctx context.Context, _ string, _ bool) error {
	err := u.updater.UpdateSupervisor(ctx)
	return u.finish(ctx, SupervisorTitle, err)
}

func SupervisorReleaseURL(latest string) string {
	r := version.Parse(latest)
	if r.IsDev() || !r.Known() {
		return "https://github.com/home-assistant/supervisor/commits/main"
	}
	return "https://github.com/home-assistant/supervisor/releases/tag/" + r.Tag
}
