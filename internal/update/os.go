package update

import (
	"context"

	"github.com/MrSnakeDoc/hassglue/internal/coordinator"
	"github.com/MrSnakeDoc/hassglue/internal/version"
)

const (
	OSTitle   = "Home Assistant Operating System"
	OSPicture = "https://brands.home-assistant.io/homeassistant/icon.png"
)

type OSUpdate struct {
	subject
}

func NewOSUpdate(cache Cache, updater Updater) *OSUpdate {
	return &OSUpdate{subject{cache: cache, updater: updater, key: coordinator.KeyOS}}
}

func (u *OSUpdate) ID() string                 { return entityID(OSTitle) }
func (u *OSUpdate) Name() string               { return OSTitle + " Update" }
func (u *OSUpdate) Title() string              { return OSTitle }
func (u *OSUpdate) ReleaseSummary() string     { return "" }
func (u *OSUpdate) EntityPicture() string      { return OSPicture }
func (u *OSUpdate) Value() any                 { return stateValue(u) }
func (u *OSUpdate) Attributes() map[string]any { return attributes(u) }

func (u *OSUpdate) SupportedFeatures() Feature {
	return FeatureInstall | FeatureSpecificVersion
}

func (u *OSUpdate) ReleaseURL() string {
	latest := u.LatestVersion()
	if latest == "" {
		return ""
	}
	return OSReleaseURL(latest)
}

// Install ignores backup: OS updates do not take one.
func (u *OSUpdate) Install(ctx context.Context, version string, _ bool) error {
	err := u.updater.UpdateOS(ctx, version)
	return u.finish(ctx, OSTitle, err)
}

func OSReleaseURL(latest string) string {
	r := version.Parse(latest)
	if r.IsDev() || !r.Known() {
		return "https://github.com/home-assistant/operating-system/commits/dev"
	}
	return "https://github.com/home-assistant/operating-system/releases/tag/" + r.Tag
}
