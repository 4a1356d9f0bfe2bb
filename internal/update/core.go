package update

import (
	"context"

	"github.com/MrSnakeDoc/hassglue/internal/coordinator"
	"github.com/MrSnakeDoc/hassglue/internal/version"
)

const (
	CoreTitle   = "Home Assistant Core"
	CorePicture = "https://brands.home-assistant.io/homeassistant/icon.png"
)

type CoreUpdate struct {
	subject
}

func NewCoreUpdate(cache Cache, updater Updater) *CoreUpdate {
	return &CoreUpdate{subject{cache: cache, updater: updater, key: coordinator.KeyCore}}
}

func (u *CoreUpdate) ID() string                 { return entityID(CoreTitle) }
func (u *CoreUpdate) Name() string               { return CoreTitle + " Update" }
func (u *CoreUpdate) Title() string              { return CoreTitle }
func (u *CoreUpdate) ReleaseSummary() string     { return "" }
func (u *CoreUpdate) EntityPicture() string      { return CorePicture }
func (u *CoreUpdate) Value() any                 { return stateValue(u) }
func (u *CoreUpdate) Attributes() map[string]any { return attributes(u) }

func (u *CoreUpdate) SupportedFeatures() Feature {
	return FeatureInstall | FeatureSpecificVersion | FeatureBackup
}

func (u *CoreUpdate) ReleaseURL() string {
	latest := u.LatestVersion()
	if latest == "" {
		return ""
	}
	return CoreReleaseURL(latest)
}

func (u *CoreUpdate) Install(ctx context.Context, version string, backup bool) error {
	err := u.updater.UpdateCore(ctx, version, backup)
	return u.finish(ctx, CoreTitle, err)
}

// CoreReleaseURL points dev builds at the commit log and betas at the rc
// release notes site.
func CoreReleaseURL(latest string) string {
	r := version.Parse(latest)
	if r.IsDev() {
		return "https://github.com/home-assistant/core/commits/dev"
	}
	if r.IsBeta() {
		return "https://rc.home-assistant.io/latest-release-notes/"
	}
	return "https://www.home-assistant.io/latest-release-notes/"
}
