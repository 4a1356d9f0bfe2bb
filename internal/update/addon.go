package update

import (
	"context"

	"github.com/MrSnakeDoc/hassglue/internal/coordinator"
)

type AddonUpdate struct {
	subject
	slug string
}

func NewAddonUpdate(cache Cache, updater Updater, slug string) *AddonUpdate {
	return &AddonUpdate{
		subject: subject{cache: cache, updater: updater, key: coordinator.AddonKey(slug)},
		slug:    slug,
	}
}

func (u *AddonUpdate) Slug() string               { return u.slug }
func (u *AddonUpdate) ID() string                 { return IDPrefix + u.slug + "_update" }
func (u *AddonUpdate) SupportedFeatures() Feature { return FeatureInstall | FeatureBackup }
func (u *AddonUpdate) ReleaseURL() string         { return "" }
func (u *AddonUpdate) Value() any                 { return stateValue(u) }
func (u *AddonUpdate) Attributes() map[string]any { return attributes(u) }

func (u *AddonUpdate) Name() string {
	if title := u.Title(); title != "" {
		return title + " Update"
	}
	return u.slug + " Update"
}

func (u *AddonUpdate) Title() string {
	st, _ := u.state()
	return st.Name
}

func (u *AddonUpdate) ReleaseSummary() string {
	st, _ := u.state()
	return st.Changelog
}

// EntityPicture is the Supervisor-served icon, only while the add-on is
// available and ships one.
func (u *AddonUpdate) EntityPicture() string {
	st, ok := u.state()
	if !ok || !st.Available || !st.Icon {
		return ""
	}
	return "/api/hassio/addons/" + u.slug + "/icon"
}

// Install ignores version: add-ons always move to their latest release.
func (u *AddonUpdate) Install(ctx context.Context, _ string, backup bool) error {
	title := u.Title()
	if title == "" {
		title = u.slug
	}
	err := u.updater.UpdateAddon(ctx, u.slug, backup)
	return u.finish(ctx, title, err)
}
