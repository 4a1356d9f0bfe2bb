// Package update exposes Supervisor, Core, OS and add-on version state as
// update entities and dispatches install requests to the Supervisor.
package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/hassglue/internal/coordinator"
	"github.com/MrSnakeDoc/hassglue/internal/entity"
)

const (
	IDPrefix = "update."
	Icon     = "mdi:package-up"

	StateOn  = "on"
	StateOff = "off"
)

// Updater is the mutating side of the Supervisor API.
type Updater interface {
	UpdateCore(ctx context.Context, version string, backup bool) error
	UpdateOS(ctx context.Context, version string) error
	UpdateSupervisor(ctx context.Context) error
	UpdateAddon(ctx context.Context, slug string, backup bool) error
}

// Cache is what façades need from the coordinator.
type Cache interface {
	Read(key string) (coordinator.SubjectState, error)
	Refresh(ctx context.Context) error
	Addons() []coordinator.SubjectState
	IsHassOS() bool
}

// Facade is a stateless view over one cached subject. Every getter reads the
// cache at call time. Empty strings mean "absent".
type Facade interface {
	entity.Entity

	Key() string
	Title() string
	CurrentVersion() string
	LatestVersion() string
	ReleaseURL() string
	ReleaseSummary() string
	EntityPicture() string
	SupportedFeatures() Feature
	UpdateAvailable() bool

	// Install applies the update. On success it refreshes the cache exactly
	// once before returning; on failure it returns an *InstallError and does
	// not refresh.
	Install(ctx context.Context, version string, backup bool) error
}

// InstallError wraps a failed remote update with the subject's display name.
type InstallError struct {
	Subject string
	Err     error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("Error updating %s: %v", e.Subject, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// subject carries the shared read path of every variant.
type subject struct {
	cache   Cache
	updater Updater
	key     string
}

func (s subject) Key() string { return s.key }

func (s subject) state() (coordinator.SubjectState, bool) {
	st, err := s.cache.Read(s.key)
	if err != nil {
		return coordinator.SubjectState{}, false
	}
	return st, true
}

func (s subject) CurrentVersion() string {
	st, _ := s.state()
	return st.Version
}

func (s subject) LatestVersion() string {
	st, _ := s.state()
	return st.LatestVersion
}

func (s subject) UpdateAvailable() bool {
	st, ok := s.state()
	return ok && st.UpdateAvailable()
}

func (s subject) Icon() string { return Icon }

// finish turns the remote call's result into the install outcome.
func (s subject) finish(ctx context.Context, title string, err error) error {
	if err != nil {
		return &InstallError{Subject: title, Err: err}
	}
	if err := s.cache.Refresh(ctx); err != nil {
		return fmt.Errorf("updated %s but refreshing state failed: %w", title, err)
	}
	return nil
}

func entityID(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return IDPrefix + strings.TrimSuffix(b.String(), "_") + "_update"
}

// stateValue is "on" when an update is pending, "off" when up to date, nil
// when the subject is not in the cache.
func stateValue(f Facade) any {
	if f.LatestVersion() == "" {
		return nil
	}
	if f.UpdateAvailable() {
		return StateOn
	}
	return StateOff
}

func attributes(f Facade) map[string]any {
	attrs := map[string]any{
		"installed_version":  optional(f.CurrentVersion()),
		"latest_version":     optional(f.LatestVersion()),
		"title":              optional(f.Title()),
		"release_url":        optional(f.ReleaseURL()),
		"release_summary":    optional(f.ReleaseSummary()),
		"entity_picture":     optional(f.EntityPicture()),
		"supported_features": f.SupportedFeatures().String(),
	}
	return attrs
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
