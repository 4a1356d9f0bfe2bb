package coordinator

import (
	"errors"
	"strings"
)

const (
	KeySupervisor = "supervisor"
	KeyCore       = "core"
	KeyOS         = "os"

	addonPrefix = "addon/"
)

// ErrSubjectUnavailable is returned by Read when the cache holds no entry for
// the requested key (not loaded yet, or the add-on was uninstalled).
var ErrSubjectUnavailable = errors.New("subject not available in cache")

func AddonKey(slug string) string { return addonPrefix + slug }

// AddonSlug returns the slug of an add-on key.
func AddonSlug(key string) (string, bool) {
	if !strings.HasPrefix(key, addonPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, addonPrefix), true
}

// SubjectState is the last known version state of one updatable unit.
type SubjectState struct {
	Key           string `json:"key"`
	Slug          string `json:"slug,omitempty"`
	Name          string `json:"name"`
	Version       string `json:"version"`
	LatestVersion string `json:"version_latest"`
	Changelog     string `json:"changelog,omitempty"`
	Icon          bool   `json:"icon,omitempty"`
	Available     bool   `json:"available"`
}

// UpdateAvailable compares the version strings only; ordering semantics
// belong to the Supervisor.
func (s SubjectState) UpdateAvailable() bool {
	return s.LatestVersion != "" && s.Version != s.LatestVersion
}
