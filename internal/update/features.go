package update

import "strings"

// Feature advertises what an update entity accepts. Flags are informational:
// callers gate their own affordances on them, Install does not enforce them.
type Feature uint8

const (
	FeatureInstall Feature = 1 << iota
	FeatureSpecificVersion
	FeatureBackup
)

func (f Feature) Has(flag Feature) bool { return f&flag == flag }

func (f Feature) String() string {
	var parts []string
	if f.Has(FeatureInstall) {
		parts = append(parts, "install")
	}
	if f.Has(FeatureSpecificVersion) {
		parts = append(parts, "specific_version")
	}
	if f.Has(FeatureBackup) {
		parts = append(parts, "backup")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
