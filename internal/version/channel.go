// Package version classifies release version strings by channel.
package version

import (
	"regexp"
	"strings"
)

type Channel int

const (
	Unknown Channel = iota
	Dev
	Beta
	Stable
)

func (c Channel) String() string {
	switch c {
	case Dev:
		return "dev"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// Release is a parsed version string. Tag is the version as published,
// suitable for building release-tag URLs.
type Release struct {
	Raw     string
	Channel Channel
	Tag     string
}

func (r Release) IsDev() bool  { return r.Channel == Dev }
func (r Release) IsBeta() bool { return r.Channel == Beta }

// Known reports whether the string looked like a version at all.
func (r Release) Known() bool { return r.Channel != Unknown }

var (
	// numeric core, then an optional modifier: 2022.5.0, 8.1, v1.2.3-rc.1, 2022.5.0b3
	versionPattern = regexp.MustCompile(`^v?(\d+(?:\.\d+)*)((?:[.\-+]?[0-9A-Za-z]+)*)$`)
	betaPattern    = regexp.MustCompile(`^[.\-]?(?:b|beta|rc)(?:[.\-]?\d+)?$`)
)

// Parse classifies s. Any "dev" marker wins over every other marker; a
// beta/rc modifier makes a beta; other well-formed versions are stable.
func Parse(s string) Release {
	raw := strings.TrimSpace(s)
	r := Release{Raw: s, Tag: raw}

	m := versionPattern.FindStringSubmatch(raw)
	if m == nil {
		if strings.Contains(strings.ToLower(raw), "dev") {
			r.Channel = Dev
		}
		return r
	}

	modifier := strings.ToLower(m[2])
	switch {
	case strings.Contains(modifier, "dev"):
		r.Channel = Dev
	case modifier != "" && betaPattern.MatchString(modifier):
		r.Channel = Beta
	default:
		r.Channel = Stable
	}
	return r
}
