package supervisor

import "encoding/json"

// envelope is the wrapper every Supervisor JSON response uses.
type envelope struct {
	Result  string          `json:"result"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Info is the subset of /info the coordinator needs. Hassos is the running
// Operating System version, null when not on Home Assistant OS.
type Info struct {
	Supervisor    string  `json:"supervisor"`
	Homeassistant string  `json:"homeassistant"`
	Hassos        *string `json:"hassos"`
	Hostname      string  `json:"hostname,omitempty"`
	Machine       string  `json:"machine,omitempty"`
	Arch          string  `json:"arch,omitempty"`
	Channel       string  `json:"channel,omitempty"`
}

func (i Info) IsHassOS() bool { return i.Hassos != nil && *i.Hassos != "" }

type VersionInfo struct {
	Version         string `json:"version"`
	VersionLatest   string `json:"version_latest"`
	UpdateAvailable bool   `json:"update_available"`
}

type SupervisorInfo struct {
	VersionInfo
	Channel string  `json:"channel,omitempty"`
	Addons  []Addon `json:"addons"`
}

type Addon struct {
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	Version         string `json:"version"`
	VersionLatest   string `json:"version_latest"`
	UpdateAvailable bool   `json:"update_available"`
	Icon            bool   `json:"icon"`
	State           string `json:"state,omitempty"`
	Repository      string `json:"repository,omitempty"`
}

type updateCoreRequest struct {
	Version string `json:"version,omitempty"`
	Backup  bool   `json:"backup"`
}

type updateOSRequest struct {
	Version string `json:"version,omitempty"`
}

type updateAddonRequest struct {
	Backup bool `json:"backup"`
}
