package store

import "time"

// Meta describes the persisted snapshot; it is written next to it so the
// snapshot can be verified and aged without decoding it.
type Meta struct {
	Subjects  int    `json:"subjects"`
	Addons    int    `json:"addons"`
	HassOS    bool   `json:"hassos"`
	SizeBytes int64  `json:"size_bytes"`
	SHA256    string `json:"sha256"`

	LastSuccess time.Time `json:"last_success"`
	LastChecked time.Time `json:"last_checked"`
}
