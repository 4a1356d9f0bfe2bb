package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Supervisor.URL == "" {
		t.Fatal("want supervisor URL")
	}
	if c.Poll.Updates == 0 || c.Poll.Files == 0 {
		t.Fatal("want non-zero poll intervals")
	}
	require.NoError(t, c.Validate())
}

func TestAddFile_AssignsIDAndRejectsDuplicates(t *testing.T) {
	c := Default()

	entry, err := c.AddFile("/data/backup.db")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "/data/backup.db", entry.Path)

	_, err = c.AddFile("/data/backup.db")
	assert.Error(t, err)
	assert.Len(t, c.Files, 1)
}

func TestRemoveFile_ByIDOrPath(t *testing.T) {
	c := Default()
	a, err := c.AddFile("/data/a.log")
	require.NoError(t, err)
	_, err = c.AddFile("/data/b.log")
	require.NoError(t, err)

	assert.True(t, c.RemoveFile(a.ID))
	assert.True(t, c.RemoveFile("/data/b.log"))
	assert.False(t, c.RemoveFile("/data/missing"))
	assert.Empty(t, c.Files)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.Supervisor.URL = "" }},
		{"zero update interval", func(c *Config) { c.Poll.Updates = 0 }},
		{"negative file interval", func(c *Config) { c.Poll.Files = -time.Second }},
		{"entry without id", func(c *Config) { c.Files = []FileEntry{{Path: "/x"}} }},
		{"duplicate ids", func(c *Config) {
			c.Files = []FileEntry{{ID: "a", Path: "/x"}, {ID: "a", Path: "/y"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
