package cfg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDerivesPaths(t *testing.T) {
	opts := &Opts{
		DataDir:       "./data",
		FolloweesFile: "./config/followees.yml",
		EnvFile:       "./config/.env",
		Port:          "8080",
		Timezone:      "UTC",
	}

	c := opts.Build()

	assert.Equal(t, filepath.Join("data", "horizons.db"), c.DBPath)
	assert.Equal(t, filepath.Join("data", "summaries"), c.SummariesDir)
	assert.Equal(t, "./config/followees.yml", c.FolloweesFile)
	assert.Equal(t, GetVersion(), c.Version)
}

func TestBuildKeepsExplicitPaths(t *testing.T) {
	opts := &Opts{
		DataDir:      "./data",
		DBPath:       "/tmp/other.db",
		SummariesDir: "/tmp/sums",
		Timezone:     "UTC",
	}

	c := opts.Build()

	assert.Equal(t, "/tmp/other.db", c.DBPath)
	assert.Equal(t, "/tmp/sums", c.SummariesDir)
}

func TestBuildInvalidTimezoneFallsBack(t *testing.T) {
	opts := &Opts{DataDir: ".", Timezone: "Not/AZone"}

	// Must not fail; the warning is printed and the system default stays.
	c := opts.Build()
	assert.Equal(t, "Not/AZone", c.Timezone)
}

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
}
