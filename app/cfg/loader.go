package cfg

import (
	"cmp"
	"fmt"
	"path/filepath"
	"time"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Opts is the go-flags tagged option set shared by every command.
// Values can be supplied as command-line flags or environment variables.
type Opts struct {
	DataDir       string `long:"data-dir" env:"HORIZONS_DATA_DIR" default:"./data" description:"Directory holding the database and summaries"`
	DBPath        string `long:"db" env:"HORIZONS_DB" description:"SQLite database path (defaults to <data-dir>/horizons.db)"`
	FolloweesFile string `long:"followees" env:"HORIZONS_FOLLOWEES" default:"./config/followees.yml" description:"Followee registry file"`
	SummariesDir  string `long:"summaries-dir" env:"HORIZONS_SUMMARIES_DIR" description:"Directory for summary markdown files (defaults to <data-dir>/summaries)"`
	EnvFile       string `long:"env-file" env:"HORIZONS_ENV_FILE" default:"./config/.env" description:"Env file with mail and API credentials"`

	Port      string `long:"port" env:"PORT" default:"8080" description:"HTTP server port for the serve command"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"HorizonsBot/0.1 (+https://github.com/halfteen/horizons)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Asia/Shanghai" description:"Timezone for timestamps"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Build resolves derived paths and applies the timezone, producing the
// immutable Cfg passed into every component.
func (o *Opts) Build() *Cfg {
	c := &Cfg{
		DataDir:       o.DataDir,
		DBPath:        o.DBPath,
		FolloweesFile: o.FolloweesFile,
		SummariesDir:  o.SummariesDir,
		EnvFile:       o.EnvFile,
		Port:          o.Port,
		UserAgent:     o.UserAgent,
		Timezone:      o.Timezone,
		Debug:         o.Debug,
		Version:       GetVersion(),
	}

	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "horizons.db")
	}
	if c.SummariesDir == "" {
		c.SummariesDir = filepath.Join(c.DataDir, "summaries")
	}

	if err := applyTimezone(c.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", c.Timezone, err)
	}

	return c
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}
