package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SuperDayConfig names the two IANA zones the SuperDay interval spans.
// Which of the two is "east" is derived per query from UTC offsets, never
// stored here.
type SuperDayConfig struct {
	ZoneA string `yaml:"zone_a" json:"zone_a"`
	ZoneB string `yaml:"zone_b" json:"zone_b"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA display timezone used to resolve "today" into a
	// civil date before any engine call (e.g. "Asia/Seoul").
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart controls the first day of week views: "monday" or "sunday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// RefreshCron is a cron-style schedule for reloading the tables and
	// re-deriving the SuperDay east/west assignment.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// MonthsPath / EventsPath locate the month-range and event-definition
	// tables (CSV, or JSON for months).
	MonthsPath string `yaml:"months_path" json:"months_path"`
	EventsPath string `yaml:"events_path" json:"events_path"`

	// MaxLanes is the number of display lanes available for week placement.
	MaxLanes int `yaml:"max_lanes" json:"max_lanes"`

	// SuperDay configures the dual-timezone day interval.
	SuperDay SuperDayConfig `yaml:"superday" json:"superday"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		Timezone:    "Asia/Seoul",
		WeekStart:   "monday",
		RefreshCron: "*/15 * * * *",
		MonthsPath:  "data/months.csv",
		EventsPath:  "data/events.csv",
		MaxLanes:    4,
		SuperDay: SuperDayConfig{
			ZoneA: "Asia/Seoul",
			ZoneB: "America/New_York",
		},
	}
}

// Normalize fills missing or invalid values with defaults so partially
// filled configs from older versions still behave.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = def.WeekStart
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.MonthsPath == "" {
		c.MonthsPath = def.MonthsPath
	}
	if c.EventsPath == "" {
		c.EventsPath = def.EventsPath
	}
	if c.MaxLanes <= 0 {
		c.MaxLanes = def.MaxLanes
	}
	if c.SuperDay.ZoneA == "" {
		c.SuperDay.ZoneA = def.SuperDay.ZoneA
	}
	if c.SuperDay.ZoneB == "" {
		c.SuperDay.ZoneB = def.SuperDay.ZoneB
	}
}

// Load loads configuration from a YAML path. A missing file is a first run:
// the default config is written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".seocal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
