// Package config loads satbot's single TOML configuration file. Per the
// operating model, there are no environment-variable overrides: one file,
// read once at startup.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/n0sat/satbot/internal/errors"
)

// Config is the root configuration for satbotd.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Satellite SatelliteConfig `mapstructure:"satellite"`
	DXWorld   DXWorldConfig   `mapstructure:"dxworld"`
	LoTW      LoTWConfig      `mapstructure:"lotw"`
	QO100     QO100Config     `mapstructure:"qo100"`
	Render    RenderConfig    `mapstructure:"render"`
	History   HistoryConfig   `mapstructure:"history"`
	LogTheme  string          `mapstructure:"log_theme"` // everforest (default) or gruvbox
	JSONLogs  bool            `mapstructure:"json_logs"`
}

// ServerConfig configures the façade's message-handling limits.
type ServerConfig struct {
	MaxConcurrentRenders int    `mapstructure:"max_concurrent_renders"` // default: 2
	Host                 string `mapstructure:"host"`
	Port                 int    `mapstructure:"port"`
	LogLevel             string `mapstructure:"log_level"`
	MediaServerURL       string `mapstructure:"media_server_url"` // empty disables the health probe (§5)
}

// ScheduleConfig configures the scheduled-task manager (component J).
type ScheduleConfig struct {
	CacheDir                 string `mapstructure:"cache_dir"`
	SatelliteUpdateMinutes   int    `mapstructure:"satellite_update_interval_minutes"` // default: 15, aligned to :02/:17/:32/:47
	ImageCleanupHours        int    `mapstructure:"image_cleanup_interval_hours"`      // default: 24, at 03:00 UTC
	ImageRetentionDays       int    `mapstructure:"image_retention_days"`              // default: 7
	PerformInitialUpdate     bool   `mapstructure:"perform_initial_update"`            // default: true
	MaxRetries               int    `mapstructure:"max_retries"`                       // default: 3
	RetryBackoffSeconds       int    `mapstructure:"retry_backoff_seconds"`             // default: 60
	UpdateTimeoutSeconds      int    `mapstructure:"update_timeout_seconds"`            // default: 300
}

// SatelliteConfig configures the AMSAT entry store and frequency metadata store.
type SatelliteConfig struct {
	AmsatURL            string `mapstructure:"amsat_url"`
	FrequencyCSVURL      string `mapstructure:"frequency_csv_url"`
	FrequencyCSVPath     string `mapstructure:"frequency_csv_path"`
	SnapshotPath         string `mapstructure:"snapshot_path"`
	AliasOverridesPath   string `mapstructure:"alias_overrides_path"`
	RequestDelayMS       int    `mapstructure:"request_delay_ms"`       // default: 200, inter-request pacing
	FuzzyMatchThreshold  float64 `mapstructure:"fuzzy_match_threshold"` // default: 0.82; not read by satellite.Search, which uses a fixed 0.95 Jaro-Winkler cutoff
}

// DXWorldConfig configures the DX-World timeline collaborator.
type DXWorldConfig struct {
	URL            string `mapstructure:"url"`
	SnapshotPath   string `mapstructure:"snapshot_path"`
	FetchTimeoutMS int    `mapstructure:"fetch_timeout_ms"` // default: 15000
}

// LoTWConfig configures the LoTW queue-status snapshot pipeline.
type LoTWConfig struct {
	FeedURL      string `mapstructure:"feed_url"`
	SnapshotPath string `mapstructure:"snapshot_path"`
}

// QO100Config configures the QO-100 spot snapshot pipeline.
type QO100Config struct {
	FeedURL      string `mapstructure:"feed_url"`
	SnapshotPath string `mapstructure:"snapshot_path"`
}

// RenderConfig configures the SVG-template rasterizer (component I). Each
// feed has its own template file since the satellite/LoTW/QO-100 renders
// emit different token sets; all three share one Rasterizer (headless
// Chrome instance).
type RenderConfig struct {
	TemplatePath        string `mapstructure:"template_path"`         // satellite-query render
	LoTWTemplatePath    string `mapstructure:"lotw_template_path"`
	QO100TemplatePath   string `mapstructure:"qo100_template_path"`
	ImageCacheDir       string `mapstructure:"image_cache_dir"`
	RenderTimeoutMS     int    `mapstructure:"render_timeout_ms"` // default: 10000
}

// HistoryConfig configures the ops-diagnostics execution log.
type HistoryConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

var (
	global *Config
	vInst  *viper.Viper
)

// Load reads the configuration found at the first of: ./satbot.toml,
// ~/.config/satbot/satbot.toml. It returns an error when neither file exists.
// The result is cached for the process lifetime.
func Load() (*Config, error) {
	if global != nil {
		return global, nil
	}

	path := findConfig()
	if path == "" {
		return nil, errors.New("no config file found (looked for ./satbot.toml and ~/.config/satbot/satbot.toml)")
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	global = cfg
	return global, nil
}

// LoadFromFile reads configuration from a specific TOML file, applying
// defaults for anything the file omits.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", path)
	}

	vInst = v
	return &cfg, nil
}

// Reset clears the cached configuration. Used by tests.
func Reset() {
	global = nil
	vInst = nil
}

func findConfig() string {
	if env := "./satbot.toml"; fileExists(env) {
		return env
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "satbot", "satbot.toml")
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SetDefaults populates v with satbot's defaults before unmarshalling.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.max_concurrent_renders", 2)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.media_server_url", "")

	v.SetDefault("schedule.cache_dir", "data/satellite_cache")
	v.SetDefault("schedule.satellite_update_interval_minutes", 15)
	v.SetDefault("schedule.image_cleanup_interval_hours", 24)
	v.SetDefault("schedule.image_retention_days", 7)
	v.SetDefault("schedule.perform_initial_update", true)
	v.SetDefault("schedule.max_retries", 3)
	v.SetDefault("schedule.retry_backoff_seconds", 60)
	v.SetDefault("schedule.update_timeout_seconds", 300)

	v.SetDefault("satellite.amsat_url", "https://www.amsat.org/status/")
	v.SetDefault("satellite.frequency_csv_url", "https://www.ariss.org/downloads/frequencies.csv")
	v.SetDefault("satellite.frequency_csv_path", "data/frequencies.csv")
	v.SetDefault("satellite.snapshot_path", "data/amsat_entries.json")
	v.SetDefault("satellite.alias_overrides_path", "data/alias_overrides.toml")
	v.SetDefault("satellite.request_delay_ms", 200)
	v.SetDefault("satellite.fuzzy_match_threshold", 0.82)

	v.SetDefault("dxworld.url", "https://www.dxworld.com/")
	v.SetDefault("dxworld.snapshot_path", "data/dxworld_timeline.json")
	v.SetDefault("dxworld.fetch_timeout_ms", 15000)

	v.SetDefault("lotw.feed_url", "")
	v.SetDefault("lotw.snapshot_path", "data/lotw_snapshot.json")

	v.SetDefault("qo100.feed_url", "")
	v.SetDefault("qo100.snapshot_path", "data/qo100_snapshot.json")

	v.SetDefault("render.template_path", "resources/sat_template.svg")
	v.SetDefault("render.lotw_template_path", "resources/lotw_template.svg")
	v.SetDefault("render.qo100_template_path", "resources/qo100_template.svg")
	v.SetDefault("render.image_cache_dir", "data/images")
	v.SetDefault("render.render_timeout_ms", 10000)

	v.SetDefault("history.database_path", "data/history.db")

	v.SetDefault("log_theme", "everforest")
	v.SetDefault("json_logs", false)
}
