package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/dschmit00/sports-calendar/internal/atomicfile"
	"github.com/dschmit00/sports-calendar/internal/fixture"
	"github.com/dschmit00/sports-calendar/internal/ics"
	"github.com/dschmit00/sports-calendar/internal/source"
)

// NOTE: The config file is optional. Every field can also come from the
// environment or a CLI flag; precedence is defaults < file < env < flags.

const (
	DefaultTeamsPath = "teams.json"
	DefaultOutput    = "docs/all.ics"
	DefaultTimezone  = "UTC"
	DefaultWatchCron = "0 */6 * * *"
	DefaultLogLevel  = "info"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for watch mode's server.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// WatchConfig controls periodic regeneration.
type WatchConfig struct {
	// Cron is a standard 5-field schedule (e.g. "0 */6 * * *").
	Cron string `yaml:"cron" json:"cron"`
	// Listen, if set, serves the latest calendar over HTTP.
	Listen string `yaml:"listen,omitempty" json:"listen,omitempty"`
	// BasicAuth, if non-nil, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// Config is the top-level application configuration. It is built once at
// startup and passed by value afterwards.
type Config struct {
	// APIBase is the sports-data API root without the key.
	APIBase string `yaml:"api_base" json:"api_base"`
	// APIKey is substituted into request paths. "1" is the public key.
	APIKey string `yaml:"api_key" json:"api_key"`
	// FetchTimeout bounds each per-team request.
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`

	// UIDDomain is the suffix of every event UID.
	UIDDomain string `yaml:"uid_domain" json:"uid_domain"`
	// Timezone is the IANA zone assumed for fixture times without an offset.
	Timezone string `yaml:"timezone" json:"timezone"`
	// ProductID is written as the calendar PRODID.
	ProductID string `yaml:"prodid" json:"prodid"`
	// CalendarName, if set, is written as X-WR-CALNAME.
	CalendarName string `yaml:"calendar_name,omitempty" json:"calendar_name,omitempty"`

	// Teams is the path of the team list (.json, .yaml or .yml).
	Teams string `yaml:"teams" json:"teams"`
	// Output is where the calendar is written.
	Output string `yaml:"output" json:"output"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	Watch WatchConfig `yaml:"watch" json:"watch"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIBase:      source.DefaultBaseURL,
		APIKey:       source.DefaultAPIKey,
		FetchTimeout: source.DefaultTimeout,
		UIDDomain:    fixture.DefaultUIDDomain,
		Timezone:     DefaultTimezone,
		ProductID:    ics.DefaultProductID,
		Teams:        DefaultTeamsPath,
		Output:       DefaultOutput,
		LogLevel:     DefaultLogLevel,
		Watch: WatchConfig{
			Cron: DefaultWatchCron,
		},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled files still behave correctly.
func (c *Config) Normalize() {
	d := DefaultConfig()

	c.APIBase = lo.CoalesceOrEmpty(c.APIBase, d.APIBase)
	c.APIKey = lo.CoalesceOrEmpty(c.APIKey, d.APIKey)
	c.UIDDomain = lo.CoalesceOrEmpty(c.UIDDomain, d.UIDDomain)
	c.Timezone = lo.CoalesceOrEmpty(c.Timezone, d.Timezone)
	c.ProductID = lo.CoalesceOrEmpty(c.ProductID, d.ProductID)
	c.Teams = lo.CoalesceOrEmpty(c.Teams, d.Teams)
	c.Output = lo.CoalesceOrEmpty(c.Output, d.Output)
	c.LogLevel = lo.CoalesceOrEmpty(c.LogLevel, d.LogLevel)
	c.Watch.Cron = lo.CoalesceOrEmpty(c.Watch.Cron, d.Watch.Cron)

	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	// Empty credentials disable auth rather than locking everyone out.
	if c.Watch.BasicAuth != nil && (c.Watch.BasicAuth.Username == "" || c.Watch.BasicAuth.Password == "") {
		c.Watch.BasicAuth = nil
	}
}

// Validate reports settings that would make every run fail.
func (c *Config) Validate() error {
	if _, err := fixture.ResolveLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the fallback zone. Call Validate first.
func (c *Config) Location() *time.Location {
	loc, err := fixture.ResolveLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from the given YAML path.
//
// Behavior:
//   - empty path or missing file: defaults
//   - otherwise: unmarshal the YAML and normalize
//
// Environment overrides are applied separately by ApplyEnv.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically with 0600 permissions,
// since the file may hold an API key and basic auth credentials.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return atomicfile.Write(path, data, 0o600)
}
