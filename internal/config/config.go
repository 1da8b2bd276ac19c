package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SCROBSTASH_TIMEOUT_MS.
const EnvPrefix = "SCROBSTASH"

// Scrobbler families.
const (
	TypeContents = "contents"
	TypeLastfm   = "lastfm"
)

// Config holds scrobstash runtime configuration loaded from TOML or YAML.
type Config struct {
	ConfigVersion int              `toml:"config_version" yaml:"config_version"`
	Dispatch      DispatchConfig   `toml:"dispatch" yaml:"dispatch"`
	Log           LogConfig        `toml:"log" yaml:"log"`
	Journal       JournalConfig    `toml:"journal" yaml:"journal"`
	UI            UIConfig         `toml:"ui" yaml:"ui"`
	Scrobblers    []ScrobblerEntry `toml:"scrobblers" yaml:"scrobblers" validate:"dive"`
}

// DispatchConfig holds settings shared by all scrobblers.
type DispatchConfig struct {
	TimeoutMs int `toml:"timeout_ms" yaml:"timeout_ms" validate:"gte=0"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	// File is a log file path, "auto" for the state directory, or empty for stderr.
	File string `toml:"file" yaml:"file"`
}

// JournalConfig controls the local sqlite record of dispatch outcomes.
type JournalConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

type UIConfig struct {
	Theme   string `toml:"theme" yaml:"theme"`
	NoColor bool   `toml:"no_color" yaml:"no_color"`
}

// ScrobblerEntry defines one scrobbler instance.
type ScrobblerEntry struct {
	ID      string `toml:"id" yaml:"id" validate:"required"`
	Type    string `toml:"type" yaml:"type" validate:"required,oneof=contents lastfm"`
	Enabled bool   `toml:"enabled" yaml:"enabled"`

	// contents family
	BaseURL        string             `toml:"base_url" yaml:"base_url" validate:"omitempty,url"`
	PathLayout     string             `toml:"path_layout" yaml:"path_layout" validate:"omitempty,oneof=legacy calendar"`
	AcceptCreated  bool               `toml:"accept_created" yaml:"accept_created"`
	CommitterName  string             `toml:"committer_name" yaml:"committer_name"`
	CommitterEmail string             `toml:"committer_email" yaml:"committer_email" validate:"omitempty,email"`
	TimeoutMs      int                `toml:"timeout_ms" yaml:"timeout_ms" validate:"gte=0"`
	Destinations   []DestinationEntry `toml:"destinations" yaml:"destinations" validate:"dive"`

	// Settings holds family-specific values, e.g. lastfm api_key.
	Settings map[string]any `toml:"settings" yaml:"settings"`
}

// DestinationEntry is one content repository as supplied by the host:
// application_name is "owner/repo" and user_api_url carries the access token.
type DestinationEntry struct {
	ApplicationName string `toml:"application_name" yaml:"application_name" validate:"required,contains=/"`
	UserAPIURL      string `toml:"user_api_url" yaml:"user_api_url" validate:"required"`
}

type envOverrides struct {
	TimeoutMs   int    `envconfig:"TIMEOUT_MS"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	LogFile     string `envconfig:"LOG_FILE"`
	JournalPath string `envconfig:"JOURNAL_PATH"`
	Theme       string `envconfig:"THEME"`
	NoColor     bool   `envconfig:"NO_COLOR"`
}

// Load reads configuration from disk. If path is empty, a default OS-specific
// location is used.
func Load(path string) (*Config, string, error) {
	cfgPath := path
	if cfgPath == "" {
		var err error
		cfgPath, err = defaultPath()
		if err != nil {
			return nil, "", fmt.Errorf("resolve config path: %w", err)
		}
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(cfgPath))
	if err != nil {
		return nil, cfgPath, err
	}
	return cfg, cfgPath, nil
}

// Parse decodes data as YAML for ".yaml"/".yml" and TOML otherwise, then applies
// defaults, environment overrides and validation.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyDefaults(&cfg)
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultPath() (string, error) {
	base, err := configDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(base, "config.toml"), nil
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, "Scrobstash"), nil
	}
	return filepath.Join(dir, "scrobstash"), nil
}

// StateDir returns the directory holding the journal and log files.
func StateDir() (string, error) {
	base, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "state"), nil
}

func applyDefaults(cfg *Config) {
	if cfg.ConfigVersion == 0 {
		cfg.ConfigVersion = 1
	}
	if cfg.Dispatch.TimeoutMs == 0 {
		cfg.Dispatch.TimeoutMs = 10000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = "rainbow"
	}
	for i := range cfg.Scrobblers {
		e := &cfg.Scrobblers[i]
		if e.Type == TypeContents && e.PathLayout == "" {
			e.PathLayout = "legacy"
		}
	}
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return errors.Wrap(err, "parse environment")
	}
	if env.TimeoutMs > 0 {
		cfg.Dispatch.TimeoutMs = env.TimeoutMs
	}
	if env.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(env.LogLevel)
	}
	if env.LogFile != "" {
		cfg.Log.File = env.LogFile
	}
	if env.JournalPath != "" {
		cfg.Journal.Enabled = true
		cfg.Journal.Path = env.JournalPath
	}
	if env.Theme != "" {
		cfg.UI.Theme = env.Theme
	}
	if env.NoColor {
		cfg.UI.NoColor = true
	}
	return nil
}

var validate = validator.New()

// Validate performs structural and semantic validation of cfg.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	seen := make(map[string]bool, len(cfg.Scrobblers))
	for _, e := range cfg.Scrobblers {
		if seen[e.ID] {
			return fmt.Errorf("duplicate scrobbler id %q", e.ID)
		}
		seen[e.ID] = true

		if !e.Enabled {
			continue
		}
		switch e.Type {
		case TypeContents:
			if err := validateContents(e); err != nil {
				return err
			}
		case TypeLastfm:
			if err := validateLastfm(e.Settings); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateContents(e ScrobblerEntry) error {
	for _, d := range e.Destinations {
		owner, repo, _ := strings.Cut(d.ApplicationName, "/")
		if strings.TrimSpace(owner) == "" || strings.TrimSpace(repo) == "" {
			return fmt.Errorf("scrobbler %q: destination %q must be owner/repo", e.ID, d.ApplicationName)
		}
	}
	return nil
}

func validateLastfm(settings map[string]any) error {
	apiKey, _ := settings["api_key"].(string)
	if apiKey == "" {
		return errors.New("lastfm.api_key is required")
	}
	apiSecret, _ := settings["api_secret"].(string)
	if apiSecret == "" {
		return errors.New("lastfm.api_secret is required")
	}
	return nil
}

// ScrobblerByID returns the entry and true when found.
func (c Config) ScrobblerByID(id string) (ScrobblerEntry, bool) {
	for _, s := range c.Scrobblers {
		if s.ID == id {
			return s, true
		}
	}
	return ScrobblerEntry{}, false
}

// Timeout returns the batch timeout for the entry, falling back to the global one.
func (c Config) Timeout(e ScrobblerEntry) time.Duration {
	if e.TimeoutMs > 0 {
		return time.Duration(e.TimeoutMs) * time.Millisecond
	}
	return time.Duration(c.Dispatch.TimeoutMs) * time.Millisecond
}

// Setting returns a string setting or "".
func (e ScrobblerEntry) Setting(key string) string {
	v, _ := e.Settings[key].(string)
	return v
}

// DeadlineContext returns a context bounding a whole CLI operation: the longest
// scrobbler timeout plus a second of slack.
func (c Config) DeadlineContext() (context.Context, context.CancelFunc) {
	d := time.Duration(c.Dispatch.TimeoutMs) * time.Millisecond
	for _, e := range c.Scrobblers {
		if t := c.Timeout(e); t > d {
			d = t
		}
	}
	if d == 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(context.Background(), d+time.Second)
}
