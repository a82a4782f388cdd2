package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/Tiliavir/activity-log/internal/rules"
)

// Config is the root configuration for alog, stored in ~/.alog/config.yaml.
// Every key can be overridden from the environment as ALOG_<SECTION>_<FIELD>,
// e.g. ALOG_SERVER_ADDR.
type Config struct {
	Storage StorageConfig `koanf:"storage"`
	Users   UsersConfig   `koanf:"users"`
	Rules   RulesConfig   `koanf:"rules"`
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
}

// StorageConfig locates the database.
type StorageConfig struct {
	// Path is the SQLite file. Empty means ~/.alog/alog.db.
	Path string `koanf:"path"`
}

// UsersConfig holds user and role settings.
type UsersConfig struct {
	// SuperAdmin approves admin requests and can never be removed.
	SuperAdmin string `koanf:"super_admin"`
	// Default is the acting user when --as is not given.
	Default string `koanf:"default"`
}

// RulesConfig selects the classification rules.
type RulesConfig struct {
	// File is an optional YAML rule table overlaid on the built-in one.
	File string `koanf:"file"`
	// SleepMatch overrides the table's sleep_match when set.
	SleepMatch string `koanf:"sleep_match"`
}

// ServerConfig configures alog serve.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures diagnostics logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `koanf:"level"`
	// Format is console or json. Empty picks console for the CLI and json
	// for the server.
	Format string `koanf:"format"`
}

const (
	// DefaultAddr is where alog serve listens.
	DefaultAddr = "127.0.0.1:8470"
	// DefaultLevel is the default log level.
	DefaultLevel = "warn"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "ALOG_"
)

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: DefaultAddr},
		Log:    LogConfig{Level: DefaultLevel},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# alog configuration – ~/.alog/config.yaml
#
# All settings are optional; the built-in defaults work out of the box.
# Any key can also be set from the environment, e.g. ALOG_SERVER_ADDR.

storage:
  # SQLite database file. Empty means ~/.alog/alog.db.
  path: ""

users:
  # User who approves admin requests and can never be removed.
  super_admin: ""
  # Acting user when --as is not given.
  default: ""

rules:
  # Optional YAML file overriding keyword lists, stopwords and duration limits.
  file: ""
  # Which text the sleep keywords are matched against when resolving
  # durations: "activity" (default) or "time" (reproduces old charts).
  sleep_match: ""

server:
  # Listen address for: alog serve
  addr: "127.0.0.1:8470"

log:
  # debug, info, warn or error. --verbose forces debug.
  level: warn
  # console or json. Empty: console for commands, json for alog serve.
  format: ""
`

// DefaultPath returns ~/.alog/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".alog", "config.yaml"), nil
}

// Load reads the config at path (DefaultPath when empty), creating it with
// annotated defaults on first run, then applies environment overrides.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return defaultConfig(), err
		}
		path = p
	}

	k := koanf.New(".")
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return defaultConfig(), fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("decoding config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// envKey maps ALOG_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func (c *Config) applyDefaults() {
	d := defaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format %q is not console or json", c.Log.Format)
	}
	switch rules.SleepMatch(c.Rules.SleepMatch) {
	case "", rules.MatchActivity, rules.MatchTimeText:
	default:
		return fmt.Errorf("rules.sleep_match %q is not %q or %q", c.Rules.SleepMatch, rules.MatchActivity, rules.MatchTimeText)
	}
	return nil
}

// DBPath returns the database file, resolving the default under base.
func (c Config) DBPath(base string) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(base, "alog.db")
}

// PhotoDir returns where profile photos live: next to the database.
func (c Config) PhotoDir(base string) string {
	return filepath.Join(filepath.Dir(c.DBPath(base)), "profile_photos")
}

// RuleTable loads the configured rule table.
func (c Config) RuleTable() (rules.Table, error) {
	t, err := rules.Load(c.Rules.File)
	if err != nil {
		return t, err
	}
	if c.Rules.SleepMatch != "" {
		t.SleepMatch = rules.SleepMatch(c.Rules.SleepMatch)
	}
	return t, t.Validate()
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
