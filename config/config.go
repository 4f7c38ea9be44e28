package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/propcheck/risk"
)

// Config represents the complete propcheck configuration
type Config struct {
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Rules   RulesConfig   `json:"rules" yaml:"rules"`
	Policy  risk.Policy   `json:"policy" yaml:"policy"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// LoggingConfig selects the zerolog level and output format
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // console or json
}

// RulesConfig points at an optional directory of <slug>.yaml firm rule
// files. Empty means the rules compiled into the binary.
type RulesConfig struct {
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// ServerConfig contains the HTTP boundary settings
type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	ReadTimeout    string   `json:"read_timeout" yaml:"read_timeout"`       // e.g. "10s"
	WriteTimeout   string   `json:"write_timeout" yaml:"write_timeout"`     // e.g. "10s"
	RequestTimeout string   `json:"request_timeout" yaml:"request_timeout"` // per request context deadline
	APITokens      []string `json:"api_tokens,omitempty" yaml:"api_tokens,omitempty"`
	RateLimit      float64  `json:"rate_limit" yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst      int      `json:"rate_burst" yaml:"rate_burst"`
}

// JournalConfig contains validation journaling parameters
type JournalConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Timeouts parses the server durations.
func (s ServerConfig) Timeouts() (read, write, request time.Duration, err error) {
	if read, err = parseDuration("server.read_timeout", s.ReadTimeout); err != nil {
		return
	}
	if write, err = parseDuration("server.write_timeout", s.WriteTimeout); err != nil {
		return
	}
	request, err = parseDuration("server.request_timeout", s.RequestTimeout)
	return
}

func parseDuration(field, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

// Load reads the optional .env file, the config file at path (defaults when
// path is empty), then applies PROPCHECK_* environment overrides.
func Load(path string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = readFile(path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Unset fields keep their defaults.
	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	// Determine format by extension
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROPCHECK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PROPCHECK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PROPCHECK_RULES_DIR"); v != "" {
		cfg.Rules.Dir = v
	}
	if v := os.Getenv("PROPCHECK_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PROPCHECK_API_TOKENS"); v != "" {
		cfg.Server.APITokens = splitAndTrim(v)
	}
	if v := os.Getenv("PROPCHECK_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Server.RateLimit = f
		}
	}
	if v := os.Getenv("PROPCHECK_JOURNAL_DB"); v != "" {
		cfg.Journal.Enabled = true
		cfg.Journal.DBPath = v
	}
}

func splitAndTrim(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'console' or 'json'")
	}
	if c.Rules.Dir != "" {
		if fi, err := os.Stat(c.Rules.Dir); err != nil || !fi.IsDir() {
			return fmt.Errorf("rules.dir %q is not a directory", c.Rules.Dir)
		}
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, _, _, err := c.Server.Timeouts(); err != nil {
		return err
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
		return fmt.Errorf("server.rate_burst must be positive when rate_limit is set")
	}
	if c.Journal.Enabled && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required when journal is enabled")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Policy: risk.DefaultPolicy(),
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			ReadTimeout:    "10s",
			WriteTimeout:   "10s",
			RequestTimeout: "5s",
			RateLimit:      20,
			RateBurst:      40,
		},
		Journal: JournalConfig{
			Enabled: false,
			DBPath:  "./propcheck.sqlite",
		},
	}
}
