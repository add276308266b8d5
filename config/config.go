// Package config loads vidgrade settings from a YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvPlatform = "VIDGRADE_AI_PLATFORM"
	EnvModel    = "VIDGRADE_AI_MODEL"
	EnvBaseURL  = "VIDGRADE_AI_BASE_URL"
	EnvStore    = "VIDGRADE_STORE"
)

// Defaults.
const (
	DefaultPlatform  = "claude"
	DefaultTimeout   = 60 * time.Second
	DefaultStorePath = "reports.jsonl"
	DefaultDotEnv    = ".env"
)

// Config holds all application configuration.
type Config struct {
	AI    AIConfig    `yaml:"ai"`
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`

	lookupEnv func(string) (string, bool)
}

// AIConfig selects and tunes the AI critique backend.
type AIConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Platform string        `yaml:"platform"`
	Model    string        `yaml:"model,omitempty"`
	BaseURL  string        `yaml:"base_url,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheDir string        `yaml:"cache_dir,omitempty"`
}

// StoreConfig locates the report store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Verbose bool `yaml:"verbose"`
}

type options struct {
	searchPaths []string
	dotEnvPath  string
	lookupEnv   func(string) (string, bool)
}

// Option configures Load.
type Option func(*options)

// WithSearchPaths replaces the config file candidates tried when no explicit
// path is given.
func WithSearchPaths(paths ...string) Option {
	return func(o *options) {
		o.searchPaths = paths
	}
}

// WithDotEnv sets the .env file to read. An empty path disables it.
func WithDotEnv(path string) Option {
	return func(o *options) {
		o.dotEnvPath = path
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(o *options) {
		o.lookupEnv = fn
	}
}

// DefaultSearchPaths returns the config file candidates.
func DefaultSearchPaths() []string {
	paths := []string{"./vidgrade.yaml", "./vidgrade.yml"}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".vidgrade", "config.yaml"))
	}
	return paths
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			Enabled:  true,
			Platform: DefaultPlatform,
			Timeout:  DefaultTimeout,
		},
		Store:     StoreConfig{Path: DefaultStorePath},
		lookupEnv: os.LookupEnv,
	}
}

// Load reads configuration. With an empty path the search paths are tried
// in order and finding none yields defaults; an explicit path must exist.
// Values from the .env file are visible through LookupEnv but never
// override the real environment.
func Load(path string, opts ...Option) (*Config, error) {
	o := &options{
		searchPaths: DefaultSearchPaths(),
		dotEnvPath:  DefaultDotEnv,
		lookupEnv:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(o)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findConfigFile(o.searchPaths)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	dotenv := map[string]string{}
	if o.dotEnvPath != "" {
		values, err := godotenv.Read(o.dotEnvPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", o.dotEnvPath, err)
		default:
			dotenv = values
		}
	}
	cfg.lookupEnv = func(key string) (string, bool) {
		if v, ok := o.lookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	cfg.applyEnv()
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = DefaultTimeout
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	for env, field := range map[string]*string{
		EnvPlatform: &c.AI.Platform,
		EnvModel:    &c.AI.Model,
		EnvBaseURL:  &c.AI.BaseURL,
		EnvStore:    &c.Store.Path,
	} {
		if v, ok := c.lookupEnv(env); ok && v != "" {
			*field = v
		}
	}
}

// LookupEnv resolves key from the environment, then from the .env file.
func (c *Config) LookupEnv(key string) (string, bool) {
	if c.lookupEnv == nil {
		return os.LookupEnv(key)
	}
	return c.lookupEnv(key)
}

// Encode writes the configuration as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func findConfigFile(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
