package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults
const (
	DefaultOrg        = "horde"
	DefaultHost       = "https://github.com"
	DefaultAPIURL     = "https://api.github.com/"
	DefaultRawURL     = "https://raw.githubusercontent.com"
	DefaultMarkerFile = "horde.yml"
	DefaultUserAgent  = "orgit"
	DefaultCacheTTL   = 24 * time.Hour
	DefaultTimeout    = 30 * time.Second
	DefaultRetries    = 2
)

// GitHubConfig holds the endpoints used to list and clone repositories.
type GitHubConfig struct {
	Host      string `toml:"host"`       // clone URLs are <host>/<org>/<name>.git
	APIURL    string `toml:"api_url"`    // REST API base, with trailing slash
	RawURL    string `toml:"raw_url"`    // raw file host used for the marker probe
	UserAgent string `toml:"user_agent"` // sent with every request
}

// MarkerConfig selects the file a remote repository must contain to be listed.
type MarkerConfig struct {
	File string `toml:"file"`
	Ref  string `toml:"ref"` // empty = the repository's default branch
}

// CacheConfig holds settings for caching API responses.
type CacheConfig struct {
	Enabled bool          `toml:"enabled"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
}

// HTTPConfig holds transport settings.
type HTTPConfig struct {
	Timeout time.Duration `toml:"timeout"`
	Retries int           `toml:"retries"`
}

// Config holds the orgit configuration
type Config struct {
	GitBase      string       `toml:"git_base"`
	Org          string       `toml:"org"`
	Repositories []string     `toml:"repositories"` // empty = every repository
	UseGitGet    bool         `toml:"use_git_get"`
	GitBinary    string       `toml:"git_binary"`
	GitHub       GitHubConfig `toml:"github"`
	Marker       MarkerConfig `toml:"marker"`
	Cache        CacheConfig  `toml:"cache"`
	HTTP         HTTPConfig   `toml:"http"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Org:       DefaultOrg,
		GitBinary: "git",
		GitHub: GitHubConfig{
			Host:      DefaultHost,
			APIURL:    DefaultAPIURL,
			RawURL:    DefaultRawURL,
			UserAgent: DefaultUserAgent,
		},
		Marker: MarkerConfig{File: DefaultMarkerFile},
		Cache:  CacheConfig{TTL: DefaultCacheTTL},
		HTTP:   HTTPConfig{Timeout: DefaultTimeout, Retries: DefaultRetries},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the config file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "orgit", "config.toml"), nil
}

// Load reads config from ~/.config/orgit/config.toml and applies environment
// overrides. Returns Default() with overrides if the file doesn't exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		if err := finish(&cfg); err != nil {
			return Default(), err
		}
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads config from path. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := finish(&cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// finish applies env overrides, fills empty values with defaults, validates
// and expands paths.
func finish(cfg *Config) error {
	applyEnvOverrides(cfg)
	fillDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return err
	}

	var err error
	if cfg.GitBase, err = expandPath(cfg.GitBase); err != nil {
		return fmt.Errorf("expand git_base: %w", err)
	}
	if cfg.Cache.Dir, err = expandPath(cfg.Cache.Dir); err != nil {
		return fmt.Errorf("expand cache.dir: %w", err)
	}
	return nil
}

// Environment variables that override the config file.
const (
	EnvGitBase  = "ORGIT_GIT_BASE"
	EnvOrg      = "ORGIT_ORG"
	EnvCacheDir = "ORGIT_CACHE_DIR"
)

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvGitBase); v != "" {
		cfg.GitBase = v
	}
	if v := os.Getenv(EnvOrg); v != "" {
		cfg.Org = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		cfg.Cache.Dir = v
	}
}

func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.Org == "" {
		cfg.Org = def.Org
	}
	if cfg.GitBinary == "" {
		cfg.GitBinary = def.GitBinary
	}
	if cfg.GitHub.Host == "" {
		cfg.GitHub.Host = def.GitHub.Host
	}
	if cfg.GitHub.APIURL == "" {
		cfg.GitHub.APIURL = def.GitHub.APIURL
	}
	if cfg.GitHub.RawURL == "" {
		cfg.GitHub.RawURL = def.GitHub.RawURL
	}
	if cfg.GitHub.UserAgent == "" {
		cfg.GitHub.UserAgent = def.GitHub.UserAgent
	}
	if cfg.Marker.File == "" {
		cfg.Marker.File = def.Marker.File
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = def.Cache.TTL
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = def.HTTP.Timeout
	}
}

// Validate checks paths, URLs and numeric settings.
func Validate(cfg *Config) error {
	if err := ValidatePath(cfg.GitBase, "git_base"); err != nil {
		return err
	}
	if err := ValidatePath(cfg.Cache.Dir, "cache.dir"); err != nil {
		return err
	}
	for field, raw := range map[string]string{
		"github.host":    cfg.GitHub.Host,
		"github.api_url": cfg.GitHub.APIURL,
		"github.raw_url": cfg.GitHub.RawURL,
	} {
		if err := validateURL(raw, field); err != nil {
			return err
		}
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache.ttl %s: must not be negative", cfg.Cache.TTL)
	}
	if cfg.HTTP.Timeout < 0 {
		return fmt.Errorf("invalid http.timeout %s: must not be negative", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.Retries < 0 {
		return fmt.Errorf("invalid http.retries %d: must not be negative", cfg.HTTP.Retries)
	}
	return nil
}

func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if err := validateEnum(u.Scheme, field+" scheme", ValidURLSchemes); err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute http(s) URL", field, raw)
	}
	return nil
}

const defaultConfig = `# orgit configuration

# Directory holding the local checkouts. Libraries are cloned directly into it,
# applications (names starting with a lowercase letter) into <git_base>/applications.
# Must be an absolute path or start with ~
# Can be overridden with ORGIT_GIT_BASE or --git-base.
# git_base = "~/horde"

# GitHub organization to list and clone (ORGIT_ORG, --org)
org = "horde"

# Only act on these repositories (--repositories=a,b)
# repositories = ["Horde_Core", "imp"]

# Update with "git get" instead of "git pull" (--use-git-get)
use_git_get = false

# [github]
# host = "https://github.com"                  # clone URLs: <host>/<org>/<name>.git
# api_url = "https://api.github.com/"          # GitHub Enterprise: https://ghe.example.com/api/v3/
# raw_url = "https://raw.githubusercontent.com"
# user_agent = "orgit"

# Remote repositories are only listed when they contain this file.
# [marker]
# file = "horde.yml"
# ref = "master"      # default: each repository's default branch

# Cache organization listings on disk (--cache)
# [cache]
# enabled = false
# dir = "~/.cache/orgit"   # ORGIT_CACHE_DIR
# ttl = "24h"

# [http]
# timeout = "30s"
# retries = 2
`

// Init creates a default config file at ~/.config/orgit/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return InitFile(path, force)
}

// InitFile writes the default config to path.
func InitFile(path string, force bool) (string, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return path, nil
}
