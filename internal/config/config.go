// Package config provides configuration management for docsync.
// It supports a YAML configuration file, environment variables, and sensible defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/klauern/docsync/internal/sync"
	"github.com/klauern/docsync/internal/util"
)

// Config represents the complete docsync configuration.
type Config struct {
	// GitHub configures access to upstream repositories
	GitHub GitHubConfig `yaml:"github"`

	// Sync configures synchronization behavior
	Sync SyncConfig `yaml:"sync"`

	// Docs locates the docs tree used by the sweep and navigation commands
	Docs DocsConfig `yaml:"docs"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// GitHubConfig holds GitHub API settings.
type GitHubConfig struct {
	// TokenEnv names the environment variable holding the API token
	TokenEnv string `yaml:"token_env"`
	// BaseURL overrides the API endpoint (GitHub Enterprise)
	BaseURL string `yaml:"base_url,omitempty"`
	// RequestsPerSecond paces API calls; zero disables pacing
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// SyncConfig holds synchronization settings.
type SyncConfig struct {
	// MappingFile is a YAML or TOML repository mapping; empty uses the built-in table
	MappingFile string `yaml:"mapping_file,omitempty"`
	// DestRoot is the directory synced files are written under
	DestRoot string `yaml:"dest_root"`
	// DefaultRef is the ref used for repositories that declare none
	DefaultRef string `yaml:"default_ref"`
	// Concurrency is the number of files of one repository processed at once
	Concurrency int `yaml:"concurrency"`
	// FetchTimeout bounds each upstream fetch
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// ComparePolicy is exact or normalize-eol
	ComparePolicy string `yaml:"compare_policy"`
	// RewriteLinks turns relative links into absolute repository URLs
	RewriteLinks bool `yaml:"rewrite_links"`
	// DryRun reports changes without writing
	DryRun bool `yaml:"dry_run"`
}

// DocsConfig holds docs tree settings.
type DocsConfig struct {
	// Root is the docs directory scanned by sweeps and navigation checks
	Root string `yaml:"root"`
	// Sidebar is the navigation configuration file
	Sidebar string `yaml:"sidebar"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
}

// DefaultTokenEnv is the environment variable read for the GitHub token.
const DefaultTokenEnv = "GITHUB_TOKEN"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			TokenEnv:          DefaultTokenEnv,
			RequestsPerSecond: 10,
		},
		Sync: SyncConfig{
			DestRoot:      ".",
			DefaultRef:    sync.FallbackRef,
			Concurrency:   1,
			FetchTimeout:  sync.DefaultFetchTimeout,
			ComparePolicy: string(sync.DefaultPolicy),
		},
		Docs: DocsConfig{
			Root:    "docs",
			Sidebar: "sidebars.ts",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// FileName is the config file looked up in the working directory.
const FileName = ".docsync.yaml"

// FilePath returns the path to the config file. DOCSYNC_CONFIG overrides the
// default of FileName in the working directory.
func FilePath() string {
	if v := os.Getenv("DOCSYNC_CONFIG"); v != "" {
		return util.ExpandPath(v, "")
	}
	return FileName
}

// Load loads the configuration from FilePath, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg, err := LoadFromPath(FilePath())
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.applyEnvironment()
		return cfg, nil
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern DOCSYNC_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	// GitHub settings
	if v := os.Getenv("DOCSYNC_GITHUB_TOKEN_ENV"); v != "" {
		c.GitHub.TokenEnv = v
	}
	if v := os.Getenv("DOCSYNC_GITHUB_BASE_URL"); v != "" {
		c.GitHub.BaseURL = v
	}
	if v := os.Getenv("DOCSYNC_GITHUB_REQUESTS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.GitHub.RequestsPerSecond = f
		}
	}

	// Sync settings
	if v := os.Getenv("DOCSYNC_SYNC_MAPPING_FILE"); v != "" {
		c.Sync.MappingFile = v
	}
	if v := os.Getenv("DOCSYNC_SYNC_DEST_ROOT"); v != "" {
		c.Sync.DestRoot = v
	}
	if v := os.Getenv("DOCSYNC_SYNC_DEFAULT_REF"); v != "" {
		c.Sync.DefaultRef = v
	}
	if v := os.Getenv("DOCSYNC_SYNC_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Sync.Concurrency = n
		}
	}
	if v := os.Getenv("DOCSYNC_SYNC_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Sync.FetchTimeout = d
		}
	}
	if v := os.Getenv("DOCSYNC_SYNC_COMPARE_POLICY"); v != "" {
		c.Sync.ComparePolicy = v
	}
	if v := os.Getenv("DOCSYNC_SYNC_REWRITE_LINKS"); v != "" {
		c.Sync.RewriteLinks = parseBool(v)
	}
	if v := os.Getenv("DOCSYNC_SYNC_DRY_RUN"); v != "" {
		c.Sync.DryRun = parseBool(v)
	}

	// Docs settings
	if v := os.Getenv("DOCSYNC_DOCS_ROOT"); v != "" {
		c.Docs.Root = v
	}
	if v := os.Getenv("DOCSYNC_DOCS_SIDEBAR"); v != "" {
		c.Docs.Sidebar = v
	}

	// Output settings
	if v := os.Getenv("DOCSYNC_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// GetComparePolicy returns the compare policy from config, validating it.
func (c *Config) GetComparePolicy() sync.ComparePolicy {
	policy := sync.ComparePolicy(c.Sync.ComparePolicy)
	if policy.IsValid() {
		return policy
	}
	return sync.DefaultPolicy
}

// Token returns the GitHub token from the configured environment variable,
// falling back to GITHUB_TOKEN.
func (c *Config) Token() string {
	if c.GitHub.TokenEnv != "" {
		if v := os.Getenv(c.GitHub.TokenEnv); v != "" {
			return v
		}
	}
	return os.Getenv(DefaultTokenEnv)
}

// Validate checks value ranges. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	if c.Sync.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("sync.concurrency must be at least 1, got %d", c.Sync.Concurrency))
	}
	if c.Sync.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("sync.fetch_timeout must not be negative, got %s", c.Sync.FetchTimeout))
	}
	if _, err := sync.ParsePolicy(c.Sync.ComparePolicy); err != nil {
		errs = append(errs, fmt.Errorf("sync.compare_policy: %w", err))
	}
	if c.GitHub.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("github.requests_per_second must not be negative, got %v", c.GitHub.RequestsPerSecond))
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color))
	}
	return errors.Join(errs...)
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
