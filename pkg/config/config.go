// Package config loads denmark's TOML configuration.
//
// The default file lives at $XDG_CONFIG_HOME/denmark/config.toml (falling
// back to ~/.config/denmark/config.toml). A missing default file is not an
// error; a missing file named explicitly is. GITHUB_TOKEN and GITLAB_TOKEN
// fill in tokens the file leaves empty.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/binford2k/denmark/pkg/cache"
	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/repository"
	"github.com/binford2k/denmark/pkg/smell"
)

const appName = "denmark"

// Config is the complete configuration.
type Config struct {
	GitHub  Provider `toml:"github"`
	GitLab  Provider `toml:"gitlab"`
	Plugins Plugins  `toml:"plugins"`
	HTTP    HTTP     `toml:"http"`
}

// Provider holds credentials for one git-hosting service.
type Provider struct {
	Token    string `toml:"token"`
	Endpoint string `toml:"endpoint"` // API root; empty uses the public service
}

// Plugins selects smell tests. See smell.Options for the semantics.
type Plugins struct {
	Enable  []string `toml:"enable"`
	Disable []string `toml:"disable"`
}

// HTTP bounds remote calls.
type HTTP struct {
	Timeout     Duration `toml:"timeout"`      // per HTTP round trip
	CallTimeout Duration `toml:"call_timeout"` // per provider operation, retries included
	MaxPages    int      `toml:"max_pages"`    // pagination cap for list endpoints
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		HTTP: HTTP{
			Timeout:     Duration{30 * time.Second},
			CallTimeout: Duration{repository.DefaultCallTimeout},
			MaxPages:    10,
		},
	}
}

// DefaultPath returns the XDG location of the config file.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults, then applies the
// environment. An empty path means DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg := Default()
			cfg.ApplyEnv(os.Getenv)
			return cfg, nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// no file yet: defaults
	case errors.Is(err, fs.ErrNotExist):
		return nil, derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "config file %s not found", path)
	case err != nil:
		return nil, derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "parse %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, derrors.New(derrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without consulting the
// environment.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, derrors.New(derrors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv fills empty tokens from GITHUB_TOKEN and GITLAB_TOKEN.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.GitHub.Token == "" {
		c.GitHub.Token = strings.TrimSpace(getenv("GITHUB_TOKEN"))
	}
	if c.GitLab.Token == "" {
		c.GitLab.Token = strings.TrimSpace(getenv("GITLAB_TOKEN"))
	}
}

// Validate checks endpoints and limits.
func (c *Config) Validate() error {
	for name, endpoint := range map[string]string{"github": c.GitHub.Endpoint, "gitlab": c.GitLab.Endpoint} {
		if endpoint == "" {
			continue
		}
		if err := derrors.ValidateURL(endpoint); err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "%s.endpoint", name)
		}
	}
	if c.HTTP.Timeout.Duration < 0 || c.HTTP.CallTimeout.Duration < 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "http timeouts cannot be negative")
	}
	if c.HTTP.MaxPages < 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "http.max_pages cannot be negative")
	}
	return nil
}

// Repository returns the provider configuration for one evaluation.
func (c *Config) Repository(backend cache.Cache, logger *log.Logger) repository.Config {
	return repository.Config{
		GitHubToken:    c.GitHub.Token,
		GitHubEndpoint: c.GitHub.Endpoint,
		GitLabToken:    c.GitLab.Token,
		GitLabEndpoint: c.GitLab.Endpoint,
		CallTimeout:    c.HTTP.CallTimeout.Duration,
		HTTPTimeout:    c.HTTP.Timeout.Duration,
		MaxPages:       c.HTTP.MaxPages,
		Cache:          backend,
		Logger:         logger,
	}
}

// PluginOptions returns the plugin selection, with extra enable and disable
// names (from flags or query parameters) appended.
func (c *Config) PluginOptions(enable, disable []string, logger *log.Logger) smell.Options {
	return smell.Options{
		Enable:  append(append([]string(nil), c.Plugins.Enable...), enable...),
		Disable: append(append([]string(nil), c.Plugins.Disable...), disable...),
		Logger:  logger,
	}
}
