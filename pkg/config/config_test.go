package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/binford2k/denmark/pkg/errors"
)

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "denmark", "config.toml"), path)

	t.Setenv("XDG_CONFIG_HOME", "")
	path, err = DefaultPath()
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "denmark", "config.toml"), path)
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[github]
token = "ghp_abc"

[gitlab]
endpoint = "https://gitlab.example.com/api/v4"

[plugins]
enable = ["issues", "timeline"]
disable = ["timeline"]

[http]
timeout = "5s"
max_pages = 3
`)
	require.NoError(t, err)

	assert.Equal(t, "ghp_abc", cfg.GitHub.Token)
	assert.Equal(t, "https://gitlab.example.com/api/v4", cfg.GitLab.Endpoint)
	assert.Equal(t, []string{"issues", "timeline"}, cfg.Plugins.Enable)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout.Duration)
	assert.Equal(t, 30*time.Second, cfg.HTTP.CallTimeout.Duration, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.HTTP.MaxPages)

	rc := cfg.Repository(nil, nil)
	assert.Equal(t, "ghp_abc", rc.GitHubToken)
	assert.Equal(t, 5*time.Second, rc.HTTPTimeout)
	assert.Equal(t, 3, rc.MaxPages)

	opts := cfg.PluginOptions([]string{"metadata"}, nil, nil)
	assert.Equal(t, []string{"issues", "timeline", "metadata"}, opts.Enable)
	assert.Equal(t, []string{"timeline"}, opts.Disable)
	assert.Equal(t, []string{"issues", "timeline"}, cfg.Plugins.Enable, "PluginOptions must not alias")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[github`},
		{"unknown key", "[github]\ntoken = \"x\"\ntokn = \"y\"\n"},
		{"bad duration", "[http]\ntimeout = \"soon\"\n"},
		{"bad endpoint", "[github]\nendpoint = \"ftp://example.com\"\n"},
		{"negative pages", "[http]\nmax_pages = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.Error(t, err)
			assert.True(t, derrors.Is(err, derrors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GITHUB_TOKEN", "from-env")
	t.Setenv("GITLAB_TOKEN", "")

	// Missing default file: defaults plus environment.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GitHub.Token)
	assert.Equal(t, 10, cfg.HTTP.MaxPages)

	// Missing explicit file is an error.
	_, err = Load(filepath.Join(dir, "nope.toml"))
	assert.True(t, derrors.Is(err, derrors.ErrCodeInvalidConfig))

	// File tokens win over the environment.
	path := filepath.Join(dir, "denmark", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[github]\ntoken = \"from-file\"\n"), 0o600))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.GitHub.Token)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{"GITHUB_TOKEN": " gh ", "GITLAB_TOKEN": "gl"}
	cfg := Default()
	cfg.GitLab.Token = "kept"
	cfg.ApplyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "gh", cfg.GitHub.Token)
	assert.Equal(t, "kept", cfg.GitLab.Token)
}
