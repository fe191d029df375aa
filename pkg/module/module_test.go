package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/binford2k/denmark/pkg/errors"
)

func TestModule_LatestPrevious(t *testing.T) {
	var empty *Module
	_, ok := empty.Latest()
	assert.False(t, ok)
	_, ok = (&Module{}).Previous()
	assert.False(t, ok)

	m := &Module{Releases: []Release{{Version: "2.0.0"}, {Version: "1.9.0"}}}
	latest, ok := m.Latest()
	require.True(t, ok)
	assert.Equal(t, "2.0.0", latest.Version)
	prev, ok := m.Previous()
	require.True(t, ok)
	assert.Equal(t, "1.9.0", prev.Version)
	assert.Equal(t, "2.0.0", m.Version())
}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		want Ecosystem
	}{
		{"puppet", Puppet},
		{"Forge", Puppet},
		{"python", Python},
		{"pypi", Python},
		{"ruby", Ruby},
		{"gem", Ruby},
		{" RubyGems ", Ruby},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := Find(tt.name)
			require.NotNil(t, src)
			assert.Equal(t, tt.want, src.Ecosystem)
		})
	}
	assert.Nil(t, Find("npm"))
	assert.Equal(t, []string{"puppet", "python", "ruby"}, Names())
}

func TestResolve_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/modules/nobody-nothing":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer server.Close()

	opts := Options{BaseURL: server.URL, HTTPTimeout: time.Second}
	tests := []struct {
		name      string
		ecosystem string
		module    string
		code      derrors.Code
	}{
		{"unknown ecosystem", "npm", "left-pad", derrors.ErrCodeUnsupportedEcosystem},
		{"bad forge slug", "puppet", "stdlib", derrors.ErrCodeInvalidInput},
		{"empty name", "python", "", derrors.ErrCodeInvalidInput},
		{"not found", "puppet", "nobody-nothing", derrors.ErrCodeModuleNotFound},
		{"registry failure", "puppet", "broken-module", derrors.ErrCodeExternalService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(context.Background(), tt.ecosystem, tt.module, opts)
			require.Error(t, err)
			assert.Equal(t, tt.code, derrors.GetCode(err))
		})
	}
}

const forgeModuleJSON = `{
  "slug": "puppetlabs-stdlib",
  "name": "stdlib",
  "homepage_url": "https://github.com/puppetlabs/puppetlabs-stdlib",
  "issues_url": "https://github.com/puppetlabs/puppetlabs-stdlib/issues",
  "owner": {"username": "puppetlabs"},
  "current_release": {"version": "9.6.0", "metadata": {"source": "https://github.com/puppetlabs/puppetlabs-stdlib"}}
}`

const forgeReleasesJSON = `{"results": [
  {"version": "9.6.0", "created_at": "2024-04-02 10:00:00 -0700", "updated_at": "2024-04-03 11:00:00 -0700", "changelog": "# Changelog"},
  {"version": "9.5.0", "created_at": "2024-02-01 10:00:00 -0700", "updated_at": "2024-02-01 10:00:00 -0700"}
]}`

func TestResolve_Forge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/modules/puppetlabs-stdlib":
			w.Write([]byte(forgeModuleJSON))
		case "/v3/releases":
			w.Write([]byte(forgeReleasesJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	mod, err := Resolve(context.Background(), "puppet", "puppetlabs/stdlib", Options{BaseURL: server.URL})
	require.NoError(t, err)

	assert.Equal(t, "puppetlabs-stdlib", mod.Name)
	assert.Equal(t, Puppet, mod.Ecosystem)
	assert.Equal(t, "https://github.com/puppetlabs/puppetlabs-stdlib", mod.HomepageURL)
	assert.Equal(t, "https://github.com/puppetlabs/puppetlabs-stdlib/issues", mod.IssuesURL)
	require.Len(t, mod.Releases, 2)

	latest := mod.Releases[0]
	assert.Equal(t, "9.6.0", latest.Version)
	assert.Equal(t, time.Date(2024, 4, 3, 18, 0, 0, 0, time.UTC), latest.UpdatedAt.UTC())
	require.NotNil(t, latest.Changelog)
	assert.Equal(t, "# Changelog", *latest.Changelog)
	assert.Nil(t, mod.Releases[1].Changelog)
}

func TestResolve_PyPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/flask/json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
  "info": {"name": "Flask", "version": "3.0.0", "home_page": "",
    "project_urls": {"Source": "https://github.com/pallets/flask/", "Issue Tracker": "https://github.com/pallets/flask/issues/"}},
  "releases": {
    "3.0.0": [{"packagetype": "sdist", "upload_time_iso_8601": "2023-09-30T14:36:12.918Z"}],
    "2.9.9": [{"packagetype": "sdist", "upload_time_iso_8601": "2023-08-01T00:00:00Z", "yanked": true}],
    "2.3.3": [{"packagetype": "sdist", "upload_time_iso_8601": "2023-08-21T15:00:00Z"}]
  }
}`))
	}))
	defer server.Close()

	mod, err := Resolve(context.Background(), "pypi", "Flask", Options{BaseURL: server.URL})
	require.NoError(t, err)

	assert.Equal(t, Python, mod.Ecosystem)
	assert.Equal(t, "https://github.com/pallets/flask", mod.HomepageURL)
	assert.Equal(t, "https://github.com/pallets/flask/issues/", mod.IssuesURL)
	require.Len(t, mod.Releases, 2)
	assert.Equal(t, "3.0.0", mod.Releases[0].Version)
	assert.Equal(t, "2.3.3", mod.Releases[1].Version)
	assert.Nil(t, mod.Releases[0].Changelog)
}

func TestResolve_RubyGems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gems/rack.json":
			w.Write([]byte(`{"name": "rack", "version": "3.0.8",
  "source_code_uri": "https://github.com/rack/rack/tree/v3.0.8",
  "bug_tracker_uri": "https://github.com/rack/rack/issues"}`))
		case "/versions/rack.json":
			w.Write([]byte(`[
  {"number": "3.0.8", "created_at": "2023-06-14T18:00:00.000Z", "platform": "ruby"},
  {"number": "3.0.7", "created_at": "2023-03-16T02:00:00.000Z", "platform": "ruby"}
]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	mod, err := Resolve(context.Background(), "ruby", "Rack", Options{BaseURL: server.URL})
	require.NoError(t, err)

	assert.Equal(t, "rack", mod.Name)
	assert.Equal(t, "https://github.com/rack/rack", mod.HomepageURL)
	assert.Equal(t, "https://github.com/rack/rack/issues", mod.IssuesURL)
	require.Len(t, mod.Releases, 2)
	assert.Equal(t, "3.0.8", mod.Releases[0].Version)
	assert.Equal(t, time.Date(2023, 6, 14, 18, 0, 0, 0, time.UTC), mod.Releases[0].UpdatedAt.UTC())
}

func TestRepositoryURL(t *testing.T) {
	tests := []struct {
		name      string
		urls      map[string]string
		homepage  string
		preferred string
		want      string
	}{
		{
			name:      "preferred link is a repository",
			urls:      map[string]string{"Source": "https://github.com/psf/requests/tree/main"},
			preferred: "https://github.com/psf/requests/tree/main",
			want:      "https://github.com/psf/requests",
		},
		{
			name: "repository found among other links",
			urls: map[string]string{
				"Homepage": "https://requests.readthedocs.io",
				"Changes":  "https://github.com/psf/requests/blob/main/HISTORY.md",
			},
			preferred: "https://requests.readthedocs.io",
			want:      "https://github.com/psf/requests",
		},
		{
			name:      "gitlab homepage",
			homepage:  "https://gitlab.com/group/project",
			preferred: "https://gitlab.com/group/project",
			want:      "https://gitlab.com/group/project",
		},
		{
			name:      "sponsor links are not repositories",
			urls:      map[string]string{"Funding": "https://github.com/sponsors/someone"},
			preferred: "https://example.org",
			want:      "https://example.org",
		},
		{
			name:      "self-hosted forge kept as is",
			preferred: "https://git.example.org/team/tool",
			want:      "https://git.example.org/team/tool",
		},
		{name: "nothing", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repositoryURL(tt.urls, tt.homepage, tt.preferred))
		})
	}
}
