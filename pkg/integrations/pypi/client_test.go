package pypi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/binford2k/denmark/pkg/cache"
	"github.com/binford2k/denmark/pkg/integrations"
)

const flaskJSON = `{
	"info": {
		"name": "Flask",
		"version": "3.0.1",
		"summary": "A simple framework for building complex web applications.",
		"license": "BSD-3-Clause",
		"classifiers": ["License :: OSI Approved :: BSD License"],
		"home_page": "",
		"project_urls": {
			"Documentation": "https://flask.palletsprojects.com/",
			"Source": "https://github.com/pallets/flask/",
			"Issue Tracker": "https://github.com/pallets/flask/issues/"
		}
	},
	"releases": {
		"3.0.0": [
			{"packagetype": "bdist_wheel", "upload_time_iso_8601": "2023-09-30T14:36:12.918Z"},
			{"packagetype": "sdist", "upload_time_iso_8601": "2023-09-30T14:36:15.000Z"}
		],
		"3.0.1": [
			{"packagetype": "sdist", "upload_time_iso_8601": "2024-01-18T20:03:32.000Z"}
		],
		"0.0.1": []
	}
}`

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c := NewClient(cache.NewMemoryCache(), 0)
	c.SetBaseURL(serverURL)
	return c
}

func TestClient_FetchPackage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/flask/json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(flaskJSON))
	}))
	defer server.Close()

	info, err := testClient(t, server.URL).FetchPackage(context.Background(), "Flask", true)
	if err != nil {
		t.Fatalf("FetchPackage failed: %v", err)
	}

	if info.Name != "flask" {
		t.Errorf("expected normalized name flask, got %s", info.Name)
	}
	if info.License != "BSD License" {
		t.Errorf("license = %q", info.License)
	}
	if info.SourceURL() != "https://github.com/pallets/flask/" {
		t.Errorf("SourceURL() = %q", info.SourceURL())
	}
	if info.IssuesURL() != "https://github.com/pallets/flask/issues/" {
		t.Errorf("IssuesURL() = %q", info.IssuesURL())
	}

	if len(info.Releases) != 2 {
		t.Fatalf("releases = %+v, want 2 (empty release skipped)", info.Releases)
	}
	if info.Releases[0].Version != "3.0.1" || info.Releases[1].Version != "3.0.0" {
		t.Errorf("releases not newest first: %+v", info.Releases)
	}
	if got := info.Releases[1].UploadedAt.Second(); got != 15 {
		t.Errorf("3.0.0 should be dated by its sdist, got second %d", got)
	}
}

func TestClient_FetchPackage_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := testClient(t, server.URL).FetchPackage(context.Background(), "missing-pkg", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSourceURLFallsBackToHomePage(t *testing.T) {
	p := &PackageInfo{HomePage: "https://gitlab.com/group/project"}
	if got := p.SourceURL(); got != "https://gitlab.com/group/project" {
		t.Errorf("SourceURL() = %q", got)
	}
}

func TestExtractLicenseType(t *testing.T) {
	tests := []struct {
		license     string
		classifiers []string
		want        string
	}{
		{"", []string{"License :: OSI Approved :: MIT License"}, "MIT License"},
		{"Apache-2.0", nil, "Apache-2.0"},
		{"", nil, ""},
	}
	for _, tt := range tests {
		if got := extractLicenseType(tt.license, tt.classifiers); got != tt.want {
			t.Errorf("extractLicenseType(%q) = %q, want %q", tt.license, got, tt.want)
		}
	}
}
