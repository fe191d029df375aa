package rubygems

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/binford2k/denmark/pkg/cache"
	"github.com/binford2k/denmark/pkg/integrations"
)

func TestClient_FetchGem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gems/rails.json":
			json.NewEncoder(w).Encode(gemResponse{
				Name:          "rails",
				Version:       "7.1.0",
				Info:          "Ruby on Rails is a full-stack web framework",
				Licenses:      []string{"MIT", "Apache-2.0"},
				SourceCodeURI: "https://github.com/rails/rails",
				HomepageURI:   "https://rubyonrails.org",
				BugTrackerURI: "https://github.com/rails/rails/issues",
			})
		case "/versions/rails.json":
			json.NewEncoder(w).Encode([]Version{
				{Number: "7.1.0", CreatedAt: time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC), Platform: "ruby"},
				{Number: "7.1.0", CreatedAt: time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC), Platform: "java"},
				{Number: "7.0.8", CreatedAt: time.Date(2023, 9, 9, 0, 0, 0, 0, time.UTC), Platform: "ruby"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	info, err := testClient(t, server.URL).FetchGem(context.Background(), " Rails ", true)
	if err != nil {
		t.Fatalf("FetchGem failed: %v", err)
	}

	if info.Name != "rails" {
		t.Errorf("expected name rails, got %s", info.Name)
	}
	if info.License != "MIT, Apache-2.0" {
		t.Errorf("license = %q", info.License)
	}
	if info.SourceURL() != "https://github.com/rails/rails" {
		t.Errorf("SourceURL() = %q", info.SourceURL())
	}
	if len(info.Versions) != 2 {
		t.Fatalf("versions = %+v, want platform builds dropped", info.Versions)
	}
	if info.Versions[0].Number != "7.1.0" || info.Versions[1].Number != "7.0.8" {
		t.Errorf("versions order = %+v", info.Versions)
	}
}

func TestClient_FetchGem_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := testClient(t, server.URL).FetchGem(context.Background(), "missing-gem", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSourceURLFallback(t *testing.T) {
	g := &GemInfo{HomepageURI: "https://gitlab.com/a/b"}
	if g.SourceURL() != "https://gitlab.com/a/b" {
		t.Errorf("SourceURL() = %q", g.SourceURL())
	}
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c := NewClient(cache.NewNullCache(), time.Hour)
	c.SetBaseURL(serverURL)
	return c
}
