package rubygems

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/binford2k/denmark/pkg/cache"
	"github.com/binford2k/denmark/pkg/integrations"
)

// DefaultBaseURL is the RubyGems.org API root.
const DefaultBaseURL = "https://rubygems.org/api/v1"

// GemInfo holds metadata for a Ruby gem from RubyGems.
//
// Gem names are normalized to lowercase. Versions are ordered newest first,
// as the versions endpoint returns them.
type GemInfo struct {
	Name          string    // Gem name, normalized lowercase (e.g., "rails", never empty in valid info)
	Version       string    // Current version (e.g., "7.1.2", never empty in valid info)
	SourceCodeURI string    // Source code repository URL (may be empty)
	HomepageURI   string    // Homepage URL (may be empty)
	BugTrackerURI string    // Issue tracker URL (may be empty)
	ChangelogURI  string    // Changelog URL (may be empty)
	Description   string    // Gem description/info (may be empty)
	License       string    // License(s), comma-separated if multiple (may be empty)
	Downloads     int       // Total download count (0 for new gems)
	Authors       string    // Author name(s) (may be empty)
	Versions      []Version // newest first
}

// SourceURL returns the source code URI, else the homepage.
func (g *GemInfo) SourceURL() string {
	if g.SourceCodeURI != "" {
		return g.SourceCodeURI
	}
	return g.HomepageURI
}

// Version is one published gem version.
type Version struct {
	Number     string    `json:"number"`
	CreatedAt  time.Time `json:"created_at"`
	Prerelease bool      `json:"prerelease"`
	Platform   string    `json:"platform"`
}

// Client provides access to the RubyGems package registry API.
// It handles HTTP requests with memoization and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a RubyGems client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for response memoization (nil disables it)
//   - cacheTTL: How long responses are kept (zero keeps them for the run)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "rubygems:", cacheTTL, nil),
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL points the client at another gem server (tests, mirrors).
func (c *Client) SetBaseURL(u string) {
	if u != "" {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// FetchGem retrieves metadata and the version history for a Ruby gem.
//
// The gem parameter is normalized to lowercase with whitespace trimmed.
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - GemInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the gem doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchGem(ctx context.Context, gem string, refresh bool) (*GemInfo, error) {
	gem = strings.ToLower(strings.TrimSpace(gem))

	var info GemInfo
	err := c.Cached(ctx, gem, refresh, &info, func() error {
		return c.fetch(ctx, gem, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, gem string, info *GemInfo) error {
	var data gemResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/gems/%s.json", c.baseURL, gem), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: gem %s", err, gem)
		}
		return err
	}

	var versions []Version
	if err := c.Get(ctx, fmt.Sprintf("%s/versions/%s.json", c.baseURL, gem), &versions); err != nil {
		return err
	}

	*info = GemInfo{
		Name:          strings.ToLower(data.Name),
		Version:       data.Version,
		Description:   data.Info,
		License:       strings.Join(data.Licenses, ", "),
		SourceCodeURI: data.SourceCodeURI,
		HomepageURI:   data.HomepageURI,
		BugTrackerURI: data.BugTrackerURI,
		ChangelogURI:  data.ChangelogURI,
		Downloads:     data.Downloads,
		Authors:       data.Authors,
		Versions:      rubyPlatformOnly(versions),
	}
	return nil
}

// rubyPlatformOnly drops platform-specific builds (java, x86_64-linux, ...),
// which duplicate the version number of the pure-ruby release.
func rubyPlatformOnly(versions []Version) []Version {
	out := make([]Version, 0, len(versions))
	for _, v := range versions {
		if v.Platform == "" || v.Platform == "ruby" {
			out = append(out, v)
		}
	}
	return out
}

type gemResponse struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Info          string   `json:"info"`
	Licenses      []string `json:"licenses"`
	SourceCodeURI string   `json:"source_code_uri"`
	HomepageURI   string   `json:"homepage_uri"`
	BugTrackerURI string   `json:"bug_tracker_uri"`
	ChangelogURI  string   `json:"changelog_uri"`
	Downloads     int      `json:"downloads"`
	Authors       string   `json:"authors"`
}
