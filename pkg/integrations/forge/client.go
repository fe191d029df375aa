package forge

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/binford2k/denmark/pkg/cache"
	"github.com/binford2k/denmark/pkg/integrations"
)

// DefaultBaseURL is the public Puppet Forge API.
const DefaultBaseURL = "https://forgeapi.puppet.com"

// releasesPerPage is the Forge's maximum page size. Only the newest releases
// matter, so a single page is read.
const releasesPerPage = 100

// ModuleInfo holds metadata for a Puppet module from the Forge.
//
// Releases are ordered newest first and may be empty.
type ModuleInfo struct {
	Slug           string    // owner-name
	Name           string    // module short name
	Owner          string    // owner username
	HomepageURL    string    // homepage_url, usually the source repository
	SourceURL      string    // current_release.metadata.source
	IssuesURL      string    // issues_url (may be empty)
	CurrentVersion string    // version of current_release
	Deprecated     bool      // the owner deprecated the module
	Releases       []Release // newest first
}

// RepositoryURL returns the best source-control URL: the homepage, else the
// metadata source, else the project page.
func (m *ModuleInfo) RepositoryURL() string {
	if m.HomepageURL != "" {
		return m.HomepageURL
	}
	return m.SourceURL
}

// Release is one published module version.
type Release struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Changelog *string   `json:"changelog,omitempty"`
}

// Client provides access to the Puppet Forge v3 API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Forge client. userAgent identifies the tool to the
// Forge, which asks every client to send one.
func NewClient(backend cache.Cache, userAgent string, cacheTTL time.Duration) *Client {
	headers := map[string]string{"Accept": "application/json"}
	if userAgent != "" {
		headers["User-Agent"] = userAgent
	}
	return &Client{
		Client:  integrations.NewClient(backend, "forge:", cacheTTL, headers),
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL points the client at another Forge (a private mirror, tests).
func (c *Client) SetBaseURL(u string) {
	if u != "" {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// NormalizeSlug converts "owner/name" to the Forge's canonical "owner-name"
// and lowercases the module part.
func NormalizeSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	owner, name, ok := strings.Cut(strings.Replace(slug, "/", "-", 1), "-")
	if !ok {
		return slug
	}
	return owner + "-" + strings.ToLower(name)
}

// FetchModule retrieves a module and its releases.
//
// Returns an error wrapping [integrations.ErrNotFound] if the module doesn't
// exist on the Forge.
func (c *Client) FetchModule(ctx context.Context, slug string, refresh bool) (*ModuleInfo, error) {
	slug = NormalizeSlug(slug)

	var info ModuleInfo
	err := c.Cached(ctx, slug, refresh, &info, func() error {
		return c.fetch(ctx, slug, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, slug string, info *ModuleInfo) error {
	var mod moduleResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/v3/modules/%s", c.baseURL, url.PathEscape(slug)), &mod); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: forge module %s", err, slug)
		}
		return err
	}

	params := url.Values{}
	params.Set("module", slug)
	params.Set("sort_by", "release_date")
	params.Set("limit", fmt.Sprint(releasesPerPage))

	var rels releasesResponse
	if err := c.Get(ctx, c.baseURL+"/v3/releases?"+params.Encode(), &rels); err != nil {
		return err
	}

	*info = ModuleInfo{
		Slug:           mod.Slug,
		Name:           mod.Name,
		Owner:          mod.Owner.Username,
		HomepageURL:    strings.TrimSpace(mod.HomepageURL),
		SourceURL:      strings.TrimSpace(mod.CurrentRelease.Metadata.Source),
		IssuesURL:      firstNonEmpty(mod.IssuesURL, mod.CurrentRelease.Metadata.IssuesURL),
		CurrentVersion: mod.CurrentRelease.Version,
		Deprecated:     mod.Deprecated != nil && !mod.Deprecated.IsZero(),
	}
	if info.HomepageURL == "" && info.SourceURL == "" {
		info.SourceURL = strings.TrimSpace(mod.CurrentRelease.Metadata.ProjectPage)
	}
	for _, r := range rels.Results {
		info.Releases = append(info.Releases, Release{
			Version:   r.Version,
			CreatedAt: r.CreatedAt.Time,
			UpdatedAt: r.UpdatedAt.Time,
			Changelog: r.Changelog,
		})
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
