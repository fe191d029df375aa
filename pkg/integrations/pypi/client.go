package pypi

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/binford2k/denmark/pkg/cache"
	"github.com/binford2k/denmark/pkg/integrations"
)

// DefaultBaseURL is the PyPI JSON API root.
const DefaultBaseURL = "https://pypi.org/pypi"

// PackageInfo holds metadata for a Python package from PyPI.
//
// Package names are normalized following PEP 503 (lowercase, underscores→hyphens).
// Releases are ordered newest first by upload time; versions with no uploaded
// files are omitted.
type PackageInfo struct {
	Name        string            // Normalized package name (e.g., "fastapi", never empty in valid info)
	Version     string            // Latest version string (e.g., "0.104.1")
	ProjectURLs map[string]string // Project URLs from metadata (e.g., "Homepage", "Source", may be nil)
	HomePage    string            // home_page field (may be empty)
	Summary     string            // Short package description (may be empty)
	License     string            // License name or expression (may be empty)
	Author      string            // Author name (may be empty)
	Releases    []Release         // newest first
}

// SourceURL returns the most likely source repository link: project URLs
// labelled Source, Repository, Code or Homepage, then home_page.
func (p *PackageInfo) SourceURL() string {
	return integrations.PickURL(p.ProjectURLs, integrations.RepoURLKeys, p.HomePage)
}

// IssuesURL returns the project's issue tracker link, if declared.
func (p *PackageInfo) IssuesURL() string {
	return integrations.PickURL(p.ProjectURLs, []string{"Issues", "Bug Tracker", "Tracker", "Issue Tracker"})
}

// Release is a published version, dated by its source distribution upload
// (or its first file when no sdist exists).
type Release struct {
	Version    string    `json:"version"`
	UploadedAt time.Time `json:"uploaded_at"`
	Yanked     bool      `json:"yanked"`
}

// Client provides access to the PyPI package registry API.
// It handles HTTP requests with memoization and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for response memoization (nil disables it)
//   - cacheTTL: How long responses are kept (zero keeps them for the run)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "pypi:", cacheTTL, nil),
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL points the client at another index (a mirror, tests).
func (c *Client) SetBaseURL(u string) {
	if u != "" {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// FetchPackage retrieves metadata for a Python package from PyPI.
//
// The pkg parameter is normalized automatically (case-insensitive, underscores→hyphens).
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - PackageInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the package doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - [integrations.ErrDecode] for malformed responses
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = integrations.NormalizePkgName(pkg)

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}

	urls := make(map[string]string, len(data.Info.ProjectURLs))
	for k, v := range data.Info.ProjectURLs {
		if s, ok := v.(string); ok {
			urls[k] = s
		}
	}

	*info = PackageInfo{
		Name:        integrations.NormalizePkgName(data.Info.Name),
		Version:     data.Info.Version,
		Summary:     data.Info.Summary,
		License:     extractLicenseType(data.Info.License, data.Info.Classifiers),
		ProjectURLs: urls,
		HomePage:    data.Info.HomePage,
		Author:      data.Info.Author,
		Releases:    releases(data.Releases),
	}
	return nil
}

func releases(raw map[string][]apiFile) []Release {
	var out []Release
	for version, files := range raw {
		if len(files) == 0 {
			continue
		}
		f := files[0]
		if i := slices.IndexFunc(files, func(f apiFile) bool { return f.PackageType == "sdist" }); i >= 0 {
			f = files[i]
		}
		out = append(out, Release{Version: version, UploadedAt: f.UploadTime.UTC(), Yanked: f.Yanked})
	}
	slices.SortFunc(out, func(a, b Release) int {
		if c := b.UploadedAt.Compare(a.UploadedAt); c != 0 {
			return c
		}
		return strings.Compare(b.Version, a.Version)
	})
	return out
}

type apiResponse struct {
	Info     apiInfo              `json:"info"`
	Releases map[string][]apiFile `json:"releases"`
}

type apiInfo struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Summary     string         `json:"summary"`
	License     string         `json:"license"`
	Classifiers []string       `json:"classifiers"`
	ProjectURLs map[string]any `json:"project_urls"`
	HomePage    string         `json:"home_page"`
	Author      string         `json:"author"`
}

type apiFile struct {
	PackageType string    `json:"packagetype"`
	UploadTime  time.Time `json:"upload_time_iso_8601"`
	Yanked      bool      `json:"yanked"`
}

// extractLicenseType extracts a short license identifier from PyPI data.
// It prefers the classifier (e.g., "License :: OSI Approved :: MIT License" -> "MIT License")
// and falls back to the license field if it's short enough.
func extractLicenseType(license string, classifiers []string) string {
	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, " :: ")
			if len(parts) >= 3 {
				return parts[len(parts)-1]
			}
		}
	}

	if license != "" && len(license) < 100 && !strings.Contains(license, "\n") {
		return strings.TrimSpace(license)
	}

	if license != "" {
		firstLine := strings.TrimSpace(strings.Split(license, "\n")[0])
		if len(firstLine) < 50 {
			return firstLine
		}
	}

	return ""
}
