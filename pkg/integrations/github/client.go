package github

import (
	"cmp"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/binford2k/denmark/pkg/cache"
	"github.com/binford2k/denmark/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

var repoURLPattern = regexp.MustCompile(`https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:[/?#]|$)`)

// Client provides access to the GitHub REST API (v3).
// It handles HTTP requests with memoization, automatic retries, and optional
// authentication.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL  string
	maxPages int
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty token for unauthenticated requests (lower rate limits).
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:   integrations.NewClient(backend, "github:", cacheTTL, headers),
		baseURL:  DefaultBaseURL,
		maxPages: integrations.DefaultMaxPages,
	}
}

// SetBaseURL points the client at another API root (GitHub Enterprise, tests).
func (c *Client) SetBaseURL(u string) {
	if u != "" {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// SetMaxPages bounds how many pages list endpoints follow.
func (c *Client) SetMaxPages(n int) {
	if n > 0 {
		c.maxPages = n
	}
}

// IssueQuery filters [Client.Issues].
type IssueQuery struct {
	State string    // open, closed, all; empty means open
	Since time.Time // only issues updated at or after; zero means no bound
}

// Issues lists a repository's issues, pull requests included.
func (c *Client) Issues(ctx context.Context, owner, repo string, q IssueQuery) ([]Issue, error) {
	params := url.Values{}
	params.Set("state", cmp.Or(q.State, "open"))
	params.Set("per_page", strconv.Itoa(integrations.DefaultPerPage))
	if !q.Since.IsZero() {
		params.Set("since", q.Since.UTC().Format(time.RFC3339))
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues?%s", c.baseURL, owner, repo, params.Encode())
	return list[Issue](ctx, c, endpoint)
}

// Tags lists a repository's tags, newest first.
func (c *Client) Tags(ctx context.Context, owner, repo string) ([]Tag, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=%d", c.baseURL, owner, repo, integrations.DefaultPerPage)
	return list[Tag](ctx, c, endpoint)
}

// CommitQuery filters [Client.Commits].
type CommitQuery struct {
	Since time.Time // only commits after; zero means no bound
	Path  string    // only commits touching this path
}

// Commits lists commits on the default branch, newest first.
func (c *Client) Commits(ctx context.Context, owner, repo string, q CommitQuery) ([]Commit, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(integrations.DefaultPerPage))
	if !q.Since.IsZero() {
		params.Set("since", q.Since.UTC().Format(time.RFC3339))
	}
	if q.Path != "" {
		params.Set("path", q.Path)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?%s", c.baseURL, owner, repo, params.Encode())
	return list[Commit](ctx, c, endpoint)
}

// Commit fetches a single commit, including its verification status.
func (c *Client) Commit(ctx context.Context, owner, repo, sha string) (*Commit, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits/%s", c.baseURL, owner, repo, url.PathEscape(sha))

	var commit Commit
	err := c.Cached(ctx, endpoint, false, &commit, func() error {
		return c.Get(ctx, endpoint, &commit)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: github commit %s in %s/%s", err, sha, owner, repo)
		}
		return nil, err
	}
	return &commit, nil
}

// Contents fetches and decodes a file from the default branch.
// A missing file returns an error wrapping [integrations.ErrNotFound].
func (c *Client) Contents(ctx context.Context, owner, repo, path string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, escapePath(path))

	var file FileContent
	err := c.Cached(ctx, endpoint, false, &file, func() error {
		return c.Get(ctx, endpoint, &file)
	})
	if err != nil {
		return "", err
	}
	return decodeContent(file)
}

func decodeContent(f FileContent) (string, error) {
	switch f.Encoding {
	case "base64":
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(f.Content, "\n", ""))
		if err != nil {
			return "", fmt.Errorf("%w: decode %s: %v", integrations.ErrDecode, f.Path, err)
		}
		return string(data), nil
	case "", "utf-8":
		return f.Content, nil
	default:
		return "", fmt.Errorf("%w: unsupported encoding %q for %s", integrations.ErrDecode, f.Encoding, f.Path)
	}
}

func list[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	var items []T
	err := c.Cached(ctx, endpoint, false, &items, func() error {
		var err error
		items, err = integrations.Paginate[T](ctx, c.Client, endpoint, c.maxPages, integrations.LinkNext)
		return err
	})
	return items, err
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

// ExtractURL extracts GitHub repository owner and name from package URLs.
func ExtractURL(urls map[string]string, homepage string) (owner, repo string, ok bool) {
	return integrations.ExtractRepoURL(repoURLPattern, urls, homepage)
}
