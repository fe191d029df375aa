package gitlab

import (
	"cmp"
	"context"
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

// DefaultBaseURL is the gitlab.com REST API.
const DefaultBaseURL = "https://gitlab.com/api/v4"

var repoURLPattern = regexp.MustCompile(`https?://gitlab\.com/([^/]+)/([^/?#]+)`)

// Client provides access to the GitLab REST API (v4).
// It handles HTTP requests with memoization, automatic retries, and optional
// authentication.
//
// Projects are addressed by their full path ("group/subgroup/project").
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL  string
	maxPages int
}

// NewClient creates a GitLab API client with optional authentication.
//
// Parameters:
//   - backend: Cache backend for response memoization (nil disables it)
//   - token: GitLab personal access token (empty string for unauthenticated)
//   - cacheTTL: How long responses are kept (zero keeps them for the run)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": token}
	}

	return &Client{
		Client:   integrations.NewClient(backend, "gitlab:", cacheTTL, headers),
		baseURL:  DefaultBaseURL,
		maxPages: integrations.DefaultMaxPages,
	}
}

// SetBaseURL points the client at a self-hosted instance or a test server.
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

// ListQuery filters the issue, merge request and commit listings.
type ListQuery struct {
	State        string    // opened, closed, merged, all; empty means opened
	UpdatedAfter time.Time // issues and merge requests only
	Since        time.Time // commits only
	Path         string    // commits only
}

// Project fetches project metadata.
func (c *Client) Project(ctx context.Context, project string) (*Project, error) {
	endpoint := c.projectURL(project, "")

	var p Project
	err := c.Cached(ctx, endpoint, false, &p, func() error {
		return c.Get(ctx, endpoint, &p)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: gitlab project %s", err, project)
		}
		return nil, err
	}
	return &p, nil
}

// Issues lists a project's issues.
func (c *Client) Issues(ctx context.Context, project string, q ListQuery) ([]Issue, error) {
	params := c.listParams(q)
	params.Set("scope", "all")
	return list[Issue](ctx, c, c.projectURL(project, "/issues?"+params.Encode()))
}

// MergeRequests lists a project's merge requests.
func (c *Client) MergeRequests(ctx context.Context, project string, q ListQuery) ([]MergeRequest, error) {
	params := c.listParams(q)
	return list[MergeRequest](ctx, c, c.projectURL(project, "/merge_requests?"+params.Encode()))
}

func (c *Client) listParams(q ListQuery) url.Values {
	params := url.Values{}
	params.Set("state", cmp.Or(q.State, "opened"))
	params.Set("per_page", strconv.Itoa(integrations.DefaultPerPage))
	if !q.UpdatedAfter.IsZero() {
		params.Set("updated_after", q.UpdatedAfter.UTC().Format(time.RFC3339))
	}
	return params
}

// Tags lists a project's tags, newest first.
func (c *Client) Tags(ctx context.Context, project string) ([]Tag, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(integrations.DefaultPerPage))
	params.Set("order_by", "updated")
	params.Set("sort", "desc")
	return list[Tag](ctx, c, c.projectURL(project, "/repository/tags?"+params.Encode()))
}

// Commits lists commits on the default branch, newest first.
func (c *Client) Commits(ctx context.Context, project string, q ListQuery) ([]Commit, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(integrations.DefaultPerPage))
	if !q.Since.IsZero() {
		params.Set("since", q.Since.UTC().Format(time.RFC3339))
	}
	if q.Path != "" {
		params.Set("path", q.Path)
	}
	return list[Commit](ctx, c, c.projectURL(project, "/repository/commits?"+params.Encode()))
}

// Commit fetches a single commit.
func (c *Client) Commit(ctx context.Context, project, sha string) (*Commit, error) {
	endpoint := c.projectURL(project, "/repository/commits/"+url.PathEscape(sha))

	var commit Commit
	err := c.Cached(ctx, endpoint, false, &commit, func() error {
		return c.Get(ctx, endpoint, &commit)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: gitlab commit %s in %s", err, sha, project)
		}
		return nil, err
	}
	return &commit, nil
}

// Signature fetches the signature of a commit. Unsigned commits yield an
// error wrapping [integrations.ErrNotFound].
func (c *Client) Signature(ctx context.Context, project, sha string) (*Signature, error) {
	endpoint := c.projectURL(project, "/repository/commits/"+url.PathEscape(sha)+"/signature")

	var sig Signature
	err := c.Cached(ctx, endpoint, false, &sig, func() error {
		return c.Get(ctx, endpoint, &sig)
	})
	if err != nil {
		return nil, err
	}
	return &sig, nil
}

// RawFile fetches a file at ref. An empty ref uses the project's default
// branch. A missing file returns an error wrapping [integrations.ErrNotFound].
func (c *Client) RawFile(ctx context.Context, project, path, ref string) (string, error) {
	if ref == "" {
		p, err := c.Project(ctx, project)
		if err != nil {
			return "", err
		}
		ref = cmp.Or(p.DefaultBranch, "HEAD")
	}
	endpoint := c.projectURL(project, "/repository/files/"+url.PathEscape(path)+"/raw?ref="+url.QueryEscape(ref))

	var body string
	err := c.Cached(ctx, endpoint, false, &body, func() error {
		var err error
		body, err = c.GetText(ctx, endpoint)
		return err
	})
	return body, err
}

func (c *Client) projectURL(project, suffix string) string {
	return c.baseURL + "/projects/" + url.PathEscape(project) + suffix
}

func list[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	var items []T
	err := c.Cached(ctx, endpoint, false, &items, func() error {
		var err error
		items, err = integrations.Paginate[T](ctx, c.Client, endpoint, c.maxPages, integrations.NextPageHeader)
		return err
	})
	return items, err
}

// ExtractURL extracts GitLab repository owner and name from package URLs.
func ExtractURL(urls map[string]string, homepage string) (owner, repo string, ok bool) {
	return integrations.ExtractRepoURL(repoURLPattern, urls, homepage)
}
