package repository

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/binford2k/denmark/pkg/cache"
	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/integrations"
	"github.com/binford2k/denmark/pkg/integrations/github"
	"github.com/binford2k/denmark/pkg/integrations/gitlab"
)

// DefaultCallTimeout bounds each provider operation.
const DefaultCallTimeout = 30 * time.Second

// Provider is the capability surface of a git-hosting service, normalized
// across flavors. Every operation takes a context and returns an error coded
// [derrors.ErrCodeExternalService] when the service cannot be reached.
//
// Missing data is never an error: empty repositories yield empty slices and
// absent files yield ok == false.
type Provider interface {
	// Flavor reports which hosting service backs the provider.
	Flavor() Flavor
	// Slug is the repository path: "owner/repo" on GitHub, the full
	// namespace path on GitLab.
	Slug() string

	// Issues lists open issues, pull requests excluded.
	Issues(ctx context.Context) ([]Issue, error)
	// PullRequests lists open pull or merge requests.
	PullRequests(ctx context.Context) ([]PullRequest, error)
	// MergeRequests is a synonym of PullRequests.
	MergeRequests(ctx context.Context) ([]PullRequest, error)

	// IssuesSinceTag lists open issues updated after the tag's commit date.
	// A nil tag means the most recent tag; no tags yields an empty list.
	IssuesSinceTag(ctx context.Context, tag *Tag) ([]Issue, error)
	// CommitsSinceTag lists commits made after the tag's commit date.
	// A nil tag means the most recent tag; no tags yields an empty list.
	CommitsSinceTag(ctx context.Context, tag *Tag) ([]Commit, error)

	// Tags lists tags, newest first.
	Tags(ctx context.Context) ([]Tag, error)
	// Commits lists commits on the default branch, newest first.
	Commits(ctx context.Context) ([]Commit, error)
	// CommitsToFile lists commits touching path, newest first.
	CommitsToFile(ctx context.Context, path string) ([]Commit, error)

	// Committers returns the author identity of each item, in order.
	Committers(ctx context.Context, items []Signable) ([]string, error)
	// Verified reports whether the item's commit carries a signature the
	// service considers valid. A nil item is never verified.
	Verified(ctx context.Context, item Signable) (bool, error)

	// FileContent fetches a file from the default branch. A missing file
	// returns ("", false, nil).
	FileContent(ctx context.Context, path string) (string, bool, error)
	// CommitDate returns the commit's date in UTC.
	CommitDate(ctx context.Context, sha string) (time.Time, error)
}

// Config carries provider credentials and limits.
type Config struct {
	GitHubToken    string
	GitHubEndpoint string // API root; empty means api.github.com
	GitLabToken    string
	GitLabEndpoint string // API root; empty means gitlab.com/api/v4

	CallTimeout time.Duration // per operation; zero means DefaultCallTimeout
	HTTPTimeout time.Duration // per HTTP round trip; zero means the client default
	MaxPages    int           // pagination cap; zero means the client default

	Cache  cache.Cache // response memo; nil disables memoization
	Logger *log.Logger // nil means log.Default()
}

// New selects a provider from a repository URL.
//
// github.com and gitlab.com are always recognized, as are the hosts of
// non-default GitHubEndpoint and GitLabEndpoint values. SSH, git:// and git+
// forms are accepted. Any other host fails with
// [derrors.ErrCodeUnsupportedProvider].
func New(rawURL string, cfg Config) (Provider, error) {
	normalized := integrations.NormalizeRepoURL(rawURL)
	if normalized == "" {
		return nil, derrors.New(derrors.ErrCodeUnsupportedProvider, "module has no source repository URL")
	}
	u, err := url.Parse(normalized)
	if err != nil || u.Host == "" {
		return nil, derrors.New(derrors.ErrCodeUnsupportedProvider, "unsupported git source: %q", rawURL)
	}
	host := strings.ToLower(u.Hostname())
	path := strings.Trim(u.Path, "/")

	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}

	switch {
	case host == "github.com" || host == endpointHost(cfg.GitHubEndpoint, github.DefaultBaseURL):
		slug, err := githubSlug(path)
		if err != nil {
			return nil, derrors.Wrap(derrors.ErrCodeUnsupportedProvider, err, "unsupported git source: %q", rawURL)
		}
		return newGitHub(slug, cfg), nil

	case host == "gitlab.com" || host == endpointHost(cfg.GitLabEndpoint, gitlab.DefaultBaseURL):
		slug := gitlabSlug(path)
		if !strings.Contains(slug, "/") {
			return nil, derrors.New(derrors.ErrCodeUnsupportedProvider, "unsupported git source: %q", rawURL)
		}
		return newGitLab(slug, cfg), nil
	}

	return nil, derrors.New(derrors.ErrCodeUnsupportedProvider, "unsupported git source: %q", rawURL)
}

// endpointHost returns the host of a configured, non-default API endpoint.
func endpointHost(endpoint, defaultEndpoint string) string {
	if endpoint == "" || strings.TrimSuffix(endpoint, "/") == defaultEndpoint {
		return ""
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func githubSlug(path string) (string, error) {
	parts := strings.SplitN(path, "/", 3)
	if len(parts) < 2 {
		return "", derrors.New(derrors.ErrCodeInvalidInput, "missing owner/repo in %q", path)
	}
	owner, repo, err := github.ParseRepoRef(parts[0] + "/" + strings.TrimSuffix(parts[1], ".git"))
	if err != nil {
		return "", err
	}
	return owner + "/" + repo, nil
}

// gitlabSlug strips GitLab UI suffixes such as "/-/tree/main".
func gitlabSlug(path string) string {
	if i := strings.Index(path, "/-/"); i >= 0 {
		path = path[:i]
	}
	return strings.TrimSuffix(strings.TrimSuffix(path, "/-"), ".git")
}

// base holds what both flavors share: timeouts, logging, error coding.
type base struct {
	slug    string
	timeout time.Duration
	logger  *log.Logger
}

func (b *base) Slug() string { return b.slug }

func (b *base) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

func (b *base) fail(err error, op string) error {
	if err == nil {
		return nil
	}
	return derrors.Wrap(derrors.ErrCodeExternalService, err, "%s %s", op, b.slug)
}

// calendarDay truncates t to midnight UTC. Since-tag windows open at the
// start of the tag's day.
func calendarDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// latestTag returns the first tag, or nil when there are none.
func latestTag(tags []Tag) *Tag {
	if len(tags) == 0 {
		return nil
	}
	return &tags[0]
}
