package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/integrations"
	"github.com/binford2k/denmark/pkg/integrations/github"
)

type githubProvider struct {
	base
	owner, repo string
	client      *github.Client
}

func newGitHub(slug string, cfg Config) *githubProvider {
	owner, repo, _ := strings.Cut(slug, "/")
	client := github.NewClient(cfg.Cache, cfg.GitHubToken, 0)
	client.SetBaseURL(cfg.GitHubEndpoint)
	client.SetMaxPages(cfg.MaxPages)
	if cfg.HTTPTimeout > 0 {
		client.SetHTTPClient(integrations.NewHTTPClient(cfg.HTTPTimeout))
	}
	return &githubProvider{
		base:   base{slug: slug, timeout: cfg.CallTimeout, logger: cfg.Logger},
		owner:  owner,
		repo:   repo,
		client: client,
	}
}

func (p *githubProvider) Flavor() Flavor { return FlavorGitHub }

func (p *githubProvider) listIssues(ctx context.Context, since time.Time) ([]github.Issue, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	issues, err := p.client.Issues(ctx, p.owner, p.repo, github.IssueQuery{State: "open", Since: since})
	if err != nil {
		return nil, p.fail(err, "list issues of")
	}
	p.logger.Debug("fetched issues", "repo", p.slug, "count", len(issues))
	return issues, nil
}

func (p *githubProvider) Issues(ctx context.Context) ([]Issue, error) {
	raw, err := p.listIssues(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	return githubIssues(raw), nil
}

func githubIssues(raw []github.Issue) []Issue {
	out := make([]Issue, 0, len(raw))
	for _, i := range raw {
		if i.IsPullRequest() {
			continue
		}
		out = append(out, Issue{
			Number:    i.Number,
			Title:     i.Title,
			State:     i.State,
			Author:    i.User.Login,
			Comments:  i.Comments,
			CreatedAt: i.CreatedAt,
			UpdatedAt: i.UpdatedAt,
			URL:       i.HTMLURL,
		})
	}
	return out
}

func (p *githubProvider) PullRequests(ctx context.Context) ([]PullRequest, error) {
	raw, err := p.listIssues(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	out := make([]PullRequest, 0, len(raw))
	for _, i := range raw {
		if !i.IsPullRequest() {
			continue
		}
		out = append(out, PullRequest{
			Number:    i.Number,
			Title:     i.Title,
			State:     i.State,
			Author:    i.User.Login,
			Comments:  i.Comments,
			CreatedAt: i.CreatedAt,
			UpdatedAt: i.UpdatedAt,
			URL:       i.HTMLURL,
		})
	}
	return out, nil
}

func (p *githubProvider) MergeRequests(ctx context.Context) ([]PullRequest, error) {
	return p.PullRequests(ctx)
}

func (p *githubProvider) anchor(ctx context.Context, tag *Tag) (time.Time, bool, error) {
	if tag == nil {
		tags, err := p.Tags(ctx)
		if err != nil {
			return time.Time{}, false, err
		}
		if tag = latestTag(tags); tag == nil {
			return time.Time{}, false, nil
		}
	}
	if !tag.CreatedAt.IsZero() {
		return calendarDay(tag.CreatedAt), true, nil
	}
	date, err := p.CommitDate(ctx, tag.SHA)
	return date, err == nil, err
}

func (p *githubProvider) IssuesSinceTag(ctx context.Context, tag *Tag) ([]Issue, error) {
	since, ok, err := p.anchor(ctx, tag)
	if err != nil || !ok {
		return nil, err
	}
	raw, err := p.listIssues(ctx, since)
	if err != nil {
		return nil, err
	}
	return githubIssues(raw), nil
}

func (p *githubProvider) CommitsSinceTag(ctx context.Context, tag *Tag) ([]Commit, error) {
	since, ok, err := p.anchor(ctx, tag)
	if err != nil || !ok {
		return nil, err
	}
	return p.commits(ctx, github.CommitQuery{Since: since})
}

func (p *githubProvider) Tags(ctx context.Context) ([]Tag, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	raw, err := p.client.Tags(ctx, p.owner, p.repo)
	if err != nil {
		return nil, p.fail(err, "list tags of")
	}
	p.logger.Debug("fetched tags", "repo", p.slug, "count", len(raw))

	tags := make([]Tag, len(raw))
	for i, t := range raw {
		tags[i] = Tag{Name: t.Name, SHA: t.Commit.SHA}
	}
	return tags, nil
}

func (p *githubProvider) Commits(ctx context.Context) ([]Commit, error) {
	return p.commits(ctx, github.CommitQuery{})
}

func (p *githubProvider) CommitsToFile(ctx context.Context, path string) ([]Commit, error) {
	if err := derrors.ValidatePath(path); err != nil {
		return nil, err
	}
	return p.commits(ctx, github.CommitQuery{Path: path})
}

func (p *githubProvider) commits(ctx context.Context, q github.CommitQuery) ([]Commit, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	raw, err := p.client.Commits(ctx, p.owner, p.repo, q)
	if err != nil {
		return nil, p.fail(err, "list commits of")
	}
	p.logger.Debug("fetched commits", "repo", p.slug, "since", q.Since, "path", q.Path, "count", len(raw))

	out := make([]Commit, len(raw))
	for i, c := range raw {
		out[i] = githubCommit(c)
	}
	return out, nil
}

func githubCommit(c github.Commit) Commit {
	out := Commit{
		SHA:     c.SHA,
		Author:  c.Login(),
		Date:    c.Commit.Committer.Date.UTC(),
		Message: c.Commit.Message,
	}
	if v := c.Commit.Verification; v != nil {
		out.Verification = &Verification{Verified: v.Verified, Reason: v.Reason}
	}
	return out
}

func (p *githubProvider) commit(ctx context.Context, sha string) (Commit, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	c, err := p.client.Commit(ctx, p.owner, p.repo, sha)
	if err != nil {
		return Commit{}, p.fail(err, "fetch commit "+sha+" of")
	}
	return githubCommit(*c), nil
}

func (p *githubProvider) Committers(ctx context.Context, items []Signable) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			out = append(out, "")
			continue
		}
		author := item.CommitAuthor()
		if author == "" {
			c, err := p.commit(ctx, item.CommitSHA())
			if err != nil {
				return nil, err
			}
			author = c.Author
		}
		out = append(out, author)
	}
	return out, nil
}

func (p *githubProvider) Verified(ctx context.Context, item Signable) (bool, error) {
	if item == nil {
		return false, nil
	}
	if v := item.CommitVerification(); v != nil {
		return v.Verified, nil
	}
	c, err := p.commit(ctx, item.CommitSHA())
	if err != nil {
		return false, err
	}
	return c.Verification != nil && c.Verification.Verified, nil
}

func (p *githubProvider) FileContent(ctx context.Context, path string) (string, bool, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	body, err := p.client.Contents(ctx, p.owner, p.repo, path)
	if errors.Is(err, integrations.ErrNotFound) {
		p.logger.Debug("file not found", "repo", p.slug, "path", path)
		return "", false, nil
	}
	if err != nil {
		return "", false, p.fail(err, "read "+path+" from")
	}
	return body, true, nil
}

func (p *githubProvider) CommitDate(ctx context.Context, sha string) (time.Time, error) {
	c, err := p.commit(ctx, sha)
	if err != nil {
		return time.Time{}, err
	}
	return calendarDay(c.Date), nil
}

var _ Provider = (*githubProvider)(nil)
