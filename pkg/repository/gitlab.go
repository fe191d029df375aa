package repository

import (
	"context"
	"errors"
	"time"

	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/integrations"
	"github.com/binford2k/denmark/pkg/integrations/gitlab"
)

type gitlabProvider struct {
	base
	client *gitlab.Client
}

func newGitLab(slug string, cfg Config) *gitlabProvider {
	client := gitlab.NewClient(cfg.Cache, cfg.GitLabToken, 0)
	client.SetBaseURL(cfg.GitLabEndpoint)
	client.SetMaxPages(cfg.MaxPages)
	if cfg.HTTPTimeout > 0 {
		client.SetHTTPClient(integrations.NewHTTPClient(cfg.HTTPTimeout))
	}
	return &gitlabProvider{
		base:   base{slug: slug, timeout: cfg.CallTimeout, logger: cfg.Logger},
		client: client,
	}
}

func (p *gitlabProvider) Flavor() Flavor { return FlavorGitLab }

func (p *gitlabProvider) listIssues(ctx context.Context, after time.Time) ([]Issue, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	raw, err := p.client.Issues(ctx, p.slug, gitlab.ListQuery{UpdatedAfter: after})
	if err != nil {
		return nil, p.fail(err, "list issues of")
	}
	p.logger.Debug("fetched issues", "repo", p.slug, "count", len(raw))

	out := make([]Issue, len(raw))
	for i, is := range raw {
		out[i] = Issue{
			Number:    is.IID,
			Title:     is.Title,
			State:     is.State,
			Author:    is.Author.Username,
			Comments:  is.UserNotesCount,
			CreatedAt: is.CreatedAt,
			UpdatedAt: is.UpdatedAt,
			URL:       is.WebURL,
		}
	}
	return out, nil
}

func (p *gitlabProvider) Issues(ctx context.Context) ([]Issue, error) {
	return p.listIssues(ctx, time.Time{})
}

func (p *gitlabProvider) PullRequests(ctx context.Context) ([]PullRequest, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	raw, err := p.client.MergeRequests(ctx, p.slug, gitlab.ListQuery{})
	if err != nil {
		return nil, p.fail(err, "list merge requests of")
	}
	p.logger.Debug("fetched merge requests", "repo", p.slug, "count", len(raw))

	out := make([]PullRequest, len(raw))
	for i, mr := range raw {
		out[i] = PullRequest{
			Number:    mr.IID,
			Title:     mr.Title,
			State:     mr.State,
			Author:    mr.Author.Username,
			Comments:  mr.UserNotesCount,
			CreatedAt: mr.CreatedAt,
			UpdatedAt: mr.UpdatedAt,
			URL:       mr.WebURL,
		}
	}
	return out, nil
}

func (p *gitlabProvider) MergeRequests(ctx context.Context) ([]PullRequest, error) {
	return p.PullRequests(ctx)
}

func (p *gitlabProvider) anchor(ctx context.Context, tag *Tag) (time.Time, bool, error) {
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

func (p *gitlabProvider) IssuesSinceTag(ctx context.Context, tag *Tag) ([]Issue, error) {
	since, ok, err := p.anchor(ctx, tag)
	if err != nil || !ok {
		return nil, err
	}
	return p.listIssues(ctx, since)
}

func (p *gitlabProvider) CommitsSinceTag(ctx context.Context, tag *Tag) ([]Commit, error) {
	since, ok, err := p.anchor(ctx, tag)
	if err != nil || !ok {
		return nil, err
	}
	return p.commits(ctx, gitlab.ListQuery{Since: since})
}

func (p *gitlabProvider) Tags(ctx context.Context) ([]Tag, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	raw, err := p.client.Tags(ctx, p.slug)
	if err != nil {
		return nil, p.fail(err, "list tags of")
	}
	p.logger.Debug("fetched tags", "repo", p.slug, "count", len(raw))

	tags := make([]Tag, len(raw))
	for i, t := range raw {
		tags[i] = Tag{
			Name:      t.Name,
			SHA:       t.Commit.ID,
			Author:    t.Commit.AuthorName,
			CreatedAt: t.Commit.Date().UTC(),
		}
	}
	return tags, nil
}

func (p *gitlabProvider) Commits(ctx context.Context) ([]Commit, error) {
	return p.commits(ctx, gitlab.ListQuery{})
}

func (p *gitlabProvider) CommitsToFile(ctx context.Context, path string) ([]Commit, error) {
	if err := derrors.ValidatePath(path); err != nil {
		return nil, err
	}
	return p.commits(ctx, gitlab.ListQuery{Path: path})
}

func (p *gitlabProvider) commits(ctx context.Context, q gitlab.ListQuery) ([]Commit, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	raw, err := p.client.Commits(ctx, p.slug, q)
	if err != nil {
		return nil, p.fail(err, "list commits of")
	}
	p.logger.Debug("fetched commits", "repo", p.slug, "since", q.Since, "path", q.Path, "count", len(raw))

	out := make([]Commit, len(raw))
	for i, c := range raw {
		out[i] = gitlabCommit(c)
	}
	return out, nil
}

func gitlabCommit(c gitlab.Commit) Commit {
	return Commit{
		SHA:     c.ID,
		Author:  c.AuthorName,
		Date:    c.Date().UTC(),
		Message: c.Title,
	}
}

func (p *gitlabProvider) Committers(ctx context.Context, items []Signable) ([]string, error) {
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

func (p *gitlabProvider) commit(ctx context.Context, sha string) (Commit, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	c, err := p.client.Commit(ctx, p.slug, sha)
	if err != nil {
		return Commit{}, p.fail(err, "fetch commit "+sha+" of")
	}
	return gitlabCommit(*c), nil
}

// Verified asks the signature endpoint; GitLab answers 404 for unsigned
// commits.
func (p *gitlabProvider) Verified(ctx context.Context, item Signable) (bool, error) {
	if item == nil {
		return false, nil
	}
	if v := item.CommitVerification(); v != nil {
		return v.Verified, nil
	}

	ctx, cancel := p.call(ctx)
	defer cancel()
	sig, err := p.client.Signature(ctx, p.slug, item.CommitSHA())
	if errors.Is(err, integrations.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, p.fail(err, "fetch signature of "+item.CommitSHA()+" in")
	}
	return sig.Verified(), nil
}

func (p *gitlabProvider) FileContent(ctx context.Context, path string) (string, bool, error) {
	ctx, cancel := p.call(ctx)
	defer cancel()
	body, err := p.client.RawFile(ctx, p.slug, path, "")
	if errors.Is(err, integrations.ErrNotFound) {
		p.logger.Debug("file not found", "repo", p.slug, "path", path)
		return "", false, nil
	}
	if err != nil {
		return "", false, p.fail(err, "read "+path+" from")
	}
	return body, true, nil
}

func (p *gitlabProvider) CommitDate(ctx context.Context, sha string) (time.Time, error) {
	c, err := p.commit(ctx, sha)
	if err != nil {
		return time.Time{}, err
	}
	return calendarDay(c.Date), nil
}

var _ Provider = (*gitlabProvider)(nil)
