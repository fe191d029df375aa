package plugins

import (
	"context"
	"time"

	"github.com/binford2k/denmark/pkg/repository"
)

// fakeRepo is an in-memory repository.Provider.
type fakeRepo struct {
	issues       []repository.Issue
	pulls        []repository.PullRequest
	tags         []repository.Tag
	commits      []repository.Commit
	sinceCommits []repository.Commit
	sinceIssues  []repository.Issue
	files        map[string]string
	commitDates  map[string]time.Time
	authors      map[string]string // sha -> author, for items without one
	verified     map[string]bool   // sha -> verified, for items without a flag
	err          error
}

var _ repository.Provider = (*fakeRepo)(nil)

func (f *fakeRepo) Flavor() repository.Flavor { return repository.FlavorGitHub }
func (f *fakeRepo) Slug() string              { return "owner/repo" }

func (f *fakeRepo) Issues(context.Context) ([]repository.Issue, error) { return f.issues, f.err }

func (f *fakeRepo) PullRequests(context.Context) ([]repository.PullRequest, error) {
	return f.pulls, f.err
}

func (f *fakeRepo) MergeRequests(ctx context.Context) ([]repository.PullRequest, error) {
	return f.PullRequests(ctx)
}

func (f *fakeRepo) IssuesSinceTag(context.Context, *repository.Tag) ([]repository.Issue, error) {
	return f.sinceIssues, f.err
}

func (f *fakeRepo) CommitsSinceTag(context.Context, *repository.Tag) ([]repository.Commit, error) {
	return f.sinceCommits, f.err
}

func (f *fakeRepo) Tags(context.Context) ([]repository.Tag, error)       { return f.tags, f.err }
func (f *fakeRepo) Commits(context.Context) ([]repository.Commit, error) { return f.commits, f.err }

func (f *fakeRepo) CommitsToFile(context.Context, string) ([]repository.Commit, error) {
	return nil, f.err
}

func (f *fakeRepo) Committers(_ context.Context, items []repository.Signable) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.CommitAuthor()
		if out[i] == "" {
			out[i] = f.authors[item.CommitSHA()]
		}
	}
	return out, nil
}

func (f *fakeRepo) Verified(_ context.Context, item repository.Signable) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if item == nil {
		return false, nil
	}
	if v := item.CommitVerification(); v != nil {
		return v.Verified, nil
	}
	return f.verified[item.CommitSHA()], nil
}

func (f *fakeRepo) FileContent(_ context.Context, path string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	body, ok := f.files[path]
	return body, ok, nil
}

func (f *fakeRepo) CommitDate(_ context.Context, sha string) (time.Time, error) {
	return f.commitDates[sha], f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }
