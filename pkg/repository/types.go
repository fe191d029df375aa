package repository

import "time"

// Flavor identifies the git-hosting service behind a [Provider].
type Flavor string

const (
	FlavorGitHub Flavor = "github"
	FlavorGitLab Flavor = "gitlab"
)

// Verification is the signature check the hosting service reports for a
// commit. Denmark never validates signatures itself.
type Verification struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

// Issue is an open issue, normalized across providers.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Author    string    `json:"author,omitempty"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	URL       string    `json:"url,omitempty"`
}

// PullRequest is an open pull request (GitHub) or merge request (GitLab).
type PullRequest struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Author    string    `json:"author,omitempty"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	URL       string    `json:"url,omitempty"`
}

// Signable is anything that points at a commit whose author and signature can
// be inspected: tags and commits.
type Signable interface {
	CommitSHA() string
	// CommitAuthor is the identity embedded in the listing, or "" when the
	// provider did not include one.
	CommitAuthor() string
	// CommitVerification is the embedded verification, or nil when unknown.
	CommitVerification() *Verification
}

// Tag is a repository tag.
//
// GitHub tag listings carry only the name and commit SHA; Author, CreatedAt
// and Verification stay empty until looked up. GitLab embeds the commit
// author and date.
type Tag struct {
	Name         string        `json:"name"`
	SHA          string        `json:"sha"`
	Author       string        `json:"author,omitempty"`
	CreatedAt    time.Time     `json:"created_at,omitzero"`
	Verification *Verification `json:"verification,omitempty"`
}

func (t Tag) CommitSHA() string                 { return t.SHA }
func (t Tag) CommitAuthor() string              { return t.Author }
func (t Tag) CommitVerification() *Verification { return t.Verification }

// Commit is a repository commit.
type Commit struct {
	SHA          string        `json:"sha"`
	Author       string        `json:"author,omitempty"`
	Date         time.Time     `json:"date"`
	Message      string        `json:"message,omitempty"`
	Verification *Verification `json:"verification,omitempty"`
}

func (c Commit) CommitSHA() string                 { return c.SHA }
func (c Commit) CommitAuthor() string              { return c.Author }
func (c Commit) CommitVerification() *Verification { return c.Verification }

// AsSignables converts a slice of tags or commits for [Provider.Committers].
func AsSignables[T Signable](items []T) []Signable {
	out := make([]Signable, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
