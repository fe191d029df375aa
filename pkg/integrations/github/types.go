package github

import "time"

// User is the account attached to an issue or commit.
type User struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// Issue is an entry from the issues endpoint. Pull requests are issues too;
// they carry a non-nil PullRequest marker.
type Issue struct {
	Number      int          `json:"number"`
	Title       string       `json:"title"`
	State       string       `json:"state"`
	Comments    int          `json:"comments"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	HTMLURL     string       `json:"html_url"`
	User        User         `json:"user"`
	PullRequest *pullRequest `json:"pull_request,omitempty"`
}

type pullRequest struct {
	URL string `json:"url"`
}

// IsPullRequest reports whether the issue is a pull request.
func (i Issue) IsPullRequest() bool { return i.PullRequest != nil }

// Tag is an entry from the tags endpoint. GitHub never embeds an author or
// date here; callers look up the commit.
type Tag struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// Verification is GitHub's signature check result for a commit.
type Verification struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason"`
}

// GitActor is the git-level author or committer of a commit.
type GitActor struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// Commit is an entry from the commits endpoints. Author is the linked GitHub
// account and is nil when the commit email maps to no account.
type Commit struct {
	SHA    string `json:"sha"`
	Author *User  `json:"author"`
	Commit struct {
		Message      string        `json:"message"`
		Author       GitActor      `json:"author"`
		Committer    GitActor      `json:"committer"`
		Verification *Verification `json:"verification"`
	} `json:"commit"`
}

// Login returns the linked account login, falling back to the git author name.
func (c Commit) Login() string {
	if c.Author != nil && c.Author.Login != "" {
		return c.Author.Login
	}
	return c.Commit.Author.Name
}

// FileContent is the body of the contents endpoint for a single file.
type FileContent struct {
	Path     string `json:"path"`
	Size     int    `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}
