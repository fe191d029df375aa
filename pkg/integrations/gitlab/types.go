package gitlab

import "time"

// User is the author of an issue or merge request.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Issue is an entry from the project issues endpoint.
type Issue struct {
	IID            int       `json:"iid"`
	Title          string    `json:"title"`
	State          string    `json:"state"`
	UserNotesCount int       `json:"user_notes_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	WebURL         string    `json:"web_url"`
	Author         User      `json:"author"`
}

// MergeRequest is an entry from the project merge requests endpoint.
type MergeRequest struct {
	IID            int       `json:"iid"`
	Title          string    `json:"title"`
	State          string    `json:"state"`
	UserNotesCount int       `json:"user_notes_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	WebURL         string    `json:"web_url"`
	Author         User      `json:"author"`
}

// Commit is a repository commit. Tags embed one.
type Commit struct {
	ID            string    `json:"id"`
	ShortID       string    `json:"short_id"`
	Title         string    `json:"title"`
	AuthorName    string    `json:"author_name"`
	AuthorEmail   string    `json:"author_email"`
	CreatedAt     time.Time `json:"created_at"`
	CommittedDate time.Time `json:"committed_date"`
}

// Date returns the committed date, falling back to created_at.
func (c Commit) Date() time.Time {
	if !c.CommittedDate.IsZero() {
		return c.CommittedDate
	}
	return c.CreatedAt
}

// Tag is an entry from the repository tags endpoint.
type Tag struct {
	Name   string `json:"name"`
	Commit Commit `json:"commit"`
}

// Signature is the GPG/SSH/X.509 signature check of a commit.
type Signature struct {
	SignatureType      string `json:"signature_type"`
	VerificationStatus string `json:"verification_status"`
}

// Verified reports whether GitLab considers the signature valid.
func (s Signature) Verified() bool { return s.VerificationStatus == "verified" }

// Project is the subset of project metadata the client needs.
type Project struct {
	ID                int    `json:"id"`
	PathWithNamespace string `json:"path_with_namespace"`
	DefaultBranch     string `json:"default_branch"`
}
