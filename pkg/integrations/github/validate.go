package github

import (
	"regexp"
	"strings"

	derrors "github.com/binford2k/denmark/pkg/errors"
)

var (
	// 1-39 alphanumerics or hyphens, no leading hyphen.
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// 1-100 alphanumerics, hyphens, underscores or dots.
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner checks a user or organization login.
func ValidateOwner(owner string) error {
	if !validOwner.MatchString(owner) {
		return derrors.New(derrors.ErrCodeInvalidInput, "invalid GitHub owner %q", owner)
	}
	return nil
}

// ValidateRepo checks a repository name. "." and ".." are reserved.
func ValidateRepo(repo string) error {
	if !validRepo.MatchString(repo) || repo == "." || repo == ".." {
		return derrors.New(derrors.ErrCodeInvalidInput, "invalid GitHub repository name %q", repo)
	}
	return nil
}

// ParseRepoRef splits "owner/repo" and validates both halves.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(ref, "/")
	if !ok {
		return "", "", derrors.New(derrors.ErrCodeInvalidInput, "invalid repository %q: want owner/repo", ref)
	}
	if err := ValidateOwner(owner); err != nil {
		return "", "", err
	}
	if err := ValidateRepo(repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}
