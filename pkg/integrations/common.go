package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultHTTPTimeout bounds a single HTTP round trip.
const DefaultHTTPTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when the API refused the request for quota reasons.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnauthorized is returned for 401 and non-quota 403 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("malformed response")
)

// NewHTTPClient creates an HTTP client with the given timeout. Zero selects
// [DefaultHTTPTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NormalizePkgName converts a package name to its canonical form.
// Applies lowercase and replaces underscores with hyphens, following PEP 503
// normalization rules used by PyPI and other registries.
func NormalizePkgName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

var scpURLPattern = regexp.MustCompile(`^git@([^:]+):(.+)$`)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@host:path, git://, ssh://git@ and git+ prefixes, strips a
// leading "www." from the host, and removes .git suffixes and trailing slashes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "git+")
	if m := scpURLPattern.FindStringSubmatch(s); m != nil {
		s = "https://" + m[1] + "/" + m[2]
	}
	for _, prefix := range []string{"git://", "ssh://git@", "http://"} {
		if strings.HasPrefix(s, prefix) {
			s = "https://" + strings.TrimPrefix(s, prefix)
		}
	}
	s = strings.Replace(s, "://www.", "://", 1)
	s = strings.TrimSuffix(s, "/")
	return strings.TrimSuffix(s, ".git")
}

// RepoURLKeys are the project-URL labels searched, in order, for a source
// repository link.
var RepoURLKeys = []string{"Source", "Source Code", "Repository", "Code", "Homepage"}

// ExtractRepoURL finds the owner and repo from package URLs.
// It searches through urls using [RepoURLKeys] and falls back to homepage if no
// match is found. The re parameter should match URLs and capture owner
// (group 1) and repo name (group 2).
// Returns ok=false if no valid repository URL is found.
func ExtractRepoURL(re *regexp.Regexp, urls map[string]string, homepage string) (owner, repo string, ok bool) {
	match := func(u string) bool {
		if strings.Contains(u, "/sponsors/") {
			return false
		}
		if m := re.FindStringSubmatch(u); len(m) >= 3 {
			owner = m[1]
			repo = strings.TrimSuffix(m[2], ".git")
			ok = true
			return true
		}
		return false
	}

	for _, key := range RepoURLKeys {
		if u, exists := urls[key]; exists && match(u) {
			return
		}
	}
	for _, u := range urls {
		if match(u) {
			return
		}
	}
	if homepage != "" {
		match(homepage)
	}
	return
}

// PickURL returns the first non-empty value among urls[keys...], then
// fallbacks, in order.
func PickURL(urls map[string]string, keys []string, fallbacks ...string) string {
	for _, k := range keys {
		if u := strings.TrimSpace(urls[k]); u != "" {
			return u
		}
	}
	for _, u := range fallbacks {
		if u = strings.TrimSpace(u); u != "" {
			return u
		}
	}
	return ""
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEscape percent-encodes a string for use as a single path segment, so
// "group/project" becomes "group%2Fproject".
func PathEscape(s string) string { return url.PathEscape(s) }
