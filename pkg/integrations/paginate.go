package integrations

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
)

// DefaultMaxPages caps how many pages [Paginate] follows.
const DefaultMaxPages = 10

// DefaultPerPage is the page size requested from paginated endpoints.
const DefaultPerPage = 100

// NextFunc returns the URL of the page following current, or "" when current
// is the last page.
type NextFunc func(current string, h http.Header) string

// Paginate fetches url and follows next until it returns "" or maxPages pages
// have been read. A maxPages of zero or less selects [DefaultMaxPages].
func Paginate[T any](ctx context.Context, c *Client, rawURL string, maxPages int, next NextFunc) ([]T, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var all []T
	for page := 0; rawURL != "" && page < maxPages; page++ {
		var items []T
		h, err := c.GetPage(ctx, rawURL, &items)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		rawURL = next(rawURL, h)
	}
	return all, nil
}

var linkNextPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// LinkNext follows RFC 8288 Link headers, as used by the GitHub API.
func LinkNext(_ string, h http.Header) string {
	for _, v := range h.Values("Link") {
		if m := linkNextPattern.FindStringSubmatch(v); m != nil {
			return m[1]
		}
	}
	return ""
}

// NextPageHeader follows GitLab's X-Next-Page header by rewriting the page
// query parameter of current.
func NextPageHeader(current string, h http.Header) string {
	next := h.Get("X-Next-Page")
	if next == "" {
		return ""
	}
	if _, err := strconv.Atoi(next); err != nil {
		return ""
	}
	u, err := url.Parse(current)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("page", next)
	u.RawQuery = q.Encode()
	return u.String()
}
