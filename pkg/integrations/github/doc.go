// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// The client exposes the handful of endpoints the repository provider needs:
// issues (pull requests included), tags, commits, single commits with their
// signature verification, and file contents.
//
//	client := github.NewClient(cache.NewMemoryCache(), token, 0)
//	tags, err := client.Tags(ctx, "puppetlabs", "puppetlabs-stdlib")
//
// # Authentication
//
// A personal access token is optional but recommended. Without one the API
// allows 60 requests per hour, which a single evaluation can exhaust.
//
// # Pagination
//
// List endpoints request 100 items per page and follow the Link header up to
// [integrations.DefaultMaxPages] pages; see [Client.SetMaxPages].
//
// # URL Extraction
//
// [ExtractURL] parses GitHub repository URLs from package metadata, and
// [ParseRepoRef] validates "owner/repo" slugs.
package github
