// Package gitlab provides an HTTP client for the GitLab REST API (v4).
//
// The client works against gitlab.com by default and against self-hosted
// instances via [Client.SetBaseURL]. Projects are addressed by their full
// namespace path, which the client escapes ("group/project" becomes
// "group%2Fproject").
//
//	client := gitlab.NewClient(cache.NewMemoryCache(), token, 0)
//	mrs, err := client.MergeRequests(ctx, "gitlab-org/cli", gitlab.ListQuery{})
//
// List endpoints follow the X-Next-Page header.
package gitlab
