// Package forge provides an HTTP client for the Puppet Forge v3 API.
//
//	client := forge.NewClient(cache.NewMemoryCache(), "denmark/1.0.0", 0)
//	mod, err := client.FetchModule(ctx, "puppetlabs/stdlib", false)
//
// Slugs are accepted as "owner-name" or "owner/name" and normalized with
// [NormalizeSlug]. [Client.FetchModule] returns the module's source links and
// its releases, newest first, each with the changelog the Forge extracted
// from the release tarball.
package forge
