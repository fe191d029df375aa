// Package rubygems provides an HTTP client for the RubyGems.org API.
//
//	client := rubygems.NewClient(cache.NewMemoryCache(), 0)
//	gem, err := client.FetchGem(ctx, "rails", false)
//
// [Client.FetchGem] combines the gem endpoint (links, license, authors) with
// the versions endpoint (release history, newest first). Platform-specific
// builds are dropped so every version number appears once.
package rubygems
