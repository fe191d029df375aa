// Package integrations provides HTTP clients for package registries and
// git-hosting APIs.
//
// # Overview
//
// Each remote service has its own subpackage:
//
//   - [forge]: Puppet Forge v3
//   - [pypi]: Python Package Index
//   - [rubygems]: RubyGems.org
//   - [github]: GitHub REST v3
//   - [gitlab]: GitLab REST v4
//
// # Shared Infrastructure
//
// The [Client] type provides the functionality every subpackage embeds:
//
//   - default headers (tokens, Accept, User-Agent)
//   - status mapping: 404 to [ErrNotFound]; 429, rate-limited 403 and 5xx to
//     retryable errors; other failures to [ErrNetwork]
//   - retries via [httputil.Retry], honoring Retry-After
//   - memoization of decoded responses through a [cache.Cache]
//   - pagination via [Paginate] with [LinkNext] (GitHub) or [NextPageHeader]
//     (GitLab)
//   - HTTP events reported to [observability.HTTP]
//
// Responses are memoized for one evaluation only; callers pass a fresh
// [cache.MemoryCache] per run.
//
// [forge]: github.com/binford2k/denmark/pkg/integrations/forge
// [pypi]: github.com/binford2k/denmark/pkg/integrations/pypi
// [rubygems]: github.com/binford2k/denmark/pkg/integrations/rubygems
// [github]: github.com/binford2k/denmark/pkg/integrations/github
// [gitlab]: github.com/binford2k/denmark/pkg/integrations/gitlab
// [httputil.Retry]: github.com/binford2k/denmark/pkg/httputil.Retry
// [cache.Cache]: github.com/binford2k/denmark/pkg/cache.Cache
// [cache.MemoryCache]: github.com/binford2k/denmark/pkg/cache.MemoryCache
// [observability.HTTP]: github.com/binford2k/denmark/pkg/observability.HTTP
package integrations
