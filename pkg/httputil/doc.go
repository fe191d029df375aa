// Package httputil provides retry helpers shared by the registry and
// git-hosting API clients.
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a [RetryableError]:
//
//   - Network errors (connection reset, DNS, client timeout)
//   - 5xx server errors
//   - 429 and rate-limited 403 responses, honoring Retry-After
//
// Any other error is returned on the spot. Delays double after each failed
// attempt:
//
//	err := httputil.Retry(ctx, httputil.DefaultPolicy, func() error {
//	    return client.Get(ctx, url, &v)
//	})
//
// # Defaults
//
//   - Attempts: 3
//   - Base backoff: 1 second
//   - Maximum single wait: 30 seconds
package httputil
