// Package plugins contains the built-in smell tests.
//
//   - issues: share of unanswered and ancient open issues
//   - pull_requests: the same over pull or merge requests
//   - metadata: registry release versus repository metadata, changelog and tags
//   - timeline: unreleased work, new taggers and signing habits
//
// [All] returns them in the order they run. Plugins that depend on the date
// expose a Now field so callers can pin the clock.
package plugins
