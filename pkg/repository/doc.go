// Package repository normalizes git-hosting APIs behind one [Provider]
// interface.
//
// [New] picks the implementation from a repository URL:
//
//	repo, err := repository.New(mod.HomepageURL, repository.Config{
//	    GitHubToken: cfg.GitHub.Token,
//	    Cache:       cache.NewMemoryCache(),
//	})
//	tags, err := repo.Tags(ctx)
//
// # Flavors
//
//   - GitHub: issues and pull requests share one endpoint and are split by the
//     pull_request marker. Tag listings carry no author, date or signature, so
//     those are looked up on the tagged commit.
//   - GitLab: issues and merge requests have separate endpoints. Tags embed
//     their commit's author and date. Signatures come from the commit
//     signature endpoint, which answers 404 for unsigned commits.
//
// # Dates
//
// "Since tag" queries anchor on the tag's commit date: the embedded date when
// the listing has one, else the committer date of the tagged commit.
//
// # Errors
//
// Every failure to reach the service is coded EXTERNAL_SERVICE. Absence is
// never an error: no tags, no issues and missing files are ordinary results.
package repository
