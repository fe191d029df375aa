// Package pypi provides an HTTP client for the Python Package Index JSON API.
//
// # Usage
//
//	client := pypi.NewClient(cache.NewMemoryCache(), 0)
//	pkg, err := client.FetchPackage(ctx, "flask", false)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(pkg.SourceURL(), pkg.Releases[0].Version)
//
// # Releases
//
// PyPI reports releases as a map keyed by version. [FetchPackage] flattens it
// into a slice ordered newest first, dating each release by its sdist upload
// and falling back to the first uploaded file. Versions without files are
// dropped.
//
// Package names are normalized following PEP 503.
package pypi
