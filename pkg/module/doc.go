// Package module resolves a published package to its release history.
//
// A [Module] carries what the smell plugins need from a registry: the ordered
// releases, the source repository URL and the issue tracker. Each supported
// registry is described by a [Source] in the static [All] list:
//
//	mod, err := module.Resolve(ctx, "puppet", "puppetlabs-stdlib", module.Options{})
//	if errors.Is(err, errors.ErrCodeModuleNotFound) {
//	    // nothing to inspect
//	}
//
// Ecosystem names accept registry aliases: "forge" for puppet, "pypi" for
// python, "rubygems" and "gem" for ruby.
package module
