// Package pkg holds the libraries behind denmark, a smell tester for
// published modules.
//
// # Overview
//
// Denmark resolves a module on its registry, follows it to its source
// repository and runs a set of smell test plugins against both. Each plugin
// reports alerts at one of four severities (red, orange, yellow, green).
//
//	Registry (Forge / PyPI / RubyGems)
//	         ↓
//	    [module] package (resolve releases and homepage)
//	         ↓
//	    [repository] package (GitHub / GitLab provider)
//	         ↓
//	    [smell] package (registry + engine + plugins)
//	         ↓
//	    [report] package (human or JSON output)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(config.Default(), nil)
//	result, err := runner.Execute(ctx, pipeline.Options{Module: "puppetlabs-stdlib"})
//	if err != nil {
//	    return err
//	}
//	result.Report.WriteText(os.Stdout, true)
//
// # Packages
//
// [pipeline] orchestrates one evaluation and is shared by the CLI and
// [server]. [integrations] holds the HTTP clients for every upstream API,
// built on [cache], [httputil] and [observability]. [config] loads the TOML
// configuration and [errors] defines the coded errors used throughout.
//
// [pipeline]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/server
// [integrations]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/observability
// [config]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/config
// [errors]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/errors
//
// [module]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/module
// [repository]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/repository
// [smell]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/smell
// [report]: https://pkg.go.dev/github.com/binford2k/denmark/pkg/report
package pkg
