// Package smell runs smell tests against a module and its repository.
//
// A smell is a heuristic signal that a release may be unmaintained,
// inconsistently published or tampered with. It is never a definitive
// finding. Smell tests are [Plugin] values collected in a [Registry], which
// applies the enable and disable lists, and executed by an [Engine]:
//
//	reg := smell.NewRegistry(plugins.All(), smell.Options{Enable: []string{"issues"}})
//	alerts, err := smell.NewEngine(reg).Run(ctx, mod, repo)
//
// Each [Alert] carries a [Severity] from the closed set red, orange, yellow
// and green, red being the most concerning.
//
// # Failure policy
//
// A plugin that finds no data produces no alerts. A plugin that cannot reach
// the repository fails the whole evaluation: a partial report could hide the
// smell that matters.
package smell
