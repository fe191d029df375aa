package smell

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/observability"
	"github.com/binford2k/denmark/pkg/repository"
)

// Engine runs the plugins of a Registry against one module.
//
// An Engine holds no per-evaluation state; one may serve many evaluations
// concurrently.
type Engine struct {
	registry *Registry
	parallel bool
	logger   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallel runs plugins concurrently. Alerts are still returned in
// registry order.
func WithParallel(parallel bool) Option {
	return func(e *Engine) { e.parallel = parallel }
}

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine over reg.
func NewEngine(reg *Registry, opts ...Option) *Engine {
	e := &Engine{registry: reg, logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the plugins this engine runs.
func (e *Engine) Registry() *Registry { return e.registry }

// Run evaluates every enabled plugin and concatenates their alerts in
// registry order, each plugin's alerts in emission order.
//
// The first plugin error aborts the evaluation and no alerts are returned.
func (e *Engine) Run(ctx context.Context, mod *module.Module, repo repository.Provider) ([]Alert, error) {
	plugins := e.registry.Plugins()
	if !e.parallel {
		var alerts []Alert
		for _, p := range plugins {
			got, err := e.runPlugin(ctx, p, mod, repo)
			if err != nil {
				return nil, err
			}
			alerts = append(alerts, got...)
		}
		return alerts, nil
	}

	results := make([][]Alert, len(plugins))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range plugins {
		g.Go(func() error {
			got, err := e.runPlugin(gctx, p, mod, repo)
			results[i] = got
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var alerts []Alert
	for _, got := range results {
		alerts = append(alerts, got...)
	}
	return alerts, nil
}

// runPlugin brackets one Run with Setup and Cleanup. Cleanup runs whenever
// Setup succeeded.
func (e *Engine) runPlugin(ctx context.Context, p Plugin, mod *module.Module, repo repository.Provider) (alerts []Alert, err error) {
	name := p.Name()
	hooks := observability.Plugin()
	hooks.OnPluginStart(ctx, name)
	start := time.Now()
	defer func() {
		hooks.OnPluginComplete(ctx, name, len(alerts), time.Since(start), err)
	}()

	if err := p.Setup(ctx); err != nil {
		return nil, fmt.Errorf("plugin %s: setup: %w", name, err)
	}
	defer func() {
		if cerr := p.Cleanup(ctx); cerr != nil && err == nil {
			alerts, err = nil, fmt.Errorf("plugin %s: cleanup: %w", name, cerr)
		}
	}()

	alerts, err = p.Run(ctx, mod, repo)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", name, err)
	}
	for _, a := range alerts {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("plugin %s: %w", name, err)
		}
		hooks.OnAlert(ctx, name, string(a.Severity))
	}

	e.logger.Debug("plugin finished", "plugin", name, "alerts", len(alerts), "duration", time.Since(start))
	return alerts, nil
}
