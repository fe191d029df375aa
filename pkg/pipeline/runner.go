package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/binford2k/denmark/pkg/buildinfo"
	"github.com/binford2k/denmark/pkg/cache"
	"github.com/binford2k/denmark/pkg/config"
	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/report"
	"github.com/binford2k/denmark/pkg/repository"
	"github.com/binford2k/denmark/pkg/smell"
	"github.com/binford2k/denmark/pkg/smell/plugins"
)

// Runner executes evaluations.
//
// The Runner is stateless apart from its configuration; multiple goroutines
// can safely share one.
type Runner struct {
	Config  *config.Config
	Plugins []smell.Plugin // nil means plugins.All()
	Logger  *log.Logger

	// RegistryURL overrides the registry endpoint (mirrors, tests).
	RegistryURL string
}

// NewRunner creates a runner. A nil cfg means config.Default() and a nil
// logger means log.Default().
func NewRunner(cfg *config.Config, logger *log.Logger) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Config: cfg, Logger: logger}
}

// Registry returns the plugins selected by the configuration plus the extra
// enable and disable names.
func (r *Runner) Registry(enable, disable []string) *smell.Registry {
	all := r.Plugins
	if all == nil {
		all = plugins.All()
	}
	return smell.NewRegistry(all, r.Config.PluginOptions(enable, disable, r.Logger))
}

// Execute resolves the module, connects to its repository and runs the
// enabled plugins.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var memo cache.Cache = cache.NewMemoryCache()
	if opts.NoCache {
		memo = cache.NewNullCache()
	}
	defer memo.Close()

	result := &Result{}

	// Stage 1: Resolve
	resolveStart := time.Now()
	mod, err := module.Resolve(ctx, opts.Ecosystem, opts.Module, module.Options{
		Cache:       memo,
		HTTPTimeout: r.Config.HTTP.Timeout.Duration,
		UserAgent:   buildinfo.UserAgent(),
		BaseURL:     r.RegistryURL,
	})
	if err != nil {
		return nil, err
	}
	result.Module = mod
	result.Stats.ResolveTime = time.Since(resolveStart)

	r.Logger.Info("resolved module",
		"module", mod.Name,
		"version", mod.Version(),
		"releases", len(mod.Releases),
		"duration", result.Stats.ResolveTime)

	// Stage 2: Connect
	repoURL := cmp.Or(opts.RepositoryURL, mod.HomepageURL)
	repo, err := repository.New(repoURL, r.Config.Repository(memo, r.Logger))
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("selected repository provider", "flavor", repo.Flavor(), "repo", repo.Slug())

	// Stage 3: Evaluate
	reg := r.Registry(opts.Enable, opts.Disable)
	engine := smell.NewEngine(reg, smell.WithParallel(opts.Parallel), smell.WithLogger(r.Logger))

	evalStart := time.Now()
	alerts, err := engine.Run(ctx, mod, repo)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", mod.Name, err)
	}
	result.Stats.Plugins = reg.Len()
	result.Stats.EvaluateTime = time.Since(evalStart)
	result.Report = report.New(mod, repoURL, smell.AtLeast(alerts, smell.Severity(opts.MinSeverity)))

	r.Logger.Info("evaluated module",
		"plugins", reg.Len(),
		"alerts", len(alerts),
		"duration", result.Stats.EvaluateTime)

	return result, nil
}
