package module

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/binford2k/denmark/pkg/cache"
	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/integrations"
	"github.com/binford2k/denmark/pkg/integrations/forge"
	"github.com/binford2k/denmark/pkg/integrations/github"
	"github.com/binford2k/denmark/pkg/integrations/gitlab"
	"github.com/binford2k/denmark/pkg/integrations/pypi"
	"github.com/binford2k/denmark/pkg/integrations/rubygems"
)

// DefaultUserAgent identifies denmark to registries that ask for one.
const DefaultUserAgent = "denmark"

// Resolver looks a module up in one registry.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*Module, error)
}

// Options configures registry access.
type Options struct {
	Cache       cache.Cache   // response memoization; nil disables it
	HTTPTimeout time.Duration // per-request timeout; 0 uses the default
	UserAgent   string        // sent to the Forge; "" uses DefaultUserAgent
	BaseURL     string        // overrides the registry endpoint (mirrors, tests)
}

// Source describes a registry that modules can be resolved from.
type Source struct {
	// Ecosystem is the canonical name used on the command line.
	Ecosystem Ecosystem

	// Registry names the backing service.
	Registry string

	// Aliases are alternative names accepted by Find.
	Aliases []string

	// Validate rejects names the registry could never serve.
	Validate func(name string) error

	// NewResolver creates a Resolver for this registry.
	NewResolver func(opts Options) Resolver
}

// All is the canonical list of supported registries, in display order.
var All = []*Source{
	{
		Ecosystem:   Puppet,
		Registry:    "forge",
		Aliases:     []string{"forge", "puppetforge"},
		Validate:    derrors.ValidateForgeSlug,
		NewResolver: newForgeResolver,
	},
	{
		Ecosystem:   Python,
		Registry:    "pypi",
		Aliases:     []string{"pypi"},
		Validate:    derrors.ValidateModuleName,
		NewResolver: newPyPIResolver,
	},
	{
		Ecosystem:   Ruby,
		Registry:    "rubygems",
		Aliases:     []string{"rubygems", "gem", "gems"},
		Validate:    derrors.ValidateModuleName,
		NewResolver: newRubyGemsResolver,
	},
}

// Find returns the Source for an ecosystem or registry name, or nil.
// Matching is case-insensitive.
func Find(name string) *Source {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range All {
		if string(s.Ecosystem) == name || slices.Contains(s.Aliases, name) {
			return s
		}
	}
	return nil
}

// Names returns the canonical ecosystem names.
func Names() []string {
	names := make([]string, 0, len(All))
	for _, s := range All {
		names = append(names, string(s.Ecosystem))
	}
	return names
}

// Resolve looks up name in the registry of the given ecosystem.
//
// Errors are coded: UNSUPPORTED_ECOSYSTEM for an unknown ecosystem,
// INVALID_INPUT for a malformed name, MODULE_NOT_FOUND when the registry
// doesn't know the module and EXTERNAL_SERVICE for everything else.
func Resolve(ctx context.Context, ecosystem, name string, opts Options) (*Module, error) {
	src := Find(ecosystem)
	if src == nil {
		return nil, derrors.New(derrors.ErrCodeUnsupportedEcosystem,
			"unsupported ecosystem %q (available: %s)", ecosystem, strings.Join(Names(), ", "))
	}
	return src.Resolve(ctx, name, opts)
}

// Resolve validates name and looks it up in this registry.
func (s *Source) Resolve(ctx context.Context, name string, opts Options) (*Module, error) {
	name = strings.TrimSpace(name)
	if s.Validate != nil {
		if err := s.Validate(name); err != nil {
			return nil, err
		}
	}
	mod, err := s.NewResolver(opts).Resolve(ctx, name)
	if err != nil {
		return nil, classify(err, s.Registry, name)
	}
	return mod, nil
}

func classify(err error, registry, name string) error {
	var coded *derrors.Error
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, integrations.ErrNotFound):
		return derrors.Wrap(derrors.ErrCodeModuleNotFound, err, "%s: module %q not found", registry, name)
	default:
		return derrors.Wrap(derrors.ErrCodeExternalService, err, "%s: lookup of %q failed", registry, name)
	}
}

func configure(c *integrations.Client, opts Options) {
	if opts.HTTPTimeout > 0 {
		c.SetHTTPClient(integrations.NewHTTPClient(opts.HTTPTimeout))
	}
}

type forgeResolver struct {
	client *forge.Client
}

func newForgeResolver(opts Options) Resolver {
	c := forge.NewClient(opts.Cache, cmp.Or(opts.UserAgent, DefaultUserAgent), 0)
	c.SetBaseURL(opts.BaseURL)
	configure(c.Client, opts)
	return &forgeResolver{client: c}
}

func (r *forgeResolver) Resolve(ctx context.Context, name string) (*Module, error) {
	info, err := r.client.FetchModule(ctx, name, false)
	if err != nil {
		return nil, err
	}
	mod := &Module{
		Name:        info.Slug,
		Ecosystem:   Puppet,
		HomepageURL: info.RepositoryURL(),
		IssuesURL:   info.IssuesURL,
		Deprecated:  info.Deprecated,
		Releases:    make([]Release, 0, len(info.Releases)),
	}
	for _, rel := range info.Releases {
		mod.Releases = append(mod.Releases, Release{
			Version:   rel.Version,
			UpdatedAt: rel.UpdatedAt,
			Changelog: rel.Changelog,
		})
	}
	return mod, nil
}

type pypiResolver struct {
	client *pypi.Client
}

func newPyPIResolver(opts Options) Resolver {
	c := pypi.NewClient(opts.Cache, 0)
	c.SetBaseURL(opts.BaseURL)
	configure(c.Client, opts)
	return &pypiResolver{client: c}
}

// Resolve maps a PyPI project. PyPI stores no changelog, so releases carry
// none; yanked releases are skipped.
func (r *pypiResolver) Resolve(ctx context.Context, name string) (*Module, error) {
	info, err := r.client.FetchPackage(ctx, name, false)
	if err != nil {
		return nil, err
	}
	mod := &Module{
		Name:        info.Name,
		Ecosystem:   Python,
		HomepageURL: repositoryURL(info.ProjectURLs, info.HomePage, info.SourceURL()),
		IssuesURL:   info.IssuesURL(),
		Releases:    make([]Release, 0, len(info.Releases)),
	}
	for _, rel := range info.Releases {
		if rel.Yanked {
			continue
		}
		mod.Releases = append(mod.Releases, Release{Version: rel.Version, UpdatedAt: rel.UploadedAt})
	}
	return mod, nil
}

type rubygemsResolver struct {
	client *rubygems.Client
}

func newRubyGemsResolver(opts Options) Resolver {
	c := rubygems.NewClient(opts.Cache, 0)
	c.SetBaseURL(opts.BaseURL)
	configure(c.Client, opts)
	return &rubygemsResolver{client: c}
}

func (r *rubygemsResolver) Resolve(ctx context.Context, name string) (*Module, error) {
	info, err := r.client.FetchGem(ctx, name, false)
	if err != nil {
		return nil, err
	}
	mod := &Module{
		Name:        info.Name,
		Ecosystem:   Ruby,
		HomepageURL: repositoryURL(map[string]string{"Source": info.SourceCodeURI}, info.HomepageURI, info.SourceURL()),
		IssuesURL:   info.BugTrackerURI,
		Releases:    make([]Release, 0, len(info.Versions)),
	}
	for _, v := range info.Versions {
		mod.Releases = append(mod.Releases, Release{Version: v.Number, UpdatedAt: v.CreatedAt})
	}
	return mod, nil
}

// repositoryURL picks a GitHub or GitLab repository from a registry's links.
// The registry's preferred link wins when it is one; otherwise any hosted
// repository among the links is used, and failing that the preferred link is
// returned unchanged.
func repositoryURL(urls map[string]string, homepage, preferred string) string {
	if u, ok := hostedRepository(nil, preferred); ok {
		return u
	}
	if u, ok := hostedRepository(urls, homepage); ok {
		return u
	}
	return preferred
}

func hostedRepository(urls map[string]string, homepage string) (string, bool) {
	if owner, repo, ok := github.ExtractURL(urls, homepage); ok {
		return "https://github.com/" + owner + "/" + repo, true
	}
	if owner, repo, ok := gitlab.ExtractURL(urls, homepage); ok {
		return "https://gitlab.com/" + owner + "/" + repo, true
	}
	return "", false
}
