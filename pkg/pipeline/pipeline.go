// Package pipeline wires one denmark evaluation end to end.
//
// Module resolution, repository provider construction, the smell engine and
// report assembly live here so the CLI and the HTTP API behave identically.
//
// # Stages
//
//  1. Resolve: look the module up in its registry
//  2. Connect: build a repository provider from the module's source URL
//  3. Evaluate: run the enabled smell plugins
//
// Each evaluation gets a fresh in-memory response cache; nothing outlives
// the run.
//
// # Usage
//
//	runner := pipeline.NewRunner(cfg, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Ecosystem: "puppet",
//	    Module:    "puppetlabs-stdlib",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Report.WriteText(os.Stdout, true)
package pipeline

import (
	"strings"
	"time"

	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/report"
	"github.com/binford2k/denmark/pkg/smell"
)

// DefaultEcosystem is used when Options.Ecosystem is empty.
const DefaultEcosystem = string(module.Puppet)

// Options describes one evaluation. It supports JSON for API requests.
type Options struct {
	Ecosystem string   `json:"ecosystem,omitempty"`
	Module    string   `json:"module"`
	Enable    []string `json:"enable,omitempty"`  // added to the configured enable list
	Disable   []string `json:"disable,omitempty"` // added to the configured disable list
	Parallel  bool     `json:"parallel,omitempty"`

	// RepositoryURL replaces the source URL the registry advertises.
	RepositoryURL string `json:"repository_url,omitempty"`

	// NoCache disables memoization of identical API requests.
	NoCache bool `json:"no_cache,omitempty"`

	// MinSeverity drops less severe alerts from the report ("" keeps all).
	MinSeverity string `json:"min_severity,omitempty"`
}

// ValidateAndSetDefaults normalizes the options in place.
func (o *Options) ValidateAndSetDefaults() error {
	o.Module = strings.TrimSpace(o.Module)
	o.Ecosystem = strings.ToLower(strings.TrimSpace(o.Ecosystem))
	if o.Ecosystem == "" {
		o.Ecosystem = DefaultEcosystem
	}
	if o.Module == "" {
		return derrors.New(derrors.ErrCodeInvalidInput, "module name is required")
	}
	if module.Find(o.Ecosystem) == nil {
		return derrors.New(derrors.ErrCodeUnsupportedEcosystem,
			"unsupported ecosystem %q (available: %s)", o.Ecosystem, strings.Join(module.Names(), ", "))
	}
	if o.RepositoryURL != "" {
		if err := derrors.ValidateURL(o.RepositoryURL); err != nil {
			return err
		}
	}
	if o.MinSeverity != "" {
		sev, err := smell.ParseSeverity(o.MinSeverity)
		if err != nil {
			return err
		}
		o.MinSeverity = string(sev)
	}
	return nil
}

// Result is the outcome of Execute.
type Result struct {
	Module *module.Module
	Report *report.Report
	Stats  Stats
}

// Stats contains execution statistics.
type Stats struct {
	Plugins      int
	ResolveTime  time.Duration
	EvaluateTime time.Duration
}
