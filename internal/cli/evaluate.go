package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/pipeline"
	"github.com/binford2k/denmark/pkg/report"
	"github.com/binford2k/denmark/pkg/smell"
)

// evaluateOpts holds the command-line flags for the evaluate command.
type evaluateOpts struct {
	ecosystem   string
	format      string
	detail      bool
	enable      []string
	disable     []string
	parallel    bool
	timeout     time.Duration
	repository  string
	noCache     bool
	minSeverity string
}

func (c *CLI) evaluateCommand() *cobra.Command {
	opts := evaluateOpts{
		ecosystem: pipeline.DefaultEcosystem,
		format:    report.FormatHuman,
		timeout:   defaultEvaluateTimeout,
	}

	cmd := &cobra.Command{
		Use:   "evaluate <module>",
		Short: "Run the smell tests against a published module",
		Long: `Resolve a module on its registry, find its source repository and run the
enabled smell test plugins against both.

Puppet modules may be given as owner-name or owner/name.`,
		Example: `  denmark evaluate puppetlabs-stdlib
  denmark evaluate -e python requests --detail
  denmark evaluate -e ruby rake --format json --disable timeline
  denmark evaluate puppetlabs-apache --min-severity orange`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEvaluate(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.ecosystem, "ecosystem", "e", opts.ecosystem, "module ecosystem ("+strings.Join(module.Names(), ", ")+")")
	f.StringVarP(&opts.format, "format", "f", opts.format, "output format (human, json)")
	f.BoolVarP(&opts.detail, "detail", "d", false, "explain each alert")
	f.StringSliceVar(&opts.enable, "enable", nil, "only run these plugins")
	f.StringSliceVar(&opts.disable, "disable", nil, "skip these plugins")
	f.BoolVar(&opts.parallel, "parallel", false, "run plugins concurrently")
	f.DurationVar(&opts.timeout, "timeout", opts.timeout, "overall evaluation deadline")
	f.StringVar(&opts.repository, "repository", "", "source repository URL, overriding the registry's")
	f.BoolVar(&opts.noCache, "no-cache", false, "send every API request, even repeated ones")
	f.StringVar(&opts.minSeverity, "min-severity", "", "hide alerts less severe than this (red, orange, yellow, green)")

	_ = cmd.RegisterFlagCompletionFunc("ecosystem", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return module.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{report.FormatHuman, report.FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("min-severity", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(smell.Severities))
		for i, s := range smell.Severities {
			names[i] = string(s)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runEvaluate(cmd *cobra.Command, name string, opts evaluateOpts) error {
	if opts.format != report.FormatHuman && opts.format != report.FormatJSON {
		return derrors.New(derrors.ErrCodeInvalidFormat, "unknown format %q (want human or json)", opts.format)
	}

	runner, err := c.newRunner()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var spinner *Spinner
	if opts.format == report.FormatHuman {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Evaluating %s...", name))
		spinner.Start()
	}

	result, err := runner.Execute(ctx, pipeline.Options{
		Ecosystem:     opts.ecosystem,
		Module:        name,
		Enable:        opts.enable,
		Disable:       opts.disable,
		Parallel:      opts.parallel,
		RepositoryURL: opts.repository,
		NoCache:       opts.noCache,
		MinSeverity:   opts.minSeverity,
	})
	if spinner != nil {
		if err != nil {
			spinner.StopWithError(fmt.Sprintf("Could not evaluate %s", name))
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Ran %d plugins against %s", result.Stats.Plugins, result.Module.Name))

	if opts.format == report.FormatHuman {
		printReportHeader(result.Report)
	}
	return result.Report.Write(cmd.OutOrStdout(), opts.format, opts.detail)
}

// printReportHeader prints what was evaluated, ahead of the alerts.
func printReportHeader(r *report.Report) {
	printKeyValue("Module", r.Module)
	printKeyValue("Version", r.Version)
	printKeyValue("Repository", r.Repository)

	counts := r.Counts()
	line := ""
	for i, sev := range smell.Severities {
		if i > 0 {
			line += " · "
		}
		line += fmt.Sprintf("%d %s", counts[sev], sev)
	}
	printDetail("%s", line)
	if counts[smell.Red] > 0 {
		printWarning("Something is rotten: %d red alerts", counts[smell.Red])
	}
	printNewline()
}
