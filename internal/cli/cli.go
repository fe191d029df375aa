package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/binford2k/denmark/pkg/buildinfo"
	"github.com/binford2k/denmark/pkg/config"
	"github.com/binford2k/denmark/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "denmark"

	// defaultEvaluateTimeout bounds a whole evaluation when --timeout is unset.
	defaultEvaluateTimeout = 5 * time.Minute
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	registryURL string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Denmark sniffs out smells in published modules",
		Long: `Denmark looks for signs that something is rotten in a published module:
neglected issues and pull requests, registry metadata that disagrees with the
source repository, and suspicious changes in who tags and signs releases.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/denmark/config.toml)")
	root.PersistentFlags().StringVar(&c.registryURL, "registry-url", "", "override the module registry endpoint")
	_ = root.PersistentFlags().MarkHidden("registry-url")

	root.AddCommand(c.evaluateCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner loads the configuration and creates a pipeline runner for CLI use.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cfg, c.Logger)
	r.RegistryURL = c.registryURL
	return r, nil
}
