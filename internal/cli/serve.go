package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/binford2k/denmark/internal/metrics"
	"github.com/binford2k/denmark/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		withMetrics bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve evaluations over HTTP",
		Long: `Start the HTTP API:

  GET  /health
  GET  /v1/plugins
  GET  /v1/evaluate?module=...&ecosystem=...
  POST /v1/evaluate
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := c.newRunner()
			if err != nil {
				return err
			}

			opts := []server.Option{
				server.WithAddr(addr),
				server.WithLogger(c.Logger),
				server.WithEvaluateTimeout(timeout),
			}
			if withMetrics {
				m := metrics.New(prometheus.NewRegistry())
				m.Install()
				opts = append(opts, server.WithMetrics(m))
			}
			srv := server.NewServer(runner, opts...)

			printInfo("Listening on %s", StyleLink.Render("http://"+addr))
			printNextStep("Try", "curl 'http://"+addr+"/v1/evaluate?module=puppetlabs-stdlib'")

			err = srv.Run(cmd.Context())
			if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
				printSuccess("Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&withMetrics, "metrics", true, "expose Prometheus metrics on /metrics")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultEvaluateTimeout, "per-request evaluation deadline")

	return cmd
}
