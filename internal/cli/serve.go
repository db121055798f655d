package cli

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jamestrimble/maximal-clique/internal/api"
	"github.com/jamestrimble/maximal-clique/pkg/cache"
	"github.com/jamestrimble/maximal-clique/pkg/observability"
	"github.com/jamestrimble/maximal-clique/pkg/pipeline"
)

// metricsNamespace prefixes all exported Prometheus metrics.
const metricsNamespace = "cliquecount"

type serveOpts struct {
	addr      string
	rateLimit float64
	burst     int
	noCache   bool
	noMetrics bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve clique counting over HTTP",
		Long: `Start an HTTP server exposing:

  POST /v1/count    count the maximal cliques of the edge list in the body
  POST /v1/render   draw the edge list in the body (format=svg|dot)
  GET  /healthz     liveness and build info
  GET  /metrics     Prometheus metrics

Results share the configured cache under an "api:" prefix.`,
		Example: `  cliquecount serve --addr :9000
  curl --data-binary @graph.txt 'localhost:8080/v1/count?sets=bitset'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := c.Config.Serve
			if !cmd.Flags().Changed("addr") {
				opts.addr = sc.Addr
			}
			if !cmd.Flags().Changed("rate-limit") {
				opts.rateLimit = sc.RateLimit
			}
			if !cmd.Flags().Changed("burst") {
				opts.burst = sc.Burst
			}
			return c.runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", ":8080", "listen address")
	f.Float64Var(&opts.rateLimit, "rate-limit", 2, "sustained /v1 requests per second (0 = unlimited)")
	f.IntVar(&opts.burst, "burst", 4, "requests allowed above the sustained rate")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	sc := c.Config.Serve

	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, "api:"), c.Logger)
	defer runner.Close()

	var metrics http.Handler
	if !opts.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom, err := observability.NewPrometheus(metricsNamespace, reg)
		if err != nil {
			return err
		}
		prom.Install()
		defer observability.Reset()
		metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	srv := api.New(runner, api.Config{
		Addr:           opts.addr,
		RateLimit:      opts.rateLimit,
		Burst:          opts.burst,
		MaxBodyBytes:   sc.MaxBodyBytes,
		MaxVertices:    sc.MaxVertices,
		RequestTimeout: sc.RequestTimeout,
	}, c.Logger, metrics)
	return srv.ListenAndServe(ctx)
}
