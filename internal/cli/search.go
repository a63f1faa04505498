package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/gomarkov/internal/display"
	"github.com/gitrdm/gomarkov/internal/telemetry"
	"github.com/gitrdm/gomarkov/pkg/markov"
)

type searchOptions struct {
	*rootOptions

	lines      int
	minLines   int
	maxLines   int
	start      uint64
	ceiling    uint64
	cacheLimit uint64

	metricsAddr     string
	metricsExporter string
	interval        time.Duration
	quiet           bool
	showStats       bool
}

func newSearchCommand(root *rootOptions) *cobra.Command {
	opts := &searchOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Enumerate programs until one passes every test case",
		Long: `Enumerates rewrite programs in index order, skips the ones that are
provably useless, and runs the rest against the configured test cases.
The first program passing every case is printed and the search stops.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.searchConfig(cmd)
			if err != nil {
				return err
			}
			return runSearch(cmd, opts, cfg)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.lines, "lines", "n", 0, "Search only programs with this many lines")
	f.IntVar(&opts.minLines, "min-lines", 0, "Smallest program length tried")
	f.IntVar(&opts.maxLines, "max-lines", 0, "Largest program length tried")
	f.Uint64Var(&opts.start, "start", 0, "First index searched")
	f.Uint64Var(&opts.ceiling, "ceiling", 0, "Exclusive index bound")
	f.Uint64Var(&opts.cacheLimit, "cache-limit", 0, "Indices below this bound are memoized")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	f.StringVar(&opts.metricsExporter, "metrics-exporter", "prometheus", "OpenTelemetry metric exporter: prometheus, stdout, none")
	f.DurationVar(&opts.interval, "interval", 100*time.Millisecond, "Minimum time between progress updates")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Do not draw candidates while searching")
	f.BoolVar(&opts.showStats, "stats", false, "Print search statistics at the end")
	return cmd
}

func (o *searchOptions) searchConfig(cmd *cobra.Command) (*markov.Config, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("lines") {
		cfg.MinLines, cfg.MaxLines = o.lines, o.lines
	}
	if flags.Changed("min-lines") {
		cfg.MinLines = o.minLines
	}
	if flags.Changed("max-lines") {
		cfg.MaxLines = o.maxLines
	}
	if flags.Changed("start") {
		cfg.Start = o.start
	}
	if flags.Changed("ceiling") {
		cfg.Ceiling = o.ceiling
	}
	if flags.Changed("cache-limit") {
		cfg.CacheLimit = o.cacheLimit
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSearch(cmd *cobra.Command, opts *searchOptions, cfg *markov.Config) error {
	logger := opts.logger
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tcfg := telemetry.DefaultConfig()
	tcfg.ServiceVersion = markov.GetVersion()
	tcfg.MetricExporter = opts.metricsExporter
	tel, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		return errors.Wrap(err, "init telemetry")
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	progress := display.NewProgress(cmd.OutOrStdout(), opts.interval)
	monitor := markov.NewSearchMonitor()
	searchOpts := []markov.Option{
		markov.WithLogger(logger),
		markov.WithMonitor(monitor),
	}
	if !opts.quiet {
		searchOpts = append(searchOpts, markov.OnCandidate(progress.Candidate))
	}
	searcher, err := markov.NewSearcher(cfg, searchOpts...)
	if err != nil {
		return err
	}

	reg, err := searcher.Encoder().Cache().RegisterMetrics(tel.Meter("github.com/gitrdm/gomarkov/pkg/markov"))
	if err != nil {
		return errors.Wrap(err, "register cache metrics")
	}
	defer func() { _ = reg.Unregister() }()
	if err := tel.Registry().Register(telemetry.NewSearchCollector(monitor)); err != nil {
		return errors.Wrap(err, "register search collector")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if opts.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", tel.Handler())
		srv := &http.Server{
			Addr:              opts.metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("serving metrics", zap.String("addr", opts.metricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	var found *markov.Candidate
	g.Go(func() error {
		defer cancel()
		var err error
		found, err = searcher.Run(gctx)
		return err
	})

	err = g.Wait()
	if opts.showStats {
		defer progress.Stats(monitor.GetStats())
	}
	if err != nil {
		progress.NotFound(err)
		return err
	}
	progress.Found(*found)
	return nil
}
