package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/category"
	"github.com/five82/promptdeck/internal/config"
	"github.com/five82/promptdeck/internal/engine"
	"github.com/five82/promptdeck/internal/logging"
	"github.com/five82/promptdeck/internal/metrics"
	"github.com/five82/promptdeck/internal/prefs"
	"github.com/five82/promptdeck/internal/ui"
)

// Options configure the promptdeck application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses prefs_path from config, then the backend default
	PollEvery  int    // seconds; zero uses poll_seconds from config

	// Dump loads once, prints the projections as JSON to Out and exits.
	Dump bool
	Out  io.Writer
	// Stderr receives console logs in dump mode. Nil means os.Stderr.
	Stderr io.Writer
}

// Run boots promptdeck until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	logOpts := logging.Options{Path: cfg.LogPath(), Level: cfg.LogLevel}
	if opts.Dump {
		logOpts.Console = opts.Stderr
		if logOpts.Console == nil {
			logOpts.Console = os.Stderr
		}
	}
	logger, closeLog, err := logging.Setup(logOpts)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	prefsPath := cfg.PrefsPath
	if opts.PrefsPath != "" {
		prefsPath = opts.PrefsPath
	}
	store, closePrefs, err := prefs.Open(cfg.PrefsBackend, prefsPath)
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer func() {
		if err := closePrefs(); err != nil {
			logger.Warn().Err(err).Msg("close preferences failed")
		}
	}()

	client, err := catalog.NewClient(cfg.SiteURL, cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}
	if !client.Configured() {
		logger.Info().Msg("community endpoint not configured; shared entries and likes are disabled")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()
	eng := engine.New(runCtx, engine.Options{
		Fetcher:     client,
		Prefs:       store,
		Logger:      logger,
		Metrics:     m,
		MergePolicy: cfg.LikesMerge,
		Limiter:     rate.NewLimiter(rate.Limit(cfg.LikeRate), cfg.LikeBurst),
	})
	eng.Restore()
	table := category.Default()

	if opts.Dump {
		eng.LoadAll(runCtx)
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		return Dump(out, eng.Store().Snapshot(), table)
	}

	return serve(runCtx, cancel, cfg, eng, m, table, logger)
}

// serve runs the TUI alongside the initial load, the likes poller and the
// optional metrics server. Whichever finishes first stops the rest.
func serve(ctx context.Context, cancel context.CancelFunc, cfg config.Config, eng *engine.Engine, m *metrics.Metrics, table *category.Table, logger zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		eng.LoadAll(gctx)
		return nil
	})

	stop := eng.StartPolling(gctx, cfg.PollInterval)
	defer stop()

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			snapshot := func() any { return Summarize(eng.Store().Snapshot(), table, false) }
			if err := m.Serve(gctx, cfg.MetricsAddr, snapshot, logger); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		return ui.Run(ui.Options{
			Context: gctx,
			Engine:  eng,
			Table:   table,
			SiteURL: cfg.SiteURL,
			LogPath: cfg.LogPath(),
		})
	})

	err := g.Wait()
	stop()
	eng.Wait()
	logger.Info().Msg("promptdeck stopped")
	return err
}
