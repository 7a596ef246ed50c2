package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/localedit/internal/web"
	"github.com/dmitrymomot/localedit/pkg/locale"
	"github.com/dmitrymomot/localedit/pkg/logger"
)

func (a *app) serveCommand() *cobra.Command {
	var (
		addr     string
		noWatch  bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the locale editor over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("address") {
				a.cfg.Address = addr
			}
			if flags.Changed("no-watch") {
				a.cfg.WatchEnabled = !noWatch
			}
			if flags.Changed("debounce") {
				a.cfg.WatchDebounce = debounce
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "address", "", "listen address (env ADDRESS)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "disable live reload (env WATCH_ENABLED=false)")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "coalesce file events within this window (env WATCH_DEBOUNCE)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	log := a.logger()
	defer logger.Flush(2 * time.Second)

	opts := []locale.Option{
		locale.WithLogger(log),
		locale.WithDebounce(a.cfg.WatchDebounce),
		locale.WithEvictOnDelete(a.cfg.EvictOnDelete),
		locale.WithChangeListener(func(c locale.Change) {
			log.Info("locale file changed",
				slog.String("path", c.Path),
				slog.String("locale", c.Locale),
				slog.String("namespace", c.Namespace),
				slog.Bool("removed", c.Removed),
			)
		}),
	}
	if !a.cfg.WatchEnabled {
		opts = append(opts, locale.WithoutWatch())
	}

	engine, err := locale.New(ctx, a.cfg.LocalesRoot, opts...)
	if err != nil {
		log.Error("cannot load locales", slog.String("root", a.cfg.LocalesRoot), slog.String("error", err.Error()))
		return err
	}

	srv := web.New(engine,
		web.WithLogger(log),
		web.WithAddress(a.cfg.Address),
		web.WithShutdownTimeout(a.cfg.ShutdownTimeout),
		web.WithRequireWatch(a.cfg.WatchEnabled),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return engine.Close()
	})
	return g.Wait()
}
