// Package cmd implements the localedit command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/localedit/internal/config"
	"github.com/dmitrymomot/localedit/internal/web"
	"github.com/dmitrymomot/localedit/pkg/locale"
	"github.com/dmitrymomot/localedit/pkg/logger"
)

// app holds state shared by all subcommands.
type app struct {
	cfg       config.Config
	root      string
	logLevel  string
	logFormat string
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "localedit",
		Short: "Browse and edit JSON locale files",
		Long: `localedit indexes a tree of {locale}/{namespace}.json files,
serves a live-reloading editor for it and edits single fields
from the command line.

Settings are read from the environment (LOCALES_ROOT, ADDRESS,
LOG_LEVEL, LOG_FORMAT, ...); flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.root, "root", "", "locales root directory (env LOCALES_ROOT)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "json or text (env LOG_FORMAT)")

	root.AddCommand(
		a.serveCommand(),
		a.localesCommand(),
		a.entriesCommand(),
		a.getCommand(),
		a.setCommand(),
		a.unsetCommand(),
	)
	return root
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.LocalesRoot = a.root
	}
	if flags.Changed("log-level") {
		cfg.Logger.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logger.Format = a.logFormat
	}
	cfg.Logger.Output = cmd.ErrOrStderr()

	a.cfg = cfg
	return nil
}

func (a *app) logger() *slog.Logger {
	return logger.New(a.cfg.Logger, web.RequestIDExtractor())
}

// openEngine loads the locales root without live reload.
func (a *app) openEngine(ctx context.Context) (*locale.Engine, error) {
	return locale.New(ctx, a.cfg.LocalesRoot,
		locale.WithLogger(a.logger()),
		locale.WithoutWatch(),
	)
}
