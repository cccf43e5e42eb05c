package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/bpdiary/internal/config"
	"github.com/roach88/bpdiary/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Now overrides the wall clock (for testing). Defaults to time.Now.
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bpdiary CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bpdiary",
		Short: "bpdiary - a blood pressure diary",
		Long: `A local blood pressure diary.

Readings are kept in a SQLite file, one per morning or evening. They can be
listed, grouped by day, charted over a window of days and exported as a
standalone HTML report.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file (default $"+config.PathEnv+")")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewChartCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// session is what every command works with: resolved config, an open store
// and an output formatter bound to the command's writers.
type session struct {
	ctx       context.Context
	cfg       *config.Config
	store     *store.Store
	logger    *slog.Logger
	formatter *OutputFormatter
	now       func() time.Time
}

// openSession loads configuration, applies the command's --db override and
// opens the store.
func openSession(opts *RootOptions, database string, cmd *cobra.Command) (*session, error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	if database != "" {
		cfg.Database = database
	}

	level := cfg.Level()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(formatter.GetErrWriter(), level)

	// Use command's context if available (for testing), otherwise create one
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Debug("opening database", "path", cfg.Database)
	st, err := store.Open(ctx, cfg.Database,
		store.WithClock(opts.now),
		store.WithLogger(logger),
		store.WithBusyTimeout(cfg.BusyTimeout),
	)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to open database", err)
	}

	return &session{
		ctx:       ctx,
		cfg:       cfg,
		store:     st,
		logger:    logger,
		formatter: formatter,
		now:       opts.now,
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// localNow is the wall clock in the configured zone.
func (s *session) localNow() time.Time {
	return s.now().In(s.cfg.Location())
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// addDatabaseFlag registers the per-command --db override.
func addDatabaseFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "db", "", "path to SQLite database (overrides config)")
}
