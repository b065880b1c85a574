// Package cli implements the planner-core command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  Config
	Verbose bool
	Format  string // "json" | "text"
	Version string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Flag defaults come from the environment.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{Config: LoadConfig(), Version: version}

	cmd := &cobra.Command{
		Use:     "planner-core",
		Short:   "Service planning reconciliation API",
		Long:    "Reconciles concurrent edits to church service plans from the pastor and worship teams.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true, // main reports the error
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.Config.DatabaseURL, "database-url", opts.Config.DatabaseURL, "PostgreSQL connection string (env DATABASE_URL)")
	flags.StringVar(&opts.Config.RedisURL, "redis-url", opts.Config.RedisURL, "Redis URL; empty disables Redis (env REDIS_URL)")
	flags.StringVar(&opts.Config.CalendarFile, "calendar-file", opts.Config.CalendarFile, "liturgical calendar YAML; empty uses the built-in calendar (env CALENDAR_FILE)")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewRecoverCommand(opts))
	cmd.AddCommand(NewCalendarCommand(opts))

	return cmd
}

// logger returns the process logger for the selected verbosity
func (o *RootOptions) logger() *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
