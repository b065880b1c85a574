package cli

import (
	"log"

	"github.com/spf13/cobra"

	httpapi "github.com/worshipflow/planner-core/internal/adapters/driving/http"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the service planning HTTP API.

Connects to PostgreSQL (and Redis when --redis-url is set), creates the
schema unless MIGRATE_ON_START=false, and serves until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts)
		},
	}

	cmd.Flags().StringVar(&rootOpts.Config.Addr, "addr", rootOpts.Config.Addr, "listen address host:port (env PLANNER_ADDR)")
	cmd.Flags().StringSliceVar(&rootOpts.Config.AllowedOrigins, "cors-origins", rootOpts.Config.AllowedOrigins, "allowed CORS origins (env CORS_ALLOWED_ORIGINS)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	cfg := opts.Config
	host, port, err := cfg.HostPort()
	if err != nil {
		return err
	}

	log.Printf("planner-core %s starting", opts.Version)

	a, err := openApp(cmd.Context(), cfg, opts.logger())
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		conflicts httpapi.ConflictFeed
		redisPing httpapi.Pinger
	)
	if a.notifier != nil {
		conflicts = a.notifier
		redisPing = a.notifier
	}

	server := httpapi.NewServer(
		httpapi.Config{
			Host:           host,
			Port:           port,
			Version:        opts.Version,
			AllowedOrigins: cfg.AllowedOrigins,
		},
		a.planning,
		a.selection,
		conflicts,
		a.db,
		redisPing,
	)

	return server.Start()
}
