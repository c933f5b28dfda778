package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolViz/internal/app"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
)

// NewServeCmd runs the web server in the foreground.
func NewServeCmd() *cobra.Command {
	var (
		port    int
		backend string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MolViz web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			if port > 0 {
				cfg.Server.Port = port
			}
			if backend != "" {
				cfg.Session.Backend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := app.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cliCtx.ConfigPath != "" {
				if err := app.WatchLogLevel(cliCtx.ConfigPath, logger); err != nil {
					logger.Warn("config watch disabled", logging.Err(err))
				}
			}

			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().StringVar(&backend, "session-backend", "", "session store: memory or redis (overrides session.backend)")
	return cmd
}

//Personal.AI order the ending
