package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/azim128/LiveDataStream/app/livestream"
	"github.com/azim128/LiveDataStream/core/logger"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, closer, err := loadConfig()
			if err != nil {
				return err
			}
			defer closer.Close()

			if addr != "" {
				cfg.Server.Addr = addr
			}

			log = log.With(logger.Version(Version))
			app, err := livestream.New(ctx, cfg, livestream.WithLogger(log))
			if err != nil {
				log.ErrorContext(ctx, "failed to start", logger.Error(err))
				return err
			}
			return app.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides SERVER_ADDR")
	return cmd
}
