package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/azim128/LiveDataStream/app/livestream"
	"github.com/azim128/LiveDataStream/core/config"
)

// Version information, set via ldflags during build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "livestream",
		Short: "Live value stream server",
		Long: `livestream accepts values over HTTP, stores them and pushes each one to
every client listening on the Server-Sent Events or WebSocket stream.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads the environment into a Config and builds the logger.
func loadConfig() (livestream.Config, *slog.Logger, io.Closer, error) {
	var cfg livestream.Config
	if err := config.Load(&cfg); err != nil {
		return cfg, nil, nil, err
	}

	log, closer, err := livestream.NewLogger(cfg)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, log, closer, nil
}
