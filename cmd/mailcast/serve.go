package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailcast"
	"github.com/dmitrymomot/mailcast/internal/config"
	"github.com/dmitrymomot/mailcast/middlewares"
	"github.com/dmitrymomot/mailcast/pkg/logger"
)

const sentryFlushTimeout = 2 * time.Second

func newServeCmd() *cobra.Command {
	var (
		envFiles []string
		addr     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			log := logger.NewWithSentry(cfg.Log, cfg.Sentry, middlewares.RequestIDExtractor())
			defer logger.Flush(sentryFlushTimeout)

			ctx := cmd.Context()
			srv, err := mailcast.NewServer(ctx, cfg, mailcast.WithServerLogger(log))
			if err != nil {
				log.ErrorContext(ctx, "server setup failed", slog.String("error", err.Error()))
				return err
			}

			log.InfoContext(ctx, "mailcast configured",
				slog.String("transport", cfg.Transport),
				slog.String("storage", cfg.Storage),
				slog.Bool("metrics", cfg.MetricsEnabled),
			)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	return cmd
}
