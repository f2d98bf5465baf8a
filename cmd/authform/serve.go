package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/internal/logger"
	"github.com/goliatone/go-authform/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the login and registration page over HTTP",
	Long: `Serve the page, its assets and the JSON API the page script calls.
Drafts are kept in the store selected by drafts.driver. The server stops
gracefully on SIGINT or SIGTERM, flushing pending draft autosaves.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := server.Build(ctx, cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		log.Error("failed to build server", zap.Error(err))
		return err
	}
	return srv.Run(ctx)
}
