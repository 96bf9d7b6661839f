package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/i18ndata/internal/daemon"
	"github.com/dmitrymomot/i18ndata/pkg/config"
	"github.com/dmitrymomot/i18ndata/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log, os.Stdout, logger.DefaultExtractors()...)

	app, err := daemon.Build(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to start", slog.Any("error", err))
		return err
	}
	return app.Run()
}
