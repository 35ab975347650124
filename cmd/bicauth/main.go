package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/lankamar/bicauth/internal/cli"
	"github.com/lankamar/bicauth/internal/config"
	"github.com/lankamar/bicauth/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db, err := cli.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}
	defer db.Close()

	app := cli.NewApp(cfg, db, logger)

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}
}
