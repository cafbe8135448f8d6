package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/platelog/internal/api"
	"github.com/terraincognita07/platelog/internal/config"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), options)
		},
	}
}

func runServe(ctx context.Context, options *rootOptions) error {
	cfg, err := config.Load(options.configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	location := cfg.Location()
	time.Local = location

	database, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	estimator, err := newEstimator(ctx, cfg)
	if err != nil {
		return err
	}
	archive, err := newPhotoArchive(ctx, cfg)
	if err != nil {
		return err
	}

	handler, err := api.NewHandler(database, estimator, archive, location)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := api.NewApp(handler, api.AppOptions{
		CORSOrigins:    cfg.CORSOrigins(),
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		AccessLog:      true,
	})

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Platelog listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Port, databaseLabel(cfg), location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
