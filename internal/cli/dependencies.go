package cli

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/terraincognita07/platelog/internal/config"
	"github.com/terraincognita07/platelog/internal/db"
	"github.com/terraincognita07/platelog/internal/estimation"
	"github.com/terraincognita07/platelog/internal/services"
	"github.com/terraincognita07/platelog/internal/storage"
	"gorm.io/gorm"
)

// openDatabase opens the configured database and brings its schema up to date.
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return db.OpenSQLite(cfg.Database.Path)
	case config.DriverPostgres:
		return db.OpenPostgres(db.PostgresOptions{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Name:     cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func closeDatabase(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("close database: %v", err)
	}
}

func databaseLabel(cfg config.Config) string {
	if cfg.Database.Driver == config.DriverPostgres {
		return fmt.Sprintf("postgres %s/%s", cfg.Database.Host, cfg.Database.Name)
	}
	return "sqlite " + cfg.Database.Path
}

// newEstimator returns the Gemini estimator, or a disabled one when no API key is
// configured so manual logging keeps working.
func newEstimator(ctx context.Context, cfg config.Config) (services.Estimator, error) {
	if strings.TrimSpace(cfg.Estimation.APIKey) == "" {
		log.Printf("GOOGLE_API_KEY is not set, image estimation is disabled")
		return estimation.Disabled{}, nil
	}

	estimator, err := estimation.NewGeminiEstimator(ctx, estimation.Config{
		APIKey:  cfg.Estimation.APIKey,
		Model:   cfg.Estimation.Model,
		Timeout: cfg.Estimation.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("estimator init failed: %w", err)
	}
	return estimator, nil
}

// newPhotoArchive returns nil when no bucket is configured.
func newPhotoArchive(ctx context.Context, cfg config.Config) (services.PhotoArchive, error) {
	bucket := strings.TrimSpace(cfg.Photos.Bucket)
	if bucket == "" {
		return nil, nil
	}

	client, err := storage.NewS3Client(ctx, storage.S3Options{
		Bucket:   bucket,
		Region:   cfg.Photos.Region,
		Endpoint: cfg.Photos.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("photo archive init failed: %w", err)
	}
	return storage.NewS3PhotoArchive(client, bucket), nil
}
