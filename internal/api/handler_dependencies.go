package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/platelog/internal/db"
	"github.com/terraincognita07/platelog/internal/services"
	"gorm.io/gorm"
)

// NewHandler builds the repositories and services behind the HTTP surface. archive
// may be nil when photo archiving is off.
func NewHandler(database *gorm.DB, estimator services.Estimator, archive services.PhotoArchive, location *time.Location) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if estimator == nil {
		return nil, errors.New("estimator is required")
	}
	if location == nil {
		location = time.UTC
	}

	handler := &Handler{location: location}
	return handler.withDependencies(database, estimator, archive), nil
}

func (handler *Handler) withDependencies(database *gorm.DB, estimator services.Estimator, archive services.PhotoArchive) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.health = handler.repositories
	handler.ingestion = services.NewIngestionService(handler.repositories, estimator, archive, handler.location)
	handler.queries = services.NewQueryService(handler.repositories.Users, handler.repositories.FoodEntries)
	handler.entries = services.NewEntryService(handler.repositories.FoodEntries)
	return handler
}
