package api

import (
	"context"
	"time"

	"github.com/terraincognita07/platelog/internal/db"
	"github.com/terraincognita07/platelog/internal/services"
)

type healthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	repositories *db.Repositories
	health       healthChecker
	ingestion    *services.IngestionService
	queries      *services.QueryService
	entries      *services.EntryService
	location     *time.Location
}

// entryResponse is the wire form of a stored food entry.
type entryResponse struct {
	ID            uint    `json:"id"`
	FoodName      string  `json:"food_name"`
	Description   *string `json:"description"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	CreationDate  string  `json:"creation_date"`
	UserID        uint    `json:"user_id"`
	Source        string  `json:"source"`
	PhotoKey      *string `json:"photo_key,omitempty"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	errorCategoryInvalidInput     = "invalid_input"
	errorCategoryDependencyFailed = "dependency_failed"
	errorCategoryNotFound         = "not_found"
	errorCategoryConflict         = "conflict"
	errorCategoryInternal         = "internal"
)
