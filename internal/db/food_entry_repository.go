package db

import (
	"context"
	"errors"
	"time"

	"github.com/terraincognita07/platelog/internal/models"
	"gorm.io/gorm"
)

type FoodEntryRepository struct {
	database *gorm.DB
}

func NewFoodEntryRepository(database *gorm.DB) *FoodEntryRepository {
	return &FoodEntryRepository{database: database}
}

func (repo *FoodEntryRepository) Create(ctx context.Context, entry *models.FoodEntry) error {
	return repo.database.WithContext(ctx).Create(entry).Error
}

func (repo *FoodEntryRepository) List(ctx context.Context) ([]models.FoodEntry, error) {
	entries := make([]models.FoodEntry, 0)
	if err := repo.database.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUser returns the user's entries. When day is set only entries whose
// creation date falls in [day, day+1) are returned.
func (repo *FoodEntryRepository) ListByUser(ctx context.Context, userID uint, day *time.Time) ([]models.FoodEntry, error) {
	query := repo.database.WithContext(ctx).Where("user_id = ?", userID)
	if day != nil {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		query = query.Where("creation_date >= ? AND creation_date < ?", start, start.AddDate(0, 0, 1))
	}

	entries := make([]models.FoodEntry, 0)
	if err := query.Order("creation_date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *FoodEntryRepository) FindByID(ctx context.Context, entryID uint) (models.FoodEntry, bool, error) {
	var entry models.FoodEntry
	err := repo.database.WithContext(ctx).First(&entry, entryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FoodEntry{}, false, nil
	}
	if err != nil {
		return models.FoodEntry{}, false, err
	}
	return entry, true, nil
}

// DeleteByID reports whether a row was removed. The owning user is never touched.
func (repo *FoodEntryRepository) DeleteByID(ctx context.Context, entryID uint) (bool, error) {
	result := repo.database.WithContext(ctx).Where("id = ?", entryID).Delete(&models.FoodEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
