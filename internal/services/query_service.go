package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/platelog/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrFoodEntryNotFound = errors.New("food entry not found")
	ErrLoadRecordsFailed = errors.New("load records failed")
)

type UserReader interface {
	FindByEmail(ctx context.Context, email string) (models.User, bool, error)
	List(ctx context.Context) ([]models.User, error)
}

type FoodEntryReader interface {
	List(ctx context.Context) ([]models.FoodEntry, error)
	ListByUser(ctx context.Context, userID uint, day *time.Time) ([]models.FoodEntry, error)
	FindByID(ctx context.Context, entryID uint) (models.FoodEntry, bool, error)
}

type QueryService struct {
	users   UserReader
	entries FoodEntryReader
}

func NewQueryService(users UserReader, entries FoodEntryReader) *QueryService {
	return &QueryService{users: users, entries: entries}
}

func (service *QueryService) ListEntries(ctx context.Context) ([]models.FoodEntry, error) {
	entries, err := service.entries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadRecordsFailed, err)
	}
	return entries, nil
}

func (service *QueryService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := service.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadRecordsFailed, err)
	}
	return users, nil
}

// ListUserEntries returns ErrUserNotFound for an unknown email. A known user with no
// entries gets an empty slice.
func (service *QueryService) ListUserEntries(ctx context.Context, email string, day *time.Time) ([]models.FoodEntry, error) {
	normalizedEmail, err := NormalizeEntryEmail(email)
	if err != nil {
		return nil, err
	}

	user, found, err := service.users.FindByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadRecordsFailed, err)
	}
	if !found {
		return nil, ErrUserNotFound
	}

	var filterDay *time.Time
	if day != nil {
		stored := storedDay(day, time.Time{}, time.UTC)
		filterDay = &stored
	}
	entries, err := service.entries.ListByUser(ctx, user.ID, filterDay)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadRecordsFailed, err)
	}
	return entries, nil
}

func (service *QueryService) FindEntry(ctx context.Context, entryID uint) (models.FoodEntry, error) {
	entry, found, err := service.entries.FindByID(ctx, entryID)
	if err != nil {
		return models.FoodEntry{}, fmt.Errorf("%w: %v", ErrLoadRecordsFailed, err)
	}
	if !found {
		return models.FoodEntry{}, ErrFoodEntryNotFound
	}
	return entry, nil
}
