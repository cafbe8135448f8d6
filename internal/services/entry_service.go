package services

import (
	"context"
	"errors"
	"fmt"
)

var ErrDeleteEntryFailed = errors.New("delete food entry failed")

type FoodEntryDeleter interface {
	DeleteByID(ctx context.Context, entryID uint) (bool, error)
}

type EntryService struct {
	entries FoodEntryDeleter
}

func NewEntryService(entries FoodEntryDeleter) *EntryService {
	return &EntryService{entries: entries}
}

// DeleteEntry removes one entry. The owning user stays.
func (service *EntryService) DeleteEntry(ctx context.Context, entryID uint) error {
	deleted, err := service.entries.DeleteByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteEntryFailed, err)
	}
	if !deleted {
		return ErrFoodEntryNotFound
	}
	return nil
}
