package db

import (
	"context"
	"fmt"
	"time"

	"github.com/terraincognita07/platelog/internal/models"
	"gorm.io/gorm"
)

type Repositories struct {
	database    *gorm.DB
	Users       *UserRepository
	FoodEntries *FoodEntryRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		database:    database,
		Users:       NewUserRepository(database),
		FoodEntries: NewFoodEntryRepository(database),
	}
}

// Transaction runs fn against repositories bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (repos *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return repos.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// CreateEntryForEmail finds the user with this exact email, creating it when absent,
// and inserts the entry for it. Both writes commit together or not at all.
func (repos *Repositories) CreateEntryForEmail(ctx context.Context, email string, entry *models.FoodEntry) error {
	return repos.Transaction(ctx, func(tx *Repositories) error {
		user, found, err := tx.Users.FindByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if !found {
			user = models.User{Email: email, CreatedAt: time.Now().UTC()}
			if err := tx.Users.Create(ctx, &user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
		}

		entry.UserID = user.ID
		if err := tx.FoodEntries.Create(ctx, entry); err != nil {
			return fmt.Errorf("create food entry: %w", err)
		}
		return nil
	})
}

func (repos *Repositories) Ping(ctx context.Context) error {
	sqlDB, err := repos.database.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
