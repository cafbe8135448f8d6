package models

import (
	"errors"
	"time"
)

// ErrEmailTaken reports an insert that would break the one-user-per-email rule.
var ErrEmailTaken = errors.New("user email already exists")

// User is identified externally by its exact email. Entries reference it by UserID.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex:idx_users_email;not null" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
