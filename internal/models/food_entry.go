package models

import "time"

const (
	SourceManual = "manual"
	SourceImage  = "image"
)

// FoodEntry is one logged meal. CreationDate holds midnight UTC of the calendar day
// the entry belongs to; UserID is fixed at creation.
type FoodEntry struct {
	ID            uint      `gorm:"primaryKey"`
	FoodName      string    `gorm:"not null"`
	Description   *string   `gorm:"type:text"`
	Calories      float64   `gorm:"not null"`
	Protein       float64   `gorm:"not null"`
	Fat           float64   `gorm:"not null"`
	Carbohydrates float64   `gorm:"not null"`
	CreationDate  time.Time `gorm:"type:date;not null;index:idx_food_entries_user_date,priority:2"`
	UserID        uint      `gorm:"not null;index:idx_food_entries_user_date,priority:1"`
	Source        string    `gorm:"not null;default:manual"`
	PhotoKey      *string
	CreatedAt     time.Time `gorm:"not null"`
}

func (entry FoodEntry) Draft() FoodDraft {
	return FoodDraft{
		FoodName:      entry.FoodName,
		Description:   entry.Description,
		Calories:      entry.Calories,
		Protein:       entry.Protein,
		Fat:           entry.Fat,
		Carbohydrates: entry.Carbohydrates,
	}
}
