package model

import "time"

// CareReminder is an open "needs water" reminder for a plant (hot table).
// A row exists only while the plant is due; watering the plant removes it.
type CareReminder struct {
	PlantID     string    `gorm:"primaryKey;size:36"`
	OwnerID     string    `gorm:"index;size:128;not null"`
	PlantName   string    `gorm:"size:128;not null"`
	DueAt       time.Time `gorm:"not null"`
	DaysOverdue int       `gorm:"not null"`
	OpenedAt    time.Time `gorm:"not null"` // first sweep that saw the plant due
	ObservedAt  time.Time `gorm:"not null"` // latest sweep that saw the plant due
}
