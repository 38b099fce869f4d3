package model

import (
	"time"

	"bloompal-backend/internal/care"
)

// Plant is a plant owned by a single user, including its watering schedule.
type Plant struct {
	ID          string        `gorm:"primaryKey;size:36"`
	OwnerID     string        `gorm:"index;size:128;not null"`
	Name        string        `gorm:"size:128;not null"`
	Species     string        `gorm:"size:128"`
	Type        PlantType     `gorm:"size:32;not null"`
	Category    PlantCategory `gorm:"size:32;not null"`
	Location    PlantLocation `gorm:"size:32;not null"`
	IsToxic     bool          `gorm:"not null"`
	InBloom     bool          `gorm:"not null"`
	ImageURL    string        `gorm:"size:512"`
	Description string        `gorm:"size:2048"`

	WateringIntervalDays int        `gorm:"not null"`
	LastWateredAt        *time.Time // nil until the first watering
	NextDueAt            time.Time  `gorm:"index;not null"`
	LastPrunedAt         *time.Time

	// Version is bumped on every care update and guards concurrent writers.
	Version   int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	WateringEvents []WateringEvent `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE"`
}

// CareProfile extracts the watering schedule of the plant.
func (p *Plant) CareProfile() care.Profile {
	var last *time.Time
	if p.LastWateredAt != nil {
		t := p.LastWateredAt.UTC()
		last = &t
	}
	return care.Profile{
		PlantID:       p.ID,
		IntervalDays:  p.WateringIntervalDays,
		LastWateredAt: last,
		NextDueAt:     p.NextDueAt.UTC(),
	}
}

// ApplyCareProfile copies a schedule computed by the care engine onto the plant.
func (p *Plant) ApplyCareProfile(cp care.Profile) {
	p.WateringIntervalDays = cp.IntervalDays
	p.LastWateredAt = nil
	if cp.LastWateredAt != nil {
		t := cp.LastWateredAt.UTC()
		p.LastWateredAt = &t
	}
	p.NextDueAt = cp.NextDueAt.UTC()
}
