package model

import (
	"time"

	"bloompal-backend/internal/care"
)

// WateringEvent is one entry in a plant's append-only watering history.
type WateringEvent struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	PlantID   string    `gorm:"size:36;not null;index:idx_watering_events_plant_ts,priority:1"`
	Timestamp time.Time `gorm:"not null;index:idx_watering_events_plant_ts,priority:2"`
	Note      string    `gorm:"size:512;not null"`
}

// NewWateringEvent converts an engine event into a history row for plantID.
func NewWateringEvent(plantID string, e care.Event) WateringEvent {
	return WateringEvent{
		PlantID:   plantID,
		Timestamp: e.Timestamp.UTC(),
		Note:      e.Note,
	}
}

// CareEvent converts the row back into an engine event.
func (e WateringEvent) CareEvent() care.Event {
	return care.Event{Timestamp: e.Timestamp.UTC(), Note: e.Note}
}
