package plants

import (
	"errors"
	"time"

	"bloompal-backend/internal/care"
	"bloompal-backend/internal/model"
	"bloompal-backend/internal/store"
)

// ErrInvalidPlant is returned when plant details fail validation.
var ErrInvalidPlant = errors.New("invalid plant")

// PlantInput carries the fields of the add-plant form. Kind fields accept
// either keys ("flowering") or display names ("Flowering Plant"); WateringEvery
// is the raw "water every N days" text.
type PlantInput struct {
	Name          string
	Species       string
	Type          string
	Category      string
	Location      string
	IsToxic       bool
	InBloom       bool
	ImageURL      string
	Description   string
	WateringEvery string
}

// PlantPatch carries the edited fields of a plant. Nil fields are left alone.
type PlantPatch struct {
	Name          *string
	Species       *string
	Type          *string
	Category      *string
	Location      *string
	IsToxic       *bool
	InBloom       *bool
	ImageURL      *string
	Description   *string
	WateringEvery *string
	LastPrunedAt  *time.Time
}

// PlantView is a plant with its care status at the time it was read.
type PlantView struct {
	Plant  model.Plant
	Status care.Status
}

// PlantDetail adds the most recent waterings to a PlantView.
type PlantDetail struct {
	PlantView
	RecentEvents []model.WateringEvent
}

// FeedDay groups the waterings of one UTC calendar day.
type FeedDay struct {
	Date    string
	Entries []store.HistoryEntry
}

// Dashboard summarizes an owner's collection.
type Dashboard struct {
	Total        int
	NeedingWater int
	InBloom      int
	NeedingCare  []PlantView
}

// Achievement is a milestone unlocked by the owner's collection.
type Achievement struct {
	Key         string
	Title       string
	Description string
	Unlocked    bool
}
