package care

import "time"

// Profile is the watering-relevant part of a plant record.
type Profile struct {
	PlantID      string
	IntervalDays int
	// LastWateredAt is nil until the first watering.
	LastWateredAt *time.Time
	// NextDueAt is LastWateredAt + IntervalDays, or the creation time for a
	// plant that was never watered.
	NextDueAt time.Time
}

// Event is one watering in a plant's history. Events are never modified.
type Event struct {
	Timestamp time.Time
	Note      string
}

// State is the logical care state of a plant.
type State string

const (
	StateSatisfied State = "satisfied"
	StateOverdue   State = "overdue"
)

// Status is the care status of a plant at a given instant.
type Status struct {
	// DaysUntilDue is floor((NextDueAt - asOf) / Day). Negative means overdue.
	DaysUntilDue  int
	NeedsWatering bool
	DaysOverdue   int
}

// State maps the status onto the two-state care cycle.
func (s Status) State() State {
	if s.NeedsWatering {
		return StateOverdue
	}
	return StateSatisfied
}

// Counts is a dashboard summary over many profiles.
type Counts struct {
	Total        int
	NeedingWater int
}
