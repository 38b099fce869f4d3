// Package care decides when a plant needs water.
//
// Every operation takes the reference instant explicitly; nothing in this
// package reads the wall clock or touches storage. Callers load a Profile,
// ask the Engine for a decision and persist whatever it returns.
package care

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Day is one scheduling day. Profiles are normalized to UTC, so it is always 24h.
const Day = 24 * time.Hour

// MaxIntervalDays is the longest watering interval accepted, ten years.
const MaxIntervalDays = 3650

// DefaultNote is attached to watering events recorded without a note.
const DefaultNote = "Watered"

var (
	// ErrInvalidConfiguration is returned when a watering interval outside
	// 1..MaxIntervalDays days is supplied.
	ErrInvalidConfiguration = errors.New("invalid watering configuration")

	// ErrClockSkew is returned when a watering is recorded before the previous one.
	ErrClockSkew = errors.New("watering time precedes last watering")
)

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultNote overrides the note used when RecordWatering gets a blank one.
func WithDefaultNote(note string) Option {
	return func(e *Engine) {
		if n := strings.TrimSpace(note); n != "" {
			e.defaultNote = n
		}
	}
}

// Engine computes watering schedules. It holds no per-plant state and is safe
// for concurrent use.
type Engine struct {
	defaultNote string
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{defaultNote: DefaultNote}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewProfile builds the profile of a freshly added plant. It has no watering
// history and is due at createdAt.
func (e *Engine) NewProfile(plantID string, intervalDays int, createdAt time.Time) (Profile, error) {
	if !validInterval(intervalDays) {
		return Profile{}, invalidInterval(plantID, intervalDays)
	}
	return Profile{
		PlantID:      plantID,
		IntervalDays: intervalDays,
		NextDueAt:    createdAt.UTC(),
	}, nil
}

// ComputeStatus reports the care status of p at asOf.
func (e *Engine) ComputeStatus(p Profile, asOf time.Time) Status {
	days := floorDays(p.NextDueAt.Sub(asOf))
	overdue := 0
	if days < 0 {
		overdue = -days
	}
	return Status{
		DaysUntilDue:  days,
		NeedsWatering: days <= 0,
		DaysOverdue:   overdue,
	}
}

// RecordWatering waters the plant at asOf. The updated profile and the new
// history event are returned separately; appending the event is up to the caller.
// On error the input profile is returned unchanged.
func (e *Engine) RecordWatering(p Profile, asOf time.Time, note string) (Profile, Event, error) {
	if !validInterval(p.IntervalDays) {
		return p, Event{}, invalidInterval(p.PlantID, p.IntervalDays)
	}
	at := asOf.UTC()
	if p.LastWateredAt != nil && at.Before(*p.LastWateredAt) {
		return p, Event{}, fmt.Errorf("%w: plant %q watered at %s, last watering %s",
			ErrClockSkew, p.PlantID, at.Format(time.RFC3339), p.LastWateredAt.Format(time.RFC3339))
	}

	note = strings.TrimSpace(note)
	if note == "" {
		note = e.noteOrDefault()
	}

	updated := p
	updated.LastWateredAt = &at
	updated.NextDueAt = at.AddDate(0, 0, p.IntervalDays)
	return updated, Event{Timestamp: at, Note: note}, nil
}

// UpdateInterval changes the watering interval and reschedules from the last
// watering, or from asOf if the plant was never watered.
func (e *Engine) UpdateInterval(p Profile, newIntervalDays int, asOf time.Time) (Profile, error) {
	if !validInterval(newIntervalDays) {
		return p, invalidInterval(p.PlantID, newIntervalDays)
	}
	base := asOf.UTC()
	if p.LastWateredAt != nil {
		base = p.LastWateredAt.UTC()
	}

	updated := p
	updated.IntervalDays = newIntervalDays
	updated.NextDueAt = base.AddDate(0, 0, newIntervalDays)
	return updated, nil
}

// AggregateCareCounts summarizes profiles for a dashboard.
func (e *Engine) AggregateCareCounts(profiles []Profile, asOf time.Time) Counts {
	c := Counts{Total: len(profiles)}
	for _, p := range profiles {
		if e.ComputeStatus(p, asOf).NeedsWatering {
			c.NeedingWater++
		}
	}
	return c
}

// ExpectedNextDue returns LastWateredAt + IntervalDays. ok is false when the
// plant was never watered and the due date cannot be derived from the profile.
func ExpectedNextDue(p Profile) (next time.Time, ok bool) {
	if p.LastWateredAt == nil || !validInterval(p.IntervalDays) {
		return time.Time{}, false
	}
	return p.LastWateredAt.UTC().AddDate(0, 0, p.IntervalDays), true
}

// CompareUrgency orders profiles most overdue first, for slices.SortFunc.
func CompareUrgency(a, b Profile) int {
	if c := a.NextDueAt.Compare(b.NextDueAt); c != 0 {
		return c
	}
	return cmp.Compare(a.PlantID, b.PlantID)
}

func (e *Engine) noteOrDefault() string {
	if e == nil || e.defaultNote == "" {
		return DefaultNote
	}
	return e.defaultNote
}

func validInterval(days int) bool {
	return days >= 1 && days <= MaxIntervalDays
}

func invalidInterval(plantID string, days int) error {
	return fmt.Errorf("%w: plant %q interval must be between 1 and %d days, got %d",
		ErrInvalidConfiguration, plantID, MaxIntervalDays, days)
}

// floorDays truncates d to whole days toward negative infinity.
func floorDays(d time.Duration) int {
	days := d / Day
	if d%Day != 0 && d < 0 {
		days--
	}
	return int(days)
}
