// Package plants orchestrates the care engine and the store for every user action.
package plants

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"bloompal-backend/config"
	"bloompal-backend/internal/care"
	"bloompal-backend/internal/metrics"
	"bloompal-backend/internal/model"
	"bloompal-backend/internal/parse"
	"bloompal-backend/internal/store"
)

// Service implements the plant use cases.
type Service struct {
	store  store.Store
	engine *care.Engine
	clock  clockwork.Clock
	log    *logrus.Logger
	cfg    config.CareConfig
}

// NewService creates a new plant service.
func NewService(s store.Store, engine *care.Engine, clock clockwork.Clock, log *logrus.Logger, cfg config.CareConfig) *Service {
	return &Service{
		store:  s,
		engine: engine,
		clock:  clock,
		log:    log,
		cfg:    cfg,
	}
}

// AddPlant creates a plant. New plants have no history and are due immediately.
func (s *Service) AddPlant(ctx context.Context, ownerID string, in PlantInput) (PlantView, error) {
	plant := model.Plant{OwnerID: ownerID}
	if err := s.applyInput(&plant, in); err != nil {
		return PlantView{}, err
	}

	interval, err := parse.IntervalDays(in.WateringEvery, s.cfg.DefaultIntervalDays)
	if err != nil {
		return PlantView{}, fmt.Errorf("%w: %v", ErrInvalidPlant, err)
	}

	now := s.clock.Now().UTC()
	profile, err := s.engine.NewProfile("", interval, now)
	if err != nil {
		return PlantView{}, err
	}
	plant.ApplyCareProfile(profile)
	plant.CreatedAt = now
	plant.UpdatedAt = now

	if err := s.store.CreatePlant(ctx, &plant); err != nil {
		return PlantView{}, err
	}

	s.log.WithFields(logrus.Fields{
		"owner_id":      ownerID,
		"plant_id":      plant.ID,
		"interval_days": interval,
	}).Info("Plant added")
	return s.view(plant, now), nil
}

// GetPlant returns a plant with its status and latest waterings.
func (s *Service) GetPlant(ctx context.Context, ownerID, plantID string) (PlantDetail, error) {
	plant, err := s.store.Load(ctx, ownerID, plantID)
	if err != nil {
		return PlantDetail{}, err
	}
	events, err := s.store.ListRecentHistory(ctx, plantID, s.cfg.HistoryPreviewLimit)
	if err != nil {
		return PlantDetail{}, err
	}
	return PlantDetail{
		PlantView:    s.view(*plant, s.clock.Now()),
		RecentEvents: events,
	}, nil
}

// ListPlants returns every plant of the owner with its status.
func (s *Service) ListPlants(ctx context.Context, ownerID string) ([]PlantView, error) {
	plants, err := s.store.ListPlants(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	views := make([]PlantView, 0, len(plants))
	for _, p := range plants {
		views = append(views, s.view(p, now))
	}
	return views, nil
}

// EditPlant updates plant details. A changed interval reschedules the plant
// through the care engine. Edits racing with a watering fail with
// store.ErrConflict and leave the plant untouched.
func (s *Service) EditPlant(ctx context.Context, ownerID, plantID string, patch PlantPatch) (PlantView, error) {
	plant, err := s.store.Load(ctx, ownerID, plantID)
	if err != nil {
		return PlantView{}, err
	}
	if err := s.applyPatch(plant, patch); err != nil {
		return PlantView{}, err
	}

	// Validate the new schedule before anything is written.
	now := s.clock.Now()
	var rescheduled *care.Profile
	if patch.WateringEvery != nil {
		interval, err := parse.IntervalDays(*patch.WateringEvery, plant.WateringIntervalDays)
		if err != nil {
			return PlantView{}, fmt.Errorf("%w: %v", ErrInvalidPlant, err)
		}
		if interval != plant.WateringIntervalDays {
			profile, err := s.engine.UpdateInterval(plant.CareProfile(), interval, now)
			if err != nil {
				return PlantView{}, err
			}
			rescheduled = &profile
		}
	}

	// Details and schedule are written together or not at all.
	version, err := s.store.UpdatePlant(ctx, plant, rescheduled, plant.Version)
	if err != nil {
		return PlantView{}, err
	}
	if rescheduled != nil {
		plant.ApplyCareProfile(*rescheduled)
	}
	plant.Version = version

	view := s.view(*plant, now)
	if !view.Status.NeedsWatering {
		if err := s.store.ClearReminder(ctx, plant.ID); err != nil {
			return PlantView{}, err
		}
	}
	return view, nil
}

// WaterPlant records a watering now. Concurrent waterings of the same plant
// fail with store.ErrConflict for all but one caller.
func (s *Service) WaterPlant(ctx context.Context, ownerID, plantID, note string) (PlantView, care.Event, error) {
	plant, err := s.store.Load(ctx, ownerID, plantID)
	if err != nil {
		return PlantView{}, care.Event{}, err
	}

	now := s.clock.Now()
	profile, event, err := s.engine.RecordWatering(plant.CareProfile(), now, note)
	if err != nil {
		return PlantView{}, care.Event{}, err
	}

	version, err := s.store.SaveWatering(ctx, plant.ID, profile, event, plant.Version)
	if err != nil {
		return PlantView{}, care.Event{}, err
	}
	plant.ApplyCareProfile(profile)
	plant.Version = version
	metrics.WateringsTotal.Inc()

	s.log.WithFields(logrus.Fields{
		"owner_id":    ownerID,
		"plant_id":    plant.ID,
		"next_due_at": plant.NextDueAt,
	}).Info("Plant watered")
	return s.view(*plant, now), event, nil
}

// SetInterval changes the watering interval of a plant.
func (s *Service) SetInterval(ctx context.Context, ownerID, plantID string, intervalDays int) (PlantView, error) {
	plant, err := s.store.Load(ctx, ownerID, plantID)
	if err != nil {
		return PlantView{}, err
	}
	now := s.clock.Now()
	if err := s.reschedule(ctx, plant, intervalDays, now); err != nil {
		return PlantView{}, err
	}

	view := s.view(*plant, now)
	if !view.Status.NeedsWatering {
		if err := s.store.ClearReminder(ctx, plant.ID); err != nil {
			return PlantView{}, err
		}
	}
	return view, nil
}

// DeletePlant removes a plant and its history.
func (s *Service) DeletePlant(ctx context.Context, ownerID, plantID string) error {
	if err := s.store.DeletePlant(ctx, ownerID, plantID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"owner_id": ownerID, "plant_id": plantID}).Info("Plant deleted")
	return nil
}

// History returns every watering of a plant, oldest first.
func (s *Service) History(ctx context.Context, ownerID, plantID string) ([]model.WateringEvent, error) {
	if _, err := s.store.Load(ctx, ownerID, plantID); err != nil {
		return nil, err
	}
	return s.store.ListHistory(ctx, plantID)
}

// Feed returns the waterings of all plants of the owner, newest first,
// grouped by UTC day.
func (s *Service) Feed(ctx context.Context, ownerID string, limit int) ([]FeedDay, error) {
	entries, err := s.store.ListOwnerHistory(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}

	days := []FeedDay{}
	for _, e := range entries {
		date := e.Timestamp.UTC().Format("2006-01-02")
		if n := len(days); n > 0 && days[n-1].Date == date {
			days[n-1].Entries = append(days[n-1].Entries, e)
			continue
		}
		days = append(days, FeedDay{Date: date, Entries: []store.HistoryEntry{e}})
	}
	return days, nil
}

// Dashboard summarizes the owner's collection. Plants needing care are listed
// most overdue first.
func (s *Service) Dashboard(ctx context.Context, ownerID string) (Dashboard, error) {
	plants, err := s.store.ListPlants(ctx, ownerID)
	if err != nil {
		return Dashboard{}, err
	}

	now := s.clock.Now()
	profiles := make([]care.Profile, 0, len(plants))
	byID := make(map[string]model.Plant, len(plants))
	inBloom := 0
	for _, p := range plants {
		profiles = append(profiles, p.CareProfile())
		byID[p.ID] = p
		if p.InBloom {
			inBloom++
		}
	}
	counts := s.engine.AggregateCareCounts(profiles, now)

	slices.SortFunc(profiles, care.CompareUrgency)
	needing := []PlantView{}
	for _, cp := range profiles {
		status := s.engine.ComputeStatus(cp, now)
		if !status.NeedsWatering {
			// Sorted by due date, so nothing after this is due either.
			break
		}
		needing = append(needing, PlantView{Plant: byID[cp.PlantID], Status: status})
	}

	return Dashboard{
		Total:        counts.Total,
		NeedingWater: counts.NeedingWater,
		InBloom:      inBloom,
		NeedingCare:  needing,
	}, nil
}

// Reminders returns the owner's open watering reminders, most overdue first.
func (s *Service) Reminders(ctx context.Context, ownerID string) ([]model.CareReminder, error) {
	return s.store.ListReminders(ctx, ownerID)
}

func (s *Service) reschedule(ctx context.Context, plant *model.Plant, intervalDays int, now time.Time) error {
	profile, err := s.engine.UpdateInterval(plant.CareProfile(), intervalDays, now)
	if err != nil {
		return err
	}
	version, err := s.store.SaveProfile(ctx, plant.ID, profile, plant.Version)
	if err != nil {
		return err
	}
	plant.ApplyCareProfile(profile)
	plant.Version = version
	return nil
}

func (s *Service) view(p model.Plant, now time.Time) PlantView {
	return PlantView{Plant: p, Status: s.engine.ComputeStatus(p.CareProfile(), now)}
}

func (s *Service) applyInput(plant *model.Plant, in PlantInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPlant)
	}
	plantType, err := parse.PlantType(in.Type)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlant, err)
	}
	category, err := parse.PlantCategory(in.Category)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlant, err)
	}
	location, err := parse.PlantLocation(in.Location)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlant, err)
	}

	plant.Name = name
	plant.Species = strings.TrimSpace(in.Species)
	plant.Type = plantType
	plant.Category = category
	plant.Location = location
	plant.IsToxic = in.IsToxic
	plant.InBloom = in.InBloom
	plant.ImageURL = strings.TrimSpace(in.ImageURL)
	plant.Description = strings.TrimSpace(in.Description)
	return nil
}

func (s *Service) applyPatch(plant *model.Plant, patch PlantPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidPlant)
		}
		plant.Name = name
	}
	if patch.Species != nil {
		plant.Species = strings.TrimSpace(*patch.Species)
	}
	if patch.Type != nil {
		v, err := parse.PlantType(*patch.Type)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPlant, err)
		}
		plant.Type = v
	}
	if patch.Category != nil {
		v, err := parse.PlantCategory(*patch.Category)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPlant, err)
		}
		plant.Category = v
	}
	if patch.Location != nil {
		v, err := parse.PlantLocation(*patch.Location)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPlant, err)
		}
		plant.Location = v
	}
	if patch.IsToxic != nil {
		plant.IsToxic = *patch.IsToxic
	}
	if patch.InBloom != nil {
		plant.InBloom = *patch.InBloom
	}
	if patch.ImageURL != nil {
		plant.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	if patch.Description != nil {
		plant.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.LastPrunedAt != nil {
		t := patch.LastPrunedAt.UTC()
		plant.LastPrunedAt = &t
	}
	return nil
}
