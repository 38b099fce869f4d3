package store

import (
	"context"

	"github.com/pkg/errors"

	"bloompal-backend/internal/model"
)

// ListHistory returns the full watering history of a plant, oldest first.
func (s *gormStore) ListHistory(ctx context.Context, plantID string) ([]model.WateringEvent, error) {
	var events []model.WateringEvent
	if err := s.db.WithContext(ctx).
		Where("plant_id = ?", plantID).
		Order("timestamp ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, errors.Wrapf(err, "list history of plant %s", plantID)
	}
	return events, nil
}

// ListRecentHistory returns at most limit events of a plant, newest first.
func (s *gormStore) ListRecentHistory(ctx context.Context, plantID string, limit int) ([]model.WateringEvent, error) {
	var events []model.WateringEvent
	q := s.db.WithContext(ctx).
		Where("plant_id = ?", plantID).
		Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, errors.Wrapf(err, "list recent history of plant %s", plantID)
	}
	return events, nil
}

// ListOwnerHistory returns the watering feed of all plants of ownerID,
// newest first. A non-positive limit returns everything.
func (s *gormStore) ListOwnerHistory(ctx context.Context, ownerID string, limit int) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	q := s.db.WithContext(ctx).
		Table("watering_events").
		Select("watering_events.id, watering_events.plant_id, watering_events.timestamp, watering_events.note, " +
			"plants.name AS plant_name, plants.image_url AS plant_image_url").
		Joins("JOIN plants ON plants.id = watering_events.plant_id").
		Where("plants.owner_id = ?", ownerID).
		Order("watering_events.timestamp DESC, watering_events.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&entries).Error; err != nil {
		return nil, errors.Wrapf(err, "list history of owner %s", ownerID)
	}
	return entries, nil
}

// CountOwnerWaterings counts the watering events of all plants of ownerID.
func (s *gormStore) CountOwnerWaterings(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&model.WateringEvent{}).
		Joins("JOIN plants ON plants.id = watering_events.plant_id").
		Where("plants.owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "count waterings of owner %s", ownerID)
	}
	return count, nil
}
