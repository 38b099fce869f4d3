package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"bloompal-backend/internal/model"
)

// ListDuePlants returns the plants of every owner whose next watering falls
// before the given instant, most overdue first.
func (s *gormStore) ListDuePlants(ctx context.Context, before time.Time) ([]model.Plant, error) {
	var plants []model.Plant
	if err := s.db.WithContext(ctx).
		Where("next_due_at < ?", before.UTC()).
		Order("next_due_at ASC, id ASC").
		Find(&plants).Error; err != nil {
		return nil, errors.Wrap(err, "list due plants")
	}
	for i := range plants {
		s.repairSchedule(ctx, &plants[i])
	}
	return plants, nil
}

// RepairSchedules implements Store. Rows are scanned in batches because
// ListDuePlants filters on the stored next_due_at and never sees a row that
// drifted into the future.
func (s *gormStore) RepairSchedules(ctx context.Context) (int, error) {
	repaired := 0
	var batch []model.Plant
	res := s.db.WithContext(ctx).
		Where("last_watered_at IS NOT NULL").
		FindInBatches(&batch, repairBatchSize, func(_ *gorm.DB, _ int) error {
			for i := range batch {
				if s.repairSchedule(ctx, &batch[i]) {
					repaired++
				}
			}
			return nil
		})
	if res.Error != nil {
		return repaired, errors.Wrap(res.Error, "repair watering schedules")
	}
	return repaired, nil
}

const repairBatchSize = 200

// ListReminderOwners returns the owners that currently have open reminders.
func (s *gormStore) ListReminderOwners(ctx context.Context) ([]string, error) {
	var owners []string
	if err := s.db.WithContext(ctx).
		Model(&model.CareReminder{}).
		Distinct().
		Order("owner_id").
		Pluck("owner_id", &owners).Error; err != nil {
		return nil, errors.Wrap(err, "list reminder owners")
	}
	return owners, nil
}

// SyncReminders makes the open reminders of ownerID match due. Reminders for
// plants no longer in due are closed. It returns the IDs of plants whose
// reminder was opened by this call.
func (s *gormStore) SyncReminders(ctx context.Context, ownerID string, now time.Time, due []model.CareReminder) ([]string, error) {
	var opened []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []model.CareReminder
		if err := tx.Where("owner_id = ?", ownerID).Find(&existing).Error; err != nil {
			return errors.Wrap(err, "fetch open reminders")
		}
		openMap := make(map[string]model.CareReminder, len(existing))
		for _, r := range existing {
			openMap[r.PlantID] = r
		}

		for _, r := range due {
			r.OwnerID = ownerID
			r.ObservedAt = now.UTC()
			r.DueAt = r.DueAt.UTC()

			if prev, ok := openMap[r.PlantID]; ok {
				r.OpenedAt = prev.OpenedAt
				if err := tx.Save(&r).Error; err != nil {
					return errors.Wrapf(err, "refresh reminder for plant %s", r.PlantID)
				}
				delete(openMap, r.PlantID)
				continue
			}

			r.OpenedAt = now.UTC()
			if err := tx.Create(&r).Error; err != nil {
				return errors.Wrapf(err, "open reminder for plant %s", r.PlantID)
			}
			opened = append(opened, r.PlantID)
		}

		// Whatever is left was watered or deleted since the last sweep.
		for plantID := range openMap {
			if err := tx.Where("plant_id = ?", plantID).Delete(&model.CareReminder{}).Error; err != nil {
				return errors.Wrapf(err, "close reminder for plant %s", plantID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opened, nil
}

// ClearReminder closes the reminder of a plant, if any.
func (s *gormStore) ClearReminder(ctx context.Context, plantID string) error {
	if err := s.db.WithContext(ctx).
		Where("plant_id = ?", plantID).
		Delete(&model.CareReminder{}).Error; err != nil {
		return errors.Wrapf(err, "close reminder for plant %s", plantID)
	}
	return nil
}

// ListReminders returns the open reminders of ownerID, most overdue first.
func (s *gormStore) ListReminders(ctx context.Context, ownerID string) ([]model.CareReminder, error) {
	var reminders []model.CareReminder
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("due_at ASC, plant_id ASC").
		Find(&reminders).Error; err != nil {
		return nil, errors.Wrapf(err, "list reminders of %s", ownerID)
	}
	return reminders, nil
}
