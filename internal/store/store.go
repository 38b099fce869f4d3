package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bloompal-backend/internal/care"
	"bloompal-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	CreatePlant(ctx context.Context, plant *model.Plant) error
	Load(ctx context.Context, ownerID, plantID string) (*model.Plant, error)
	ListPlants(ctx context.Context, ownerID string) ([]model.Plant, error)
	// UpdatePlant writes the descriptive fields of plant and, when profile is
	// not nil, its new schedule. Both land in one compare-and-set update guarded
	// by expectedVersion. It returns the new version.
	UpdatePlant(ctx context.Context, plant *model.Plant, profile *care.Profile, expectedVersion int64) (int64, error)
	DeletePlant(ctx context.Context, ownerID, plantID string) error

	// SaveProfile stores a schedule computed by the care engine. It fails with
	// ErrConflict unless the stored version equals expectedVersion, and returns
	// the new version.
	SaveProfile(ctx context.Context, plantID string, profile care.Profile, expectedVersion int64) (int64, error)
	AppendEvent(ctx context.Context, plantID string, event care.Event) error
	// SaveWatering combines SaveProfile and AppendEvent in one transaction and
	// closes the plant's open reminder.
	SaveWatering(ctx context.Context, plantID string, profile care.Profile, event care.Event, expectedVersion int64) (int64, error)
	ListHistory(ctx context.Context, plantID string) ([]model.WateringEvent, error)
	ListRecentHistory(ctx context.Context, plantID string, limit int) ([]model.WateringEvent, error)
	ListOwnerHistory(ctx context.Context, ownerID string, limit int) ([]HistoryEntry, error)
	CountOwnerWaterings(ctx context.Context, ownerID string) (int64, error)

	ListDuePlants(ctx context.Context, before time.Time) ([]model.Plant, error)
	// RepairSchedules persists NextDueAt = LastWateredAt + interval on every
	// drifted row and returns how many rows were fixed.
	RepairSchedules(ctx context.Context) (int, error)
	ListReminderOwners(ctx context.Context) ([]string, error)
	SyncReminders(ctx context.Context, ownerID string, now time.Time, due []model.CareReminder) ([]string, error)
	ClearReminder(ctx context.Context, plantID string) error
	ListReminders(ctx context.Context, ownerID string) ([]model.CareReminder, error)

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, log *logrus.Logger) Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &gormStore{db: db, log: log}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// CreatePlant inserts a new plant, assigning its ID.
func (s *gormStore) CreatePlant(ctx context.Context, plant *model.Plant) error {
	if plant.ID == "" {
		plant.ID = uuid.NewString()
	}
	plant.Version = 1
	if err := s.db.WithContext(ctx).Create(plant).Error; err != nil {
		return errors.Wrapf(err, "create plant %s", plant.ID)
	}
	return nil
}

// Load fetches one plant of ownerID.
func (s *gormStore) Load(ctx context.Context, ownerID, plantID string) (*model.Plant, error) {
	var plant model.Plant
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", plantID, ownerID).
		First(&plant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load plant %s", plantID)
	}
	s.repairSchedule(ctx, &plant)
	return &plant, nil
}

// ListPlants returns every plant of ownerID, oldest first.
func (s *gormStore) ListPlants(ctx context.Context, ownerID string) ([]model.Plant, error) {
	var plants []model.Plant
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&plants).Error; err != nil {
		return nil, errors.Wrapf(err, "list plants of %s", ownerID)
	}
	for i := range plants {
		s.repairSchedule(ctx, &plants[i])
	}
	return plants, nil
}

// UpdatePlant implements Store.
func (s *gormStore) UpdatePlant(ctx context.Context, plant *model.Plant, profile *care.Profile, expectedVersion int64) (int64, error) {
	fields := map[string]any{
		"name":           plant.Name,
		"species":        plant.Species,
		"type":           plant.Type,
		"category":       plant.Category,
		"location":       plant.Location,
		"is_toxic":       plant.IsToxic,
		"in_bloom":       plant.InBloom,
		"image_url":      plant.ImageURL,
		"description":    plant.Description,
		"last_pruned_at": plant.LastPrunedAt,
	}
	if profile != nil {
		for k, v := range profileFields(*profile) {
			fields[k] = v
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return compareAndSet(tx.Where("owner_id = ?", plant.OwnerID), plant.ID, expectedVersion, fields)
	})
	if err != nil {
		return 0, err
	}
	return expectedVersion + 1, nil
}

// DeletePlant removes a plant together with its history and reminder.
func (s *gormStore) DeletePlant(ctx context.Context, ownerID, plantID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Plant{}).
			Where("id = ? AND owner_id = ?", plantID, ownerID).
			Count(&count).Error; err != nil {
			return errors.Wrapf(err, "look up plant %s", plantID)
		}
		if count == 0 {
			return ErrNotFound
		}

		if err := tx.Where("plant_id = ?", plantID).Delete(&model.WateringEvent{}).Error; err != nil {
			return errors.Wrapf(err, "delete history of plant %s", plantID)
		}
		if err := tx.Where("plant_id = ?", plantID).Delete(&model.CareReminder{}).Error; err != nil {
			return errors.Wrapf(err, "delete reminder of plant %s", plantID)
		}
		if err := tx.Where("id = ?", plantID).Delete(&model.Plant{}).Error; err != nil {
			return errors.Wrapf(err, "delete plant %s", plantID)
		}
		return nil
	})
}

// SaveProfile implements Store.
func (s *gormStore) SaveProfile(ctx context.Context, plantID string, profile care.Profile, expectedVersion int64) (int64, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveProfile(tx, plantID, profile, expectedVersion)
	})
	if err != nil {
		return 0, err
	}
	return expectedVersion + 1, nil
}

// AppendEvent adds one event to a plant's history.
func (s *gormStore) AppendEvent(ctx context.Context, plantID string, event care.Event) error {
	row := model.NewWateringEvent(plantID, event)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.Wrapf(err, "append watering event for plant %s", plantID)
	}
	return nil
}

// SaveWatering implements Store.
func (s *gormStore) SaveWatering(ctx context.Context, plantID string, profile care.Profile, event care.Event, expectedVersion int64) (int64, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveProfile(tx, plantID, profile, expectedVersion); err != nil {
			return err
		}

		row := model.NewWateringEvent(plantID, event)
		if err := tx.Create(&row).Error; err != nil {
			return errors.Wrapf(err, "append watering event for plant %s", plantID)
		}

		if err := tx.Where("plant_id = ?", plantID).Delete(&model.CareReminder{}).Error; err != nil {
			return errors.Wrapf(err, "close reminder of plant %s", plantID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expectedVersion + 1, nil
}

// saveProfile performs the compare-and-set update of a plant's schedule.
func saveProfile(tx *gorm.DB, plantID string, profile care.Profile, expectedVersion int64) error {
	return compareAndSet(tx, plantID, expectedVersion, profileFields(profile))
}

func profileFields(profile care.Profile) map[string]any {
	var last *time.Time
	if profile.LastWateredAt != nil {
		t := profile.LastWateredAt.UTC()
		last = &t
	}
	return map[string]any{
		"watering_interval_days": profile.IntervalDays,
		"last_watered_at":        last,
		"next_due_at":            profile.NextDueAt.UTC(),
	}
}

// compareAndSet writes fields and bumps the version of a plant, but only if
// its stored version is still expectedVersion. Extra conditions already on tx
// (such as an owner scope) also apply to the not-found check.
func compareAndSet(tx *gorm.DB, plantID string, expectedVersion int64, fields map[string]any) error {
	fields["version"] = gorm.Expr("version + ?", 1)
	fields["updated_at"] = time.Now().UTC()

	res := tx.Session(&gorm.Session{}).Model(&model.Plant{}).
		Where("id = ? AND version = ?", plantID, expectedVersion).
		Updates(fields)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "save plant %s", plantID)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the plant is gone or someone else saved first.
	var count int64
	if err := tx.Session(&gorm.Session{}).Model(&model.Plant{}).Where("id = ?", plantID).Count(&count).Error; err != nil {
		return errors.Wrapf(err, "look up plant %s", plantID)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

// repairSchedule restores NextDueAt = LastWateredAt + interval on a row that
// drifted from it and persists the fix with a compare-and-set update. It
// reports whether the plant had drifted.
func (s *gormStore) repairSchedule(ctx context.Context, plant *model.Plant) bool {
	expected, ok := care.ExpectedNextDue(plant.CareProfile())
	if !ok || expected.Equal(plant.NextDueAt) {
		return false
	}
	entry := s.log.WithFields(logrus.Fields{
		"plant_id": plant.ID,
		"stored":   plant.NextDueAt.UTC(),
		"expected": expected,
	})
	entry.Warn("next watering date drifted from last watering; repairing")

	plant.NextDueAt = expected
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return compareAndSet(tx, plant.ID, plant.Version, map[string]any{"next_due_at": expected})
	})
	if err != nil {
		// The caller still gets the repaired value; the next save persists it.
		entry.WithError(err).Warn("could not persist repaired watering date")
		return true
	}
	plant.Version++
	return true
}
