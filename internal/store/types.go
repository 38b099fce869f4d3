package store

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a plant does not exist or belongs to another owner.
	ErrNotFound = errors.New("plant not found")

	// ErrConflict is returned when a plant changed since it was loaded.
	ErrConflict = errors.New("plant was modified concurrently")
)

// HistoryEntry is a watering event joined with the plant it belongs to.
type HistoryEntry struct {
	ID            int64
	PlantID       string
	PlantName     string
	PlantImageURL string
	Timestamp     time.Time
	Note          string
}
