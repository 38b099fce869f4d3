package api

import (
	"time"

	"bloompal-backend/internal/care"
	"bloompal-backend/internal/model"
	"bloompal-backend/internal/plants"
	"bloompal-backend/internal/store"
)

type statusResponse struct {
	State         care.State `json:"state"`
	DaysUntilDue  int        `json:"days_until_due"`
	NeedsWatering bool       `json:"needs_watering"`
	DaysOverdue   int        `json:"days_overdue"`
}

type plantResponse struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name"`
	Species              string              `json:"species"`
	Type                 model.PlantType     `json:"type"`
	TypeName             string              `json:"type_name"`
	Category             model.PlantCategory `json:"category"`
	CategoryName         string              `json:"category_name"`
	Location             model.PlantLocation `json:"location"`
	LocationName         string              `json:"location_name"`
	IsToxic              bool                `json:"is_toxic"`
	InBloom              bool                `json:"in_bloom"`
	ImageURL             string              `json:"image_url"`
	Description          string              `json:"description"`
	WateringIntervalDays int                 `json:"watering_interval_days"`
	LastWateredAt        *time.Time          `json:"last_watered_at"`
	NextDueAt            time.Time           `json:"next_due_at"`
	LastPrunedAt         *time.Time          `json:"last_pruned_at"`
	Version              int64               `json:"version"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
	Status               statusResponse      `json:"status"`
}

type eventResponse struct {
	ID        int64     `json:"id,omitempty"`
	PlantID   string    `json:"plant_id"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

type plantDetailResponse struct {
	plantResponse
	RecentWaterings []eventResponse `json:"recent_waterings"`
}

type feedEntryResponse struct {
	eventResponse
	PlantName     string `json:"plant_name"`
	PlantImageURL string `json:"plant_image_url"`
}

type feedDayResponse struct {
	Date      string              `json:"date"`
	Waterings []feedEntryResponse `json:"waterings"`
}

type dashboardResponse struct {
	TotalPlants  int             `json:"total_plants"`
	NeedingWater int             `json:"needing_water"`
	InBloom      int             `json:"in_bloom"`
	NeedingCare  []plantResponse `json:"needing_care"`
}

type reminderResponse struct {
	PlantID     string    `json:"plant_id"`
	PlantName   string    `json:"plant_name"`
	DueAt       time.Time `json:"due_at"`
	DaysOverdue int       `json:"days_overdue"`
	OpenedAt    time.Time `json:"opened_at"`
}

type achievementResponse struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

func newStatusResponse(s care.Status) statusResponse {
	return statusResponse{
		State:         s.State(),
		DaysUntilDue:  s.DaysUntilDue,
		NeedsWatering: s.NeedsWatering,
		DaysOverdue:   s.DaysOverdue,
	}
}

func newPlantResponse(v plants.PlantView) plantResponse {
	p := v.Plant
	return plantResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Species:              p.Species,
		Type:                 p.Type,
		TypeName:             p.Type.DisplayName(),
		Category:             p.Category,
		CategoryName:         p.Category.DisplayName(),
		Location:             p.Location,
		LocationName:         p.Location.DisplayName(),
		IsToxic:              p.IsToxic,
		InBloom:              p.InBloom,
		ImageURL:             p.ImageURL,
		Description:          p.Description,
		WateringIntervalDays: p.WateringIntervalDays,
		LastWateredAt:        p.LastWateredAt,
		NextDueAt:            p.NextDueAt.UTC(),
		LastPrunedAt:         p.LastPrunedAt,
		Version:              p.Version,
		CreatedAt:            p.CreatedAt.UTC(),
		UpdatedAt:            p.UpdatedAt.UTC(),
		Status:               newStatusResponse(v.Status),
	}
}

func newPlantResponses(views []plants.PlantView) []plantResponse {
	out := make([]plantResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newPlantResponse(v))
	}
	return out
}

func newEventResponse(e model.WateringEvent) eventResponse {
	return eventResponse{ID: e.ID, PlantID: e.PlantID, Timestamp: e.Timestamp.UTC(), Note: e.Note}
}

func newEventResponses(events []model.WateringEvent) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, newEventResponse(e))
	}
	return out
}

func newFeedEntryResponse(e store.HistoryEntry) feedEntryResponse {
	return feedEntryResponse{
		eventResponse: eventResponse{ID: e.ID, PlantID: e.PlantID, Timestamp: e.Timestamp.UTC(), Note: e.Note},
		PlantName:     e.PlantName,
		PlantImageURL: e.PlantImageURL,
	}
}
