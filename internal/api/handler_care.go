package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bloompal-backend/internal/mw"
)

const (
	defaultFeedLimit = 100
	maxFeedLimit     = 1000
)

type waterRequest struct {
	Note string `json:"note" binding:"max=512"`
}

type intervalRequest struct {
	// A pointer so that 0 reaches the care engine and is rejected there.
	IntervalDays *int `json:"interval_days" binding:"required"`
}

type waterResponse struct {
	Plant    plantResponse `json:"plant"`
	Watering eventResponse `json:"watering"`
}

// WaterPlant handles POST /api/plants/:plant_id/water. The body is optional.
func (h *Handler) WaterPlant(c *gin.Context) {
	var req waterRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	plantID := c.Param("plant_id")
	view, event, err := h.plants.WaterPlant(c.Request.Context(), mw.OwnerID(c), plantID, req.Note)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, waterResponse{
		Plant:    newPlantResponse(view),
		Watering: eventResponse{PlantID: plantID, Timestamp: event.Timestamp.UTC(), Note: event.Note},
	})
}

// SetInterval handles PUT /api/plants/:plant_id/interval.
func (h *Handler) SetInterval(c *gin.Context) {
	var req intervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.plants.SetInterval(c.Request.Context(), mw.OwnerID(c), c.Param("plant_id"), *req.IntervalDays)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlantResponse(view))
}

// PlantHistory handles GET /api/plants/:plant_id/history.
func (h *Handler) PlantHistory(c *gin.Context) {
	events, err := h.plants.History(c.Request.Context(), mw.OwnerID(c), c.Param("plant_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEventResponses(events))
}

// Feed handles GET /api/history.
func (h *Handler) Feed(c *gin.Context) {
	limit := defaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxFeedLimit)
	}

	days, err := h.plants.Feed(c.Request.Context(), mw.OwnerID(c), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]feedDayResponse, 0, len(days))
	for _, d := range days {
		entries := make([]feedEntryResponse, 0, len(d.Entries))
		for _, e := range d.Entries {
			entries = append(entries, newFeedEntryResponse(e))
		}
		out = append(out, feedDayResponse{Date: d.Date, Waterings: entries})
	}
	c.JSON(http.StatusOK, out)
}

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.plants.Dashboard(c.Request.Context(), mw.OwnerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboardResponse{
		TotalPlants:  d.Total,
		NeedingWater: d.NeedingWater,
		InBloom:      d.InBloom,
		NeedingCare:  newPlantResponses(d.NeedingCare),
	})
}

// Reminders handles GET /api/reminders.
func (h *Handler) Reminders(c *gin.Context) {
	reminders, err := h.plants.Reminders(c.Request.Context(), mw.OwnerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]reminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, reminderResponse{
			PlantID:     r.PlantID,
			PlantName:   r.PlantName,
			DueAt:       r.DueAt.UTC(),
			DaysOverdue: r.DaysOverdue,
			OpenedAt:    r.OpenedAt.UTC(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// Achievements handles GET /api/achievements.
func (h *Handler) Achievements(c *gin.Context) {
	list, err := h.plants.Achievements(c.Request.Context(), mw.OwnerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]achievementResponse, 0, len(list))
	for _, a := range list {
		out = append(out, achievementResponse{Key: a.Key, Title: a.Title, Description: a.Description, Unlocked: a.Unlocked})
	}
	c.JSON(http.StatusOK, out)
}
