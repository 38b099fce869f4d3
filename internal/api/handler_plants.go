package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bloompal-backend/internal/mw"
	"bloompal-backend/internal/plants"
)

type createPlantRequest struct {
	Name          string `json:"name" binding:"required,max=128"`
	Species       string `json:"species" binding:"max=128"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	Location      string `json:"location"`
	IsToxic       bool   `json:"is_toxic"`
	InBloom       bool   `json:"in_bloom"`
	ImageURL      string `json:"image_url" binding:"omitempty,url,max=512"`
	Description   string `json:"description" binding:"max=2048"`
	WateringEvery string `json:"watering_every"`
}

type editPlantRequest struct {
	Name          *string    `json:"name" binding:"omitempty,max=128"`
	Species       *string    `json:"species" binding:"omitempty,max=128"`
	Type          *string    `json:"type"`
	Category      *string    `json:"category"`
	Location      *string    `json:"location"`
	IsToxic       *bool      `json:"is_toxic"`
	InBloom       *bool      `json:"in_bloom"`
	ImageURL      *string    `json:"image_url" binding:"omitempty,max=512"`
	Description   *string    `json:"description" binding:"omitempty,max=2048"`
	WateringEvery *string    `json:"watering_every"`
	LastPrunedAt  *time.Time `json:"last_pruned_at"`
}

// ListPlants handles GET /api/plants.
func (h *Handler) ListPlants(c *gin.Context) {
	views, err := h.plants.ListPlants(c.Request.Context(), mw.OwnerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlantResponses(views))
}

// CreatePlant handles POST /api/plants.
func (h *Handler) CreatePlant(c *gin.Context) {
	var req createPlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.plants.AddPlant(c.Request.Context(), mw.OwnerID(c), plants.PlantInput{
		Name:          req.Name,
		Species:       req.Species,
		Type:          req.Type,
		Category:      req.Category,
		Location:      req.Location,
		IsToxic:       req.IsToxic,
		InBloom:       req.InBloom,
		ImageURL:      req.ImageURL,
		Description:   req.Description,
		WateringEvery: req.WateringEvery,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPlantResponse(view))
}

// SeedDemo handles POST /api/plants/demo.
func (h *Handler) SeedDemo(c *gin.Context) {
	views, err := h.plants.SeedDemo(c.Request.Context(), mw.OwnerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPlantResponses(views))
}

// GetPlant handles GET /api/plants/:plant_id.
func (h *Handler) GetPlant(c *gin.Context) {
	detail, err := h.plants.GetPlant(c.Request.Context(), mw.OwnerID(c), c.Param("plant_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plantDetailResponse{
		plantResponse:   newPlantResponse(detail.PlantView),
		RecentWaterings: newEventResponses(detail.RecentEvents),
	})
}

// EditPlant handles PATCH /api/plants/:plant_id.
func (h *Handler) EditPlant(c *gin.Context) {
	var req editPlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.plants.EditPlant(c.Request.Context(), mw.OwnerID(c), c.Param("plant_id"), plants.PlantPatch{
		Name:          req.Name,
		Species:       req.Species,
		Type:          req.Type,
		Category:      req.Category,
		Location:      req.Location,
		IsToxic:       req.IsToxic,
		InBloom:       req.InBloom,
		ImageURL:      req.ImageURL,
		Description:   req.Description,
		WateringEvery: req.WateringEvery,
		LastPrunedAt:  req.LastPrunedAt,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlantResponse(view))
}

// DeletePlant handles DELETE /api/plants/:plant_id.
func (h *Handler) DeletePlant(c *gin.Context) {
	if err := h.plants.DeletePlant(c.Request.Context(), mw.OwnerID(c), c.Param("plant_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
