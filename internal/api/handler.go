package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bloompal-backend/internal/care"
	"bloompal-backend/internal/mw"
	"bloompal-backend/internal/plants"
	"bloompal-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	plants *plants.Service
	store  store.Store
	log    *logrus.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *plants.Service, s store.Store, log *logrus.Logger) *Handler {
	return &Handler{
		plants: svc,
		store:  s,
		log:    log,
	}
}

// writeError maps domain errors onto HTTP status codes. Unexpected errors are
// logged and hidden from the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, plants.ErrInvalidPlant):
		status = http.StatusBadRequest
	case errors.Is(err, care.ErrInvalidConfiguration):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, care.ErrClockSkew):
		status = http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(mw.RequestIDKey),
			"path":       c.FullPath(),
		}).Error("request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
