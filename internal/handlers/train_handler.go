package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/middleware"
	"github.com/smartrail/train-reservation-backend/internal/models"
	"github.com/smartrail/train-reservation-backend/internal/services"
)

// TrainHandler handles train CRUD
type TrainHandler struct {
	trains *services.TrainService
	logger *logrus.Logger
}

// NewTrainHandler creates a new train handler
func NewTrainHandler(trains *services.TrainService, logger *logrus.Logger) *TrainHandler {
	return &TrainHandler{trains: trains, logger: logger}
}

// Create handles POST /api/v1/trains (admin)
func (h *TrainHandler) Create(c *gin.Context) {
	var req models.CreateTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	train, classes, err := h.trains.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"train": train, "classes": classes})
}

// List handles GET /api/v1/trains
func (h *TrainHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true" && middleware.IsAdmin(c)

	trains, err := h.trains.List(includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trains)
}

// Get handles GET /api/v1/trains/:number
func (h *TrainHandler) Get(c *gin.Context) {
	train, classes, err := h.trains.GetByNumber(c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"train": train, "classes": classes})
}

// Deactivate handles DELETE /api/v1/trains/:number (admin)
func (h *TrainHandler) Deactivate(c *gin.Context) {
	if err := h.trains.Deactivate(c.Param("number")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
