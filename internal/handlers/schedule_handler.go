package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/models"
	"github.com/smartrail/train-reservation-backend/internal/services"
)

// ScheduleHandler handles train schedule CRUD
type ScheduleHandler struct {
	schedules *services.ScheduleService
	logger    *logrus.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(schedules *services.ScheduleService, logger *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, logger: logger}
}

// Create handles POST /api/v1/schedules (admin)
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	schedule, err := h.schedules.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

// ListByTrain handles GET /api/v1/schedules/train/:number
func (h *ScheduleHandler) ListByTrain(c *gin.Context) {
	schedules, err := h.schedules.ListByTrain(c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// Deactivate handles DELETE /api/v1/schedules/:id (admin)
func (h *ScheduleHandler) Deactivate(c *gin.Context) {
	if err := h.schedules.Deactivate(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
