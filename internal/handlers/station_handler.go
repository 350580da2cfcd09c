package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/middleware"
	"github.com/smartrail/train-reservation-backend/internal/models"
	"github.com/smartrail/train-reservation-backend/internal/services"
)

// StationHandler handles station CRUD and master assignment
type StationHandler struct {
	stations *services.StationService
	logger   *logrus.Logger
}

// NewStationHandler creates a new station handler
func NewStationHandler(stations *services.StationService, logger *logrus.Logger) *StationHandler {
	return &StationHandler{stations: stations, logger: logger}
}

// Create handles POST /api/v1/stations (admin)
func (h *StationHandler) Create(c *gin.Context) {
	var req models.CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	station, err := h.stations.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, station)
}

// List handles GET /api/v1/stations with optional ?city= and ?state= filters.
// Admins may ask for deactivated stations with ?include_inactive=true.
func (h *StationHandler) List(c *gin.Context) {
	filter := &models.StationFilter{
		City:            c.Query("city"),
		State:           c.Query("state"),
		IncludeInactive: c.Query("include_inactive") == "true" && middleware.IsAdmin(c),
	}

	stations, err := h.stations.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

// Get handles GET /api/v1/stations/:code
func (h *StationHandler) Get(c *gin.Context) {
	station, err := h.stations.GetByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}

// AssignMaster handles POST /api/v1/stations/:code/assign-master (admin)
func (h *StationHandler) AssignMaster(c *gin.Context) {
	var req models.AssignStationMasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.stations.AssignMaster(c.Param("code"), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "station master assigned"})
}

// Deactivate handles DELETE /api/v1/stations/:code (admin)
func (h *StationHandler) Deactivate(c *gin.Context) {
	if err := h.stations.Deactivate(c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
