package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/middleware"
	"github.com/smartrail/train-reservation-backend/internal/models"
	"github.com/smartrail/train-reservation-backend/internal/services"
)

// DelayHandler handles actual-time reporting and delay propagation
type DelayHandler struct {
	delays   *services.DelayService
	stations *services.StationService
	logger   *logrus.Logger
}

// NewDelayHandler creates a new delay handler
func NewDelayHandler(delays *services.DelayService, stations *services.StationService, logger *logrus.Logger) *DelayHandler {
	return &DelayHandler{delays: delays, stations: stations, logger: logger}
}

// UpdateActualTimes handles PATCH /api/v1/trains/:number/stations/:code/actual.
// Station masters may only report at their own station; admins anywhere.
// Responds with the reported stop and every downstream stop it shifted.
func (h *DelayHandler) UpdateActualTimes(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	stationCode := strings.ToUpper(c.Param("code"))
	if user.Role == models.RoleStationMaster {
		station, err := h.stations.StationForMaster(user.UserID)
		if err != nil || station.Code != stationCode {
			c.JSON(http.StatusForbidden, gin.H{"error": "station masters may only report at their own station"})
			return
		}
	}

	var req models.UpdateActualTimesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	stops, err := h.delays.UpdateActualArrival(c.Param("number"), stationCode, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stops)
}
