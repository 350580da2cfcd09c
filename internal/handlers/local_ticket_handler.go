package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/middleware"
	"github.com/smartrail/train-reservation-backend/internal/models"
	"github.com/smartrail/train-reservation-backend/internal/services"
)

// LocalTicketHandler handles flat-rate unreserved tickets
type LocalTicketHandler struct {
	tickets *services.LocalTicketService
	logger  *logrus.Logger
}

// NewLocalTicketHandler creates a new local ticket handler
func NewLocalTicketHandler(tickets *services.LocalTicketService, logger *logrus.Logger) *LocalTicketHandler {
	return &LocalTicketHandler{tickets: tickets, logger: logger}
}

// Purchase handles POST /api/v1/local-tickets
func (h *LocalTicketHandler) Purchase(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req models.CreateLocalTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ticket, err := h.tickets.Purchase(user.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// History handles GET /api/v1/local-tickets
func (h *LocalTicketHandler) History(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	tickets, err := h.tickets.History(user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}
