package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/middleware"
	"github.com/smartrail/train-reservation-backend/internal/models"
	"github.com/smartrail/train-reservation-backend/internal/services"
)

// BookingHandler handles search, availability and the booking lifecycle
type BookingHandler struct {
	bookings *services.BookingService
	logger   *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

// Search handles GET /api/v1/bookings/search?source=A&destination=B&date=YYYY-MM-DD
func (h *BookingHandler) Search(c *gin.Context) {
	source := c.Query("source")
	destination := c.Query("destination")
	date := c.Query("date")
	if source == "" || destination == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source, destination and date query parameters are required"})
		return
	}

	results, err := h.bookings.SearchTrains(source, destination, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Availability handles GET /api/v1/bookings/availability
func (h *BookingHandler) Availability(c *gin.Context) {
	train := c.Query("train_number")
	class := c.Query("class_type")
	date := c.Query("date")
	source := c.Query("source")
	destination := c.Query("destination")
	if train == "" || class == "" || date == "" || source == "" || destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "train_number, class_type, date, source and destination are required"})
		return
	}

	availability, err := h.bookings.Availability(train, class, date, source, destination)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	booking, passengers, err := h.bookings.CreateBooking(user.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking, "passengers": passengers})
}

// Get handles GET /api/v1/bookings/:pnr
func (h *BookingHandler) Get(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	booking, passengers, err := h.bookings.GetByPNR(c.Param("pnr"), user.UserID, middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking, "passengers": passengers})
}

// History handles GET /api/v1/bookings
func (h *BookingHandler) History(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	bookings, err := h.bookings.History(user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Cancel handles POST /api/v1/bookings/:pnr/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	result, err := h.bookings.Cancel(c.Param("pnr"), user.UserID, middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
