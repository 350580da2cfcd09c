package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/models"
	"github.com/smartrail/train-reservation-backend/internal/services"
)

// RouteHandler handles route edges, templates and train route expansion
type RouteHandler struct {
	routes *services.RouteService
	logger *logrus.Logger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routes *services.RouteService, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{routes: routes, logger: logger}
}

// ListEdges handles GET /api/v1/routes/edges
func (h *RouteHandler) ListEdges(c *gin.Context) {
	edges, err := h.routes.ListEdges()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, edges)
}

// CreateEdge handles POST /api/v1/routes/edges (admin)
func (h *RouteHandler) CreateEdge(c *gin.Context) {
	var req models.CreateRouteEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	edge, err := h.routes.CreateEdge(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, edge)
}

// InsertStation handles POST /api/v1/routes/edges/insert (admin)
func (h *RouteHandler) InsertStation(c *gin.Context) {
	var req models.InsertStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	edges, err := h.routes.InsertStation(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, edges)
}

// ShortestPath handles GET /api/v1/routes/shortest-path?from=A&to=B
func (h *RouteHandler) ShortestPath(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to query parameters are required"})
		return
	}

	path, distance, err := h.routes.ShortestPath(from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "distance": distance})
}

// CreateTemplate handles POST /api/v1/routes/templates (admin)
func (h *RouteHandler) CreateTemplate(c *gin.Context) {
	var req models.CreateRouteTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	template, err := h.routes.CreateTemplate(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

// ListTemplates handles GET /api/v1/routes/templates
func (h *RouteHandler) ListTemplates(c *gin.Context) {
	templates, err := h.routes.ListTemplates()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// CreateTrainRoute handles POST /api/v1/routes/train-route (admin): expands a
// template into a train's operational stops
func (h *RouteHandler) CreateTrainRoute(c *gin.Context) {
	var req models.CreateTrainRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	stops, err := h.routes.CreateTrainRoute(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stops)
}

// GetTrainRoute handles GET /api/v1/routes/train/:number
func (h *RouteHandler) GetTrainRoute(c *gin.Context) {
	stops, err := h.routes.TrainRoute(c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stops)
}
