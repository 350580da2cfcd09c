package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/config"
	"github.com/smartrail/train-reservation-backend/internal/database"
	"github.com/smartrail/train-reservation-backend/internal/graph"
	"github.com/smartrail/train-reservation-backend/internal/models"
)

// RouteService owns the route graph: edges, templates and the expansion of
// templates into operational train stops.
type RouteService struct {
	stationRepo  *database.StationRepository
	edgeRepo     *database.RouteEdgeRepository
	templateRepo *database.RouteTemplateRepository
	trainRepo    *database.TrainRepository
	stopRepo     *database.RouteStopRepository
	booking      config.BookingConfig
	logger       *logrus.Logger
}

// NewRouteService creates a new route service
func NewRouteService(
	stationRepo *database.StationRepository,
	edgeRepo *database.RouteEdgeRepository,
	templateRepo *database.RouteTemplateRepository,
	trainRepo *database.TrainRepository,
	stopRepo *database.RouteStopRepository,
	booking config.BookingConfig,
	logger *logrus.Logger,
) *RouteService {
	return &RouteService{
		stationRepo:  stationRepo,
		edgeRepo:     edgeRepo,
		templateRepo: templateRepo,
		trainRepo:    trainRepo,
		stopRepo:     stopRepo,
		booking:      booking,
		logger:       logger,
	}
}

// ActiveGraph builds the station graph from the currently active edges
func (s *RouteService) ActiveGraph() (*graph.Graph, error) {
	edges, err := s.edgeRepo.ActiveEdges()
	if err != nil {
		return nil, err
	}
	return graph.Build(edges), nil
}

// ShortestPath answers a shortest-path query over the active edge graph
func (s *RouteService) ShortestPath(fromCode, toCode string) ([]string, int, error) {
	g, err := s.ActiveGraph()
	if err != nil {
		return nil, 0, err
	}
	path, distance, found := g.ShortestPath(fromCode, toCode)
	if !found {
		return nil, 0, fmt.Errorf("%w: %s to %s", models.ErrUnreachable, fromCode, toCode)
	}
	return path, distance, nil
}

// ListEdges returns every active edge
func (s *RouteService) ListEdges() ([]models.RouteEdge, error) {
	return s.edgeRepo.ActiveEdges()
}

// CreateEdge creates a new direct edge between two existing stations.
// Duplicate active edges over the same pair are rejected.
func (s *RouteService) CreateEdge(req *models.CreateRouteEdgeRequest) (*models.RouteEdge, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	from, err := s.stationRepo.GetByCode(req.FromCode)
	if err != nil {
		return nil, err
	}
	to, err := s.stationRepo.GetByCode(req.ToCode)
	if err != nil {
		return nil, err
	}

	if _, err := s.edgeRepo.DirectEdge(req.FromCode, req.ToCode); err == nil {
		return nil, fmt.Errorf("%w: edge %s-%s", models.ErrAlreadyExists, req.FromCode, req.ToCode)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	edge := &models.RouteEdge{
		ID:              uuid.New().String(),
		FromStationID:   from.ID,
		ToStationID:     to.ID,
		FromCode:        from.Code,
		ToCode:          to.Code,
		Distance:        req.Distance,
		IsBidirectional: req.Bidirectional(),
		IsActive:        true,
	}
	if err := s.edgeRepo.Create(edge); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"from":     edge.FromCode,
		"to":       edge.ToCode,
		"distance": edge.Distance,
	}).Info("Route edge created")
	return edge, nil
}

// InsertStation places a station onto an existing direct edge. When the
// distance from the edge's start is strictly smaller than the edge's
// distance, the edge is deactivated and replaced by two edges through the
// station whose distances sum to the original. Otherwise only the leading
// edge is created and the original connection is kept; the graph refines
// toward shorter paths but never trades a short edge for a longer detour.
func (s *RouteService) InsertStation(req *models.InsertStationRequest) ([]models.RouteEdge, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	station, err := s.stationRepo.GetByCode(req.StationCode)
	if err != nil {
		return nil, err
	}
	from, err := s.stationRepo.GetByCode(req.FromCode)
	if err != nil {
		return nil, err
	}
	to, err := s.stationRepo.GetByCode(req.ToCode)
	if err != nil {
		return nil, err
	}

	existing, err := s.edgeRepo.DirectEdge(req.FromCode, req.ToCode)
	if err != nil {
		return nil, err
	}

	first := models.RouteEdge{
		ID:              uuid.New().String(),
		FromStationID:   from.ID,
		ToStationID:     station.ID,
		FromCode:        from.Code,
		ToCode:          station.Code,
		Distance:        req.DistanceFromStart,
		IsBidirectional: existing.IsBidirectional,
		IsActive:        true,
	}

	if req.DistanceFromStart >= existing.Distance {
		if err := s.edgeRepo.Create(&first); err != nil {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{
			"station": station.Code,
			"from":    from.Code,
			"to":      to.Code,
		}).Info("Station attached without split, new edge not shorter than existing")
		return []models.RouteEdge{first}, nil
	}

	second := models.RouteEdge{
		ID:              uuid.New().String(),
		FromStationID:   station.ID,
		ToStationID:     to.ID,
		FromCode:        station.Code,
		ToCode:          to.Code,
		Distance:        existing.Distance - req.DistanceFromStart,
		IsBidirectional: existing.IsBidirectional,
		IsActive:        true,
	}
	if err := s.edgeRepo.ReplaceWithSplit(existing.ID, &first, &second); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"station":  station.Code,
		"from":     from.Code,
		"to":       to.Code,
		"split_at": req.DistanceFromStart,
	}).Info("Edge split through inserted station")
	return []models.RouteEdge{first, second}, nil
}

// CreateTemplate creates a route template. Local templates compute their stop
// list by shortest path; fast templates take the explicit list as given.
func (s *RouteService) CreateTemplate(req *models.CreateRouteTemplateRequest) (*models.RouteTemplate, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	if _, err := s.stationRepo.GetByCode(req.FromCode); err != nil {
		return nil, err
	}
	if _, err := s.stationRepo.GetByCode(req.ToCode); err != nil {
		return nil, err
	}

	category := models.RouteTemplateCategory(req.Category)
	exists, err := s.templateRepo.Exists(req.FromCode, req.ToCode, category)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s template %s-%s", models.ErrAlreadyExists, category, req.FromCode, req.ToCode)
	}

	var stops []string
	switch category {
	case models.RouteCategoryLocal:
		stops, _, err = s.ShortestPath(req.FromCode, req.ToCode)
		if err != nil {
			return nil, err
		}
	case models.RouteCategoryFast:
		if req.Stops[0] != req.FromCode || req.Stops[len(req.Stops)-1] != req.ToCode {
			return nil, fmt.Errorf("%w: stops must start at %s and end at %s", models.ErrInvalidInput, req.FromCode, req.ToCode)
		}
		for _, code := range req.Stops {
			if _, err := s.stationRepo.GetByCode(code); err != nil {
				return nil, err
			}
		}
		stops = req.Stops
	}

	template := &models.RouteTemplate{
		ID:       uuid.New().String(),
		Name:     req.Name,
		FromCode: req.FromCode,
		ToCode:   req.ToCode,
		Category: category,
		Stops:    models.StringArray(stops),
	}
	if err := s.templateRepo.Create(template); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"template": template.Name,
		"category": template.Category,
		"stops":    len(template.Stops),
	}).Info("Route template created")
	return template, nil
}

// ListTemplates returns all route templates
func (s *RouteService) ListTemplates() ([]models.RouteTemplate, error) {
	return s.templateRepo.List()
}

// SegmentDistances computes per-leg distances between a template's
// consecutive stops. Fast templates tolerate indirect routing via shortest
// path; local templates require a direct edge for every leg.
func (s *RouteService) SegmentDistances(template *models.RouteTemplate) ([]int, error) {
	if len(template.Stops) < 2 {
		return nil, fmt.Errorf("%w: template %s has fewer than 2 stops", models.ErrInvalidInput, template.Name)
	}

	distances := make([]int, 0, len(template.Stops)-1)
	switch template.Category {
	case models.RouteCategoryFast:
		g, err := s.ActiveGraph()
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(template.Stops)-1; i++ {
			_, distance, found := g.ShortestPath(template.Stops[i], template.Stops[i+1])
			if !found {
				return nil, fmt.Errorf("%w: %s to %s", models.ErrUnreachable, template.Stops[i], template.Stops[i+1])
			}
			distances = append(distances, distance)
		}
	default:
		for i := 0; i < len(template.Stops)-1; i++ {
			edge, err := s.edgeRepo.DirectEdge(template.Stops[i], template.Stops[i+1])
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return nil, fmt.Errorf("%w: no direct edge %s-%s", models.ErrUnreachable, template.Stops[i], template.Stops[i+1])
				}
				return nil, err
			}
			distances = append(distances, edge.Distance)
		}
	}
	return distances, nil
}

// CreateTrainRoute expands a route template into the operational stop rows of
// a train: scheduled times from the start time at the configured speed and
// halt, cumulative distances, day counts across midnight. Replaces any
// previously generated stops for the train.
func (s *RouteService) CreateTrainRoute(req *models.CreateTrainRouteRequest) ([]models.TrainRouteStop, error) {
	train, err := s.trainRepo.GetByNumber(req.TrainNumber)
	if err != nil {
		return nil, err
	}
	template, err := s.templateRepo.GetByID(req.RouteTemplateID)
	if err != nil {
		return nil, err
	}

	distances, err := s.SegmentDistances(template)
	if err != nil {
		return nil, err
	}
	timings, days, err := GenerateTimings(template.Stops, distances, req.StartTime, s.booking.AverageSpeedKmph, s.booking.DefaultHaltMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	stops := make([]models.TrainRouteStop, 0, len(timings))
	cumulative := 0
	for i, timing := range timings {
		station, err := s.stationRepo.GetByCode(timing.StationCode)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			cumulative += distances[i-1]
		}
		halt := 0
		if i > 0 && i < len(timings)-1 {
			halt = s.booking.DefaultHaltMinutes
		}
		stops = append(stops, models.TrainRouteStop{
			ID:                 uuid.New().String(),
			TrainID:            train.ID,
			StationID:          station.ID,
			StationCode:        station.Code,
			Sequence:           i + 1,
			ScheduledArrival:   timing.ArrivalTime,
			ScheduledDeparture: timing.DepartureTime,
			HaltMinutes:        halt,
			DistanceFromSource: float64(cumulative),
			DayCount:           days[i],
		})
	}

	if err := s.stopRepo.ReplaceForTrain(train.ID, stops); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"train":    train.TrainNumber,
		"template": template.Name,
		"stops":    len(stops),
	}).Info("Train route created from template")
	return stops, nil
}

// TrainRoute returns a train's operational stops in sequence order
func (s *RouteService) TrainRoute(trainNumber string) ([]models.TrainRouteStop, error) {
	train, err := s.trainRepo.GetByNumber(trainNumber)
	if err != nil {
		return nil, err
	}
	return s.stopRepo.ByTrain(train.ID)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
