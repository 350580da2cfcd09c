package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/database"
	"github.com/smartrail/train-reservation-backend/internal/models"
)

// StationService owns station lifecycle: creation, master assignment and
// soft deletion with bypass-edge merging.
type StationService struct {
	stations *database.StationRepository
	edges    *database.RouteEdgeRepository
	users    *database.UserRepository
	logger   *logrus.Logger
}

// NewStationService creates a new station service
func NewStationService(stations *database.StationRepository, edges *database.RouteEdgeRepository, users *database.UserRepository, logger *logrus.Logger) *StationService {
	return &StationService{stations: stations, edges: edges, users: users, logger: logger}
}

// Create creates a station. Codes are unique across active and deactivated
// stations so a revived code cannot collide with history.
func (s *StationService) Create(req *models.CreateStationRequest) (*models.Station, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	exists, err := s.stations.CodeExists(req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: station code %s", models.ErrAlreadyExists, req.Code)
	}
	taken, err := s.stations.NameExists(req.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: station name %s", models.ErrAlreadyExists, req.Name)
	}

	station := &models.Station{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Code:     req.Code,
		City:     req.City,
		State:    req.State,
		IsActive: true,
	}
	if err := s.stations.Create(station); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"code": station.Code, "name": station.Name}).Info("Station created")
	return station, nil
}

// List returns stations matching the filter
func (s *StationService) List(filter *models.StationFilter) ([]models.Station, error) {
	return s.stations.List(filter)
}

// GetByCode returns an active station
func (s *StationService) GetByCode(code string) (*models.Station, error) {
	return s.stations.GetByCode(code)
}

// AssignMaster binds a station-master user to a station
func (s *StationService) AssignMaster(code string, req *models.AssignStationMasterRequest) error {
	station, err := s.stations.GetByCode(code)
	if err != nil {
		return err
	}
	user, err := s.users.GetByID(req.UserID)
	if err != nil {
		return err
	}
	if user.Role != models.RoleStationMaster {
		return fmt.Errorf("%w: user %s is not a station master", models.ErrInvalidInput, user.Username)
	}
	if current, err := s.stations.GetByStationMaster(user.ID); err == nil && current.ID != station.ID {
		return fmt.Errorf("%w: user %s already manages station %s", models.ErrAlreadyExists, user.Username, current.Code)
	}
	if station.StationMasterID != nil && *station.StationMasterID != user.ID {
		return fmt.Errorf("%w: station %s already has a master", models.ErrAlreadyExists, station.Code)
	}

	if err := s.stations.AssignStationMaster(station.ID, user.ID); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"station": station.Code, "user": user.Username}).Info("Station master assigned")
	return nil
}

// StationForMaster returns the station a station master manages
func (s *StationService) StationForMaster(userID string) (*models.Station, error) {
	return s.stations.GetByStationMaster(userID)
}

// Deactivate soft-deletes a station. A simple pass-through station (exactly
// one active inbound and one active outbound edge) is bridged by a bypass
// edge joining its neighbours; junctions and dead ends are deactivated as-is
// and may fragment reachability.
func (s *StationService) Deactivate(code string) error {
	station, err := s.stations.GetByCode(code)
	if err != nil {
		return err
	}

	inbound, err := s.edges.ActiveInbound(station.ID)
	if err != nil {
		return err
	}
	outbound, err := s.edges.ActiveOutbound(station.ID)
	if err != nil {
		return err
	}

	if len(inbound) != 1 || len(outbound) != 1 {
		s.logger.WithFields(logrus.Fields{
			"station":  station.Code,
			"inbound":  len(inbound),
			"outbound": len(outbound),
		}).Info("Station is a junction or dead end, deactivating without bypass")
		return s.stations.Deactivate(station.ID)
	}

	in, out := &inbound[0], &outbound[0]
	if in.FromStationID == out.ToStationID {
		// the two edges loop back to the same neighbour, a bypass would be a
		// self-edge
		return s.stations.Deactivate(station.ID)
	}

	bypass := &models.RouteEdge{
		ID:              uuid.New().String(),
		FromStationID:   in.FromStationID,
		ToStationID:     out.ToStationID,
		FromCode:        in.FromCode,
		ToCode:          out.ToCode,
		Distance:        in.Distance + out.Distance,
		IsBidirectional: in.IsBidirectional && out.IsBidirectional,
		IsActive:        true,
	}
	if err := s.edges.DeactivateStationWithBypass(station.ID, in.ID, out.ID, bypass); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"station":  station.Code,
		"bypass":   fmt.Sprintf("%s-%s", bypass.FromCode, bypass.ToCode),
		"distance": bypass.Distance,
	}).Info("Station deactivated, bypass edge created")
	return nil
}
