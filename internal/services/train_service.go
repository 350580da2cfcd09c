package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/database"
	"github.com/smartrail/train-reservation-backend/internal/models"
)

const (
	trainNumberSpace = 90000 // 10000..99999
	maxNumberRetries = 5
)

// TrainService owns train lifecycle and class capacities.
type TrainService struct {
	trains *database.TrainRepository
	rng    RandSource
	logger *logrus.Logger
}

// NewTrainService creates a new train service
func NewTrainService(trains *database.TrainRepository, rng RandSource, logger *logrus.Logger) *TrainService {
	return &TrainService{trains: trains, rng: rng, logger: logger}
}

// Create creates a train with an auto-generated unique 5-digit number and its
// class capacities.
func (s *TrainService) Create(req *models.CreateTrainRequest) (*models.Train, []models.TrainClass, error) {
	days, err := normalizeDays(joinDays(req.RunningDays))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	number, err := s.generateTrainNumber()
	if err != nil {
		return nil, nil, err
	}

	train := &models.Train{
		ID:          uuid.New().String(),
		TrainNumber: number,
		Name:        req.Name,
		TrainType:   req.TrainType,
		RunningDays: models.StringArray(days),
		IsActive:    true,
	}
	classes := make([]models.TrainClass, len(req.Classes))
	seen := make(map[string]bool)
	for i, input := range req.Classes {
		if seen[input.ClassType] {
			return nil, nil, fmt.Errorf("%w: duplicate class %s", models.ErrInvalidInput, input.ClassType)
		}
		seen[input.ClassType] = true
		classes[i] = models.TrainClass{
			ID:           uuid.New().String(),
			TrainID:      train.ID,
			ClassType:    input.ClassType,
			SeatCapacity: input.SeatCapacity,
		}
	}

	if err := s.trains.Create(train, classes); err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"train":   train.TrainNumber,
		"name":    train.Name,
		"classes": len(classes),
	}).Info("Train created")
	return train, classes, nil
}

// List returns trains, optionally including deactivated ones
func (s *TrainService) List(includeInactive bool) ([]models.Train, error) {
	return s.trains.List(includeInactive)
}

// GetByNumber returns an active train with its classes
func (s *TrainService) GetByNumber(trainNumber string) (*models.Train, []models.TrainClass, error) {
	train, err := s.trains.GetByNumber(trainNumber)
	if err != nil {
		return nil, nil, err
	}
	classes, err := s.trains.GetClasses(train.ID)
	if err != nil {
		return nil, nil, err
	}
	return train, classes, nil
}

// Deactivate soft-deletes a train
func (s *TrainService) Deactivate(trainNumber string) error {
	train, err := s.trains.GetByNumber(trainNumber)
	if err != nil {
		return err
	}
	return s.trains.Deactivate(train.ID)
}

// generateTrainNumber draws a random 5-digit number, retrying on collision
func (s *TrainService) generateTrainNumber() (string, error) {
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		number := fmt.Sprintf("%05d", 10000+s.rng.Intn(trainNumberSpace))
		taken, err := s.trains.NumberExists(number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique train number after %d attempts", maxNumberRetries)
}

func joinDays(days []string) string {
	return strings.Join(days, ",")
}
