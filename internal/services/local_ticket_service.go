package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/database"
	"github.com/smartrail/train-reservation-backend/internal/models"
)

const (
	ticketNumberSpace = 100000000 // 8 digits
	maxTicketRetries  = 5
	searchWindowDays  = 7
)

// LocalTicketService sells flat-rate unreserved tickets on the next available
// train serving the segment within the coming week.
type LocalTicketService struct {
	tickets *database.LocalTicketRepository
	trains  *database.TrainRepository
	stops   *database.RouteStopRepository
	rng     RandSource
	now     func() time.Time
	logger  *logrus.Logger
}

// NewLocalTicketService creates a new local ticket service
func NewLocalTicketService(
	tickets *database.LocalTicketRepository,
	trains *database.TrainRepository,
	stops *database.RouteStopRepository,
	rng RandSource,
	logger *logrus.Logger,
) *LocalTicketService {
	return &LocalTicketService{
		tickets: tickets,
		trains:  trains,
		stops:   stops,
		rng:     rng,
		now:     time.Now,
		logger:  logger,
	}
}

// Purchase finds the next train serving the segment, computes the flat fare
// and issues a ticket with a unique 8-digit number.
func (s *LocalTicketService) Purchase(userID string, req *models.CreateLocalTicketRequest) (*models.LocalTicket, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	train, travelDate, err := s.nextAvailableTrain(req.SourceCode, req.DestinationCode)
	if err != nil {
		return nil, err
	}

	number, err := s.generateTicketNumber()
	if err != nil {
		return nil, err
	}

	ticket := &models.LocalTicket{
		ID:              uuid.New().String(),
		UserID:          userID,
		TicketNumber:    number,
		TrainID:         train.ID,
		SourceCode:      req.SourceCode,
		DestinationCode: req.DestinationCode,
		TravelDate:      travelDate,
		ClassType:       req.ClassType,
		PassengerCount:  req.PassengerCount,
		TotalFare:       CalculateLocalFare(req.ClassType, req.PassengerCount),
	}
	if err := s.tickets.Create(ticket); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket": ticket.TicketNumber,
		"train":  train.TrainNumber,
		"date":   travelDate.Format("2006-01-02"),
		"fare":   ticket.TotalFare,
	}).Info("Local ticket issued")
	return ticket, nil
}

// History returns a user's local tickets, newest first
func (s *LocalTicketService) History(userID string) ([]models.LocalTicket, error) {
	return s.tickets.ByUser(userID)
}

// nextAvailableTrain scans the coming week, earliest departure first, for a
// train running that day whose route covers the segment. Today only counts
// trains that have not yet departed the source.
func (s *LocalTicketService) nextAvailableTrain(sourceCode, destCode string) (*models.Train, time.Time, error) {
	trains, err := s.trains.List(false)
	if err != nil {
		return nil, time.Time{}, err
	}
	now := s.now()
	nowClock := fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute())

	for offset := 0; offset < searchWindowDays; offset++ {
		date := now.AddDate(0, 0, offset)
		dayCode := dayCodeOf(date)

		var best *models.Train
		bestDeparture := ""
		for i := range trains {
			train := &trains[i]
			if !train.RunsOn(dayCode) {
				continue
			}
			src, err := s.stops.ByTrainAndStation(train.ID, sourceCode)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					continue
				}
				return nil, time.Time{}, err
			}
			dst, err := s.stops.ByTrainAndStation(train.ID, destCode)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					continue
				}
				return nil, time.Time{}, err
			}
			if src.Sequence >= dst.Sequence || src.ScheduledDeparture == nil {
				continue
			}
			if offset == 0 && *src.ScheduledDeparture <= nowClock {
				continue
			}
			if best == nil || *src.ScheduledDeparture < bestDeparture {
				best = train
				bestDeparture = *src.ScheduledDeparture
			}
		}
		if best != nil {
			travelDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
			return best, travelDate, nil
		}
	}
	return nil, time.Time{}, fmt.Errorf("%w: no train serves %s-%s in the next %d days", models.ErrNotFound, sourceCode, destCode, searchWindowDays)
}

// generateTicketNumber draws a random 8-digit number, retrying on collision
func (s *LocalTicketService) generateTicketNumber() (string, error) {
	for attempt := 0; attempt < maxTicketRetries; attempt++ {
		number := fmt.Sprintf("%08d", s.rng.Intn(ticketNumberSpace))
		taken, err := s.tickets.NumberExists(number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique ticket number after %d attempts", maxTicketRetries)
}
