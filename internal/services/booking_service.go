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
	pnrAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	pnrLength     = 10
	maxPNRRetries = 5
)

// RandSource yields random integers for PNR and ticket-number generation.
// math/rand's *rand.Rand satisfies it; tests inject a seeded source.
type RandSource interface {
	Intn(n int) int
}

// GeneratePNR draws a random 10-char PNR and retries on collision.
func GeneratePNR(rng RandSource, exists func(string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxPNRRetries; attempt++ {
		buf := make([]byte, pnrLength)
		for i := range buf {
			buf[i] = pnrAlphabet[rng.Intn(len(pnrAlphabet))]
		}
		pnr := string(buf)
		taken, err := exists(pnr)
		if err != nil {
			return "", err
		}
		if !taken {
			return pnr, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique PNR after %d attempts", maxPNRRetries)
}

// RefundPercent returns the refund percentage for a cancellation: 90% a week
// or more ahead of travel, 75% at three days, 50% at one day, nothing on the
// day of travel or later.
func RefundPercent(travelDate, now time.Time) int {
	travel := time.Date(travelDate.Year(), travelDate.Month(), travelDate.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(travel.Sub(today) / (24 * time.Hour))
	switch {
	case days >= 7:
		return 90
	case days >= 3:
		return 75
	case days >= 1:
		return 50
	default:
		return 0
	}
}

// dayCodeOf maps a calendar date to its running-day code (Mon..Sun).
func dayCodeOf(date time.Time) string {
	return models.DayCodes[(int(date.Weekday())+6)%7]
}

// BookingService orchestrates the reserved booking flow: search,
// availability, creation with fare and seat assignment, and cancellation
// with refunds and promotion.
type BookingService struct {
	bookings *database.BookingRepository
	trains   *database.TrainRepository
	stops    *database.RouteStopRepository
	seats    *SeatService
	payments *PaymentService
	rng      RandSource
	logger   *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings *database.BookingRepository,
	trains *database.TrainRepository,
	stops *database.RouteStopRepository,
	seats *SeatService,
	payments *PaymentService,
	rng RandSource,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		trains:   trains,
		stops:    stops,
		seats:    seats,
		payments: payments,
		rng:      rng,
		logger:   logger,
	}
}

// SearchTrains lists trains serving the segment on the travel date: the train
// must run that day and stop at both stations with the source first.
func (s *BookingService) SearchTrains(sourceCode, destCode, travelDate string) ([]models.TrainSearchResult, error) {
	date, err := time.Parse("2006-01-02", travelDate)
	if err != nil {
		return nil, fmt.Errorf("%w: travel_date must be YYYY-MM-DD", models.ErrInvalidInput)
	}
	dayCode := dayCodeOf(date)

	trains, err := s.trains.List(false)
	if err != nil {
		return nil, err
	}

	results := make([]models.TrainSearchResult, 0)
	for i := range trains {
		train := &trains[i]
		if !train.RunsOn(dayCode) {
			continue
		}
		src, dst, err := s.segmentStops(train.ID, sourceCode, destCode)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidInput) {
				continue
			}
			return nil, err
		}
		classes, err := s.trains.GetClasses(train.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, models.TrainSearchResult{
			TrainNumber: train.TrainNumber,
			TrainName:   train.Name,
			TrainType:   train.TrainType,
			SourceCode:  src.StationCode,
			Departure:   src.ScheduledDeparture,
			Destination: dst.StationCode,
			Arrival:     dst.ScheduledArrival,
			DistanceKm:  dst.DistanceFromSource - src.DistanceFromSource,
			Classes:     classes,
		})
	}
	return results, nil
}

// Availability summarizes seats for a train/class/date segment
func (s *BookingService) Availability(trainNumber, classType, travelDate, sourceCode, destCode string) (*models.SeatAvailability, error) {
	date, err := time.Parse("2006-01-02", travelDate)
	if err != nil {
		return nil, fmt.Errorf("%w: travel_date must be YYYY-MM-DD", models.ErrInvalidInput)
	}
	train, err := s.trains.GetByNumber(trainNumber)
	if err != nil {
		return nil, err
	}
	src, dst, err := s.segmentStops(train.ID, sourceCode, destCode)
	if err != nil {
		return nil, err
	}
	capacity, err := s.trains.GetClassCapacity(train.ID, classType)
	if err != nil {
		return nil, err
	}
	taken, err := s.seats.GetBookedSeats(train.ID, classType, date, src.Sequence, dst.Sequence)
	if err != nil {
		return nil, err
	}

	racCount, err := s.passengerCount(train.ID, classType, date, models.BookingStatusRAC)
	if err != nil {
		return nil, err
	}
	wlCount, err := s.passengerCount(train.ID, classType, date, models.BookingStatusWaitlist)
	if err != nil {
		return nil, err
	}

	return &models.SeatAvailability{
		TrainNumber:    train.TrainNumber,
		ClassType:      classType,
		TravelDate:     travelDate,
		SeatCapacity:   capacity,
		BookedSeats:    len(taken),
		AvailableSeats: capacity - len(taken),
		RACPassengers:  racCount,
		Waitlisted:     wlCount,
	}, nil
}

// CreateBooking computes the fare, generates a PNR, persists the booking and
// its passengers, and assigns seats. The returned passengers carry the final
// seat and tier assignments.
func (s *BookingService) CreateBooking(userID string, req *models.CreateBookingRequest) (*models.Booking, []models.Passenger, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	train, err := s.trains.GetByNumber(req.TrainNumber)
	if err != nil {
		return nil, nil, err
	}
	date, _ := time.Parse("2006-01-02", req.TravelDate)
	if !train.RunsOn(dayCodeOf(date)) {
		return nil, nil, fmt.Errorf("%w: train %s does not run on %s", models.ErrInvalidInput, train.TrainNumber, dayCodeOf(date))
	}
	src, dst, err := s.segmentStops(train.ID, req.SourceCode, req.DestinationCode)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.trains.GetClassCapacity(train.ID, req.ClassType); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: train %s has no %s class", models.ErrInvalidInput, train.TrainNumber, req.ClassType)
		}
		return nil, nil, err
	}

	distance := dst.DistanceFromSource - src.DistanceFromSource
	if distance <= 0 {
		s.logger.WithFields(logrus.Fields{
			"train":  train.TrainNumber,
			"source": src.StationCode,
			"dest":   dst.StationCode,
		}).Warn("Non-positive segment distance, check route stop data")
		distance = 0
	}
	fare := CalculateReservedFare(req.ClassType, req.Quota, distance, len(req.Passengers))

	pnr, err := GeneratePNR(s.rng, s.bookings.PNRExists)
	if err != nil {
		return nil, nil, err
	}

	booking := &models.Booking{
		ID:              uuid.New().String(),
		UserID:          userID,
		TrainID:         train.ID,
		SourceCode:      src.StationCode,
		DestinationCode: dst.StationCode,
		TravelDate:      date,
		ClassType:       req.ClassType,
		Quota:           req.Quota,
		BookingStatus:   models.BookingStatusWaitlist,
		TotalFare:       fare,
		PNR:             pnr,
	}
	passengers := make([]models.Passenger, len(req.Passengers))
	for i, input := range req.Passengers {
		passengers[i] = models.Passenger{
			ID:              uuid.New().String(),
			BookingID:       booking.ID,
			Name:            input.Name,
			Age:             input.Age,
			Gender:          input.Gender,
			BerthPreference: input.BerthPreference,
			Status:          models.BookingStatusWaitlist,
		}
	}

	if err := s.bookings.Create(booking, passengers); err != nil {
		return nil, nil, err
	}
	if err := s.seats.AssignSeats(booking); err != nil {
		return nil, nil, err
	}
	assigned, err := s.bookings.PassengersByBooking(booking.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"pnr":    booking.PNR,
		"train":  train.TrainNumber,
		"status": booking.BookingStatus,
		"fare":   booking.TotalFare,
	}).Info("Booking created")
	return booking, assigned, nil
}

// GetByPNR returns a booking and its passengers; non-admins only see their own
func (s *BookingService) GetByPNR(pnr, userID string, isAdmin bool) (*models.Booking, []models.Passenger, error) {
	booking, err := s.bookings.GetByPNR(pnr)
	if err != nil {
		return nil, nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, nil, models.ErrNotFound
	}
	passengers, err := s.bookings.PassengersByBooking(booking.ID)
	if err != nil {
		return nil, nil, err
	}
	return booking, passengers, nil
}

// History returns a user's bookings, newest first
func (s *BookingService) History(userID string) ([]models.Booking, error) {
	return s.bookings.ByUser(userID)
}

// Cancel cancels a booking, promotes waiting bookings behind it, refunds per
// the cancellation schedule, and reports the refund.
func (s *BookingService) Cancel(pnr, userID string, isAdmin bool) (*models.CancellationResult, error) {
	booking, err := s.bookings.GetByPNR(pnr)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, models.ErrNotFound
	}
	if !booking.CanBeCancelled() {
		return nil, fmt.Errorf("%w: booking %s is already cancelled", models.ErrInvalidInput, pnr)
	}

	percent := RefundPercent(booking.TravelDate, time.Now())
	amount := booking.TotalFare * float64(percent) / 100

	if err := s.seats.CancelAndPromote(booking); err != nil {
		return nil, err
	}
	if amount > 0 {
		if err := s.payments.Refund(booking, amount); err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"pnr":            pnr,
		"refund_percent": percent,
		"refund_amount":  amount,
	}).Info("Booking cancelled")
	return &models.CancellationResult{PNR: pnr, RefundPercent: percent, RefundAmount: amount}, nil
}

// segmentStops resolves a booking segment to the train's stops, requiring the
// source ahead of the destination
func (s *BookingService) segmentStops(trainID, sourceCode, destCode string) (src, dst *models.TrainRouteStop, err error) {
	src, err = s.stops.ByTrainAndStation(trainID, sourceCode)
	if err != nil {
		return nil, nil, err
	}
	dst, err = s.stops.ByTrainAndStation(trainID, destCode)
	if err != nil {
		return nil, nil, err
	}
	if src.Sequence >= dst.Sequence {
		return nil, nil, fmt.Errorf("%w: %s is not before %s on this route", models.ErrInvalidInput, sourceCode, destCode)
	}
	return src, dst, nil
}

// passengerCount counts passengers sitting in a tier for a train/class/date
func (s *BookingService) passengerCount(trainID, classType string, date time.Time, status models.BookingStatus) (int, error) {
	bookings, err := s.bookings.BookingsByStatus(trainID, classType, date, status)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range bookings {
		passengers, err := s.bookings.PassengersByBooking(bookings[i].ID)
		if err != nil {
			return 0, err
		}
		for _, p := range passengers {
			if p.Status == status {
				count++
			}
		}
	}
	return count, nil
}
