package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/database"
	"github.com/smartrail/train-reservation-backend/internal/models"
)

// Elderly passengers preferring a lower berth are seated first.
const elderlyAge = 60

// RAC holds this many passengers beyond the seat capacity before spilling to
// the waitlist. Fixed inventory cushion, not computed.
const racCushion = 10

// SeatStore is the slice of persistence the seat inventory needs.
type SeatStore interface {
	ClassCapacity(trainID, classType string) (int, error)
	StopSequence(trainID, stationCode string) (int, error)
	ActiveBookings(trainID, classType string, travelDate time.Time) ([]models.Booking, error)
	BookingsByStatus(trainID, classType string, travelDate time.Time, status models.BookingStatus) ([]models.Booking, error)
	PassengersByBooking(bookingID string) ([]models.Passenger, error)
	UpdatePassengerAssignment(p *models.Passenger) error
	UpdateBookingStatus(bookingID string, status models.BookingStatus) error
}

// SeatService allocates seats across CONFIRMED/RAC/WL tiers and promotes
// bookings when seats free up. All mutations for one (train, class, date)
// are serialized by an in-process mutex so two racing bookings cannot both
// take the same seat.
type SeatService struct {
	store  SeatStore
	logger *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSeatService creates a new seat service
func NewSeatService(store SeatStore, logger *logrus.Logger) *SeatService {
	return &SeatService{
		store:  store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// inventoryLock returns the mutex serializing one train/class/date pool
func (s *SeatService) inventoryLock(trainID, classType string, travelDate time.Time) *sync.Mutex {
	key := fmt.Sprintf("%s|%s|%s", trainID, classType, travelDate.Format("2006-01-02"))
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// GetBookedSeats returns the seat numbers taken on segments overlapping
// (srcSeq, dstSeq) for the train/class/date. Seats on disjoint segments are
// not in the set: a seat vacated mid-route is reusable downstream.
func (s *SeatService) GetBookedSeats(trainID, classType string, travelDate time.Time, srcSeq, dstSeq int) (map[string]bool, error) {
	lock := s.inventoryLock(trainID, classType, travelDate)
	lock.Lock()
	defer lock.Unlock()
	return s.bookedSeatsLocked(trainID, classType, travelDate, srcSeq, dstSeq, "")
}

func (s *SeatService) bookedSeatsLocked(trainID, classType string, travelDate time.Time, srcSeq, dstSeq int, excludeBookingID string) (map[string]bool, error) {
	bookings, err := s.store.ActiveBookings(trainID, classType, travelDate)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool)
	for i := range bookings {
		booking := &bookings[i]
		if booking.ID == excludeBookingID {
			continue
		}
		if booking.BookingStatus != models.BookingStatusConfirmed && booking.BookingStatus != models.BookingStatusRAC {
			continue
		}
		bSrc, err := s.store.StopSequence(trainID, booking.SourceCode)
		if err != nil {
			return nil, err
		}
		bDst, err := s.store.StopSequence(trainID, booking.DestinationCode)
		if err != nil {
			return nil, err
		}
		// touching at a single sequence point is not an overlap
		if bDst <= srcSeq || bSrc >= dstSeq {
			continue
		}
		passengers, err := s.store.PassengersByBooking(booking.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range passengers {
			if p.SeatNumber != nil {
				taken[*p.SeatNumber] = true
			}
		}
	}
	return taken, nil
}

// AssignSeats allocates seats to a booking's passengers, splitting them into
// CONFIRMED/RAC/WL tiers, and persists passenger rows and the booking's
// aggregate status. Recomputes from current occupancy, so re-invoking for the
// same booking is idempotent.
func (s *SeatService) AssignSeats(booking *models.Booking) error {
	lock := s.inventoryLock(booking.TrainID, booking.ClassType, booking.TravelDate)
	lock.Lock()
	defer lock.Unlock()
	return s.assignLocked(booking)
}

func (s *SeatService) assignLocked(booking *models.Booking) error {
	srcSeq, err := s.store.StopSequence(booking.TrainID, booking.SourceCode)
	if err != nil {
		return err
	}
	dstSeq, err := s.store.StopSequence(booking.TrainID, booking.DestinationCode)
	if err != nil {
		return err
	}
	if srcSeq >= dstSeq {
		return fmt.Errorf("%w: %s is not before %s on this route", models.ErrInvalidInput, booking.SourceCode, booking.DestinationCode)
	}

	capacity, err := s.store.ClassCapacity(booking.TrainID, booking.ClassType)
	if err != nil {
		return err
	}
	taken, err := s.bookedSeatsLocked(booking.TrainID, booking.ClassType, booking.TravelDate, srcSeq, dstSeq, booking.ID)
	if err != nil {
		return err
	}

	available := make([]string, 0, capacity)
	prefix := classPrefix(booking.ClassType)
	for n := 1; n <= capacity; n++ {
		seat := fmt.Sprintf("%s%03d", prefix, n)
		if !taken[seat] {
			available = append(available, seat)
		}
	}
	racLimit := len(available) + racCushion

	passengers, err := s.store.PassengersByBooking(booking.ID)
	if err != nil {
		return err
	}

	// elderly lower-berth preference jumps the queue; elders preferring any
	// other berth wait in line with everyone else
	ordered := make([]*models.Passenger, 0, len(passengers))
	for i := range passengers {
		if p := &passengers[i]; p.Age >= elderlyAge && p.BerthPreference == "LB" {
			ordered = append(ordered, p)
		}
	}
	for i := range passengers {
		if p := &passengers[i]; !(p.Age >= elderlyAge && p.BerthPreference == "LB") {
			ordered = append(ordered, p)
		}
	}

	next := 0
	roundRobin := 0
	for position, p := range ordered {
		if next < len(available) {
			seatIdx := next
			if p.Age >= elderlyAge && p.BerthPreference == "LB" {
				if lower := findLowerBerth(available, next); lower >= 0 {
					seatIdx = lower
				}
			}
			seat := available[seatIdx]
			available = append(available[:seatIdx], available[seatIdx+1:]...)

			berth := p.BerthPreference
			if !validBerth(berth) {
				berth = models.BerthTypes[roundRobin%len(models.BerthTypes)]
				roundRobin++
			}
			p.SeatNumber = &seat
			p.BerthType = &berth
			p.Status = models.BookingStatusConfirmed
		} else if position < racLimit {
			p.SeatNumber = nil
			p.BerthType = nil
			p.Status = models.BookingStatusRAC
		} else {
			p.SeatNumber = nil
			p.BerthType = nil
			p.Status = models.BookingStatusWaitlist
		}
		if err := s.store.UpdatePassengerAssignment(p); err != nil {
			return err
		}
	}

	status := aggregateStatus(passengers)
	if status != booking.BookingStatus {
		if err := s.store.UpdateBookingStatus(booking.ID, status); err != nil {
			return err
		}
		booking.BookingStatus = status
	}

	s.logger.WithFields(logrus.Fields{
		"booking":    booking.PNR,
		"status":     status,
		"passengers": len(passengers),
	}).Info("Seats assigned")
	return nil
}

// CancelAndPromote releases a booking's seats and sweeps the remaining RAC
// bookings, then the waitlisted ones, in booking order: freed seats cascade
// to the earliest waiting booking first.
func (s *SeatService) CancelAndPromote(booking *models.Booking) error {
	lock := s.inventoryLock(booking.TrainID, booking.ClassType, booking.TravelDate)
	lock.Lock()
	defer lock.Unlock()

	passengers, err := s.store.PassengersByBooking(booking.ID)
	if err != nil {
		return err
	}
	for i := range passengers {
		p := &passengers[i]
		p.SeatNumber = nil
		p.BerthType = nil
		p.Status = models.BookingStatusCancelled
		if err := s.store.UpdatePassengerAssignment(p); err != nil {
			return err
		}
	}
	if err := s.store.UpdateBookingStatus(booking.ID, models.BookingStatusCancelled); err != nil {
		return err
	}
	booking.BookingStatus = models.BookingStatusCancelled

	for _, tier := range []models.BookingStatus{models.BookingStatusRAC, models.BookingStatusWaitlist} {
		waiting, err := s.store.BookingsByStatus(booking.TrainID, booking.ClassType, booking.TravelDate, tier)
		if err != nil {
			return err
		}
		for i := range waiting {
			if waiting[i].ID == booking.ID {
				continue
			}
			if err := s.assignLocked(&waiting[i]); err != nil {
				return err
			}
		}
	}

	s.logger.WithField("booking", booking.PNR).Info("Booking cancelled, waiting tiers swept")
	return nil
}

// classPrefix is the seat-number prefix for a class, e.g. S001 for Sleeper
func classPrefix(classType string) string {
	classType = strings.TrimSpace(classType)
	if classType == "" {
		return "X"
	}
	return strings.ToUpper(classType[:1])
}

// berthForSeat maps a 1-based seat index onto the canonical berth cycle
func berthForSeat(n int) string {
	return models.BerthTypes[(n-1)%len(models.BerthTypes)]
}

// findLowerBerth locates the first lower-berth seat at or after start
func findLowerBerth(available []string, start int) int {
	for i := start; i < len(available); i++ {
		var n int
		if _, err := fmt.Sscanf(available[i][1:], "%d", &n); err != nil {
			continue
		}
		if berthForSeat(n) == "LB" {
			return i
		}
	}
	return -1
}

func validBerth(berth string) bool {
	for _, b := range models.BerthTypes {
		if b == berth {
			return true
		}
	}
	return false
}

// aggregateStatus is the worst tier among a booking's passengers
func aggregateStatus(passengers []models.Passenger) models.BookingStatus {
	rank := map[models.BookingStatus]int{
		models.BookingStatusConfirmed: 0,
		models.BookingStatusRAC:       1,
		models.BookingStatusWaitlist:  2,
		models.BookingStatusCancelled: 3,
	}
	worst := models.BookingStatusConfirmed
	for _, p := range passengers {
		if rank[p.Status] > rank[worst] {
			worst = p.Status
		}
	}
	return worst
}

// repoSeatStore adapts the concrete repositories to the SeatStore interface.
type repoSeatStore struct {
	trains   *database.TrainRepository
	stops    *database.RouteStopRepository
	bookings *database.BookingRepository
}

// NewRepoSeatStore wires the seat inventory to the database repositories
func NewRepoSeatStore(trains *database.TrainRepository, stops *database.RouteStopRepository, bookings *database.BookingRepository) SeatStore {
	return &repoSeatStore{trains: trains, stops: stops, bookings: bookings}
}

func (r *repoSeatStore) ClassCapacity(trainID, classType string) (int, error) {
	return r.trains.GetClassCapacity(trainID, classType)
}

func (r *repoSeatStore) StopSequence(trainID, stationCode string) (int, error) {
	stop, err := r.stops.ByTrainAndStation(trainID, stationCode)
	if err != nil {
		return 0, err
	}
	return stop.Sequence, nil
}

func (r *repoSeatStore) ActiveBookings(trainID, classType string, travelDate time.Time) ([]models.Booking, error) {
	return r.bookings.ActiveBookings(trainID, classType, travelDate)
}

func (r *repoSeatStore) BookingsByStatus(trainID, classType string, travelDate time.Time, status models.BookingStatus) ([]models.Booking, error) {
	return r.bookings.BookingsByStatus(trainID, classType, travelDate, status)
}

func (r *repoSeatStore) PassengersByBooking(bookingID string) ([]models.Passenger, error) {
	return r.bookings.PassengersByBooking(bookingID)
}

func (r *repoSeatStore) UpdatePassengerAssignment(p *models.Passenger) error {
	return r.bookings.UpdatePassengerAssignment(p)
}

func (r *repoSeatStore) UpdateBookingStatus(bookingID string, status models.BookingStatus) error {
	return r.bookings.UpdateStatus(bookingID, status)
}
