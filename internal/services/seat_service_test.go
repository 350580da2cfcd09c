package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// fakeSeatStore is an in-memory SeatStore for exercising the allocator.
type fakeSeatStore struct {
	capacity   map[string]int
	sequences  map[string]int
	bookings   map[string]*models.Booking
	order      []string
	passengers map[string][]*models.Passenger
}

func newFakeSeatStore() *fakeSeatStore {
	return &fakeSeatStore{
		capacity:   make(map[string]int),
		sequences:  make(map[string]int),
		bookings:   make(map[string]*models.Booking),
		passengers: make(map[string][]*models.Passenger),
	}
}

func (f *fakeSeatStore) ClassCapacity(trainID, classType string) (int, error) {
	capacity, ok := f.capacity[classType]
	if !ok {
		return 0, models.ErrNotFound
	}
	return capacity, nil
}

func (f *fakeSeatStore) StopSequence(trainID, stationCode string) (int, error) {
	seq, ok := f.sequences[stationCode]
	if !ok {
		return 0, models.ErrNotFound
	}
	return seq, nil
}

func (f *fakeSeatStore) ActiveBookings(trainID, classType string, travelDate time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range f.order {
		b := f.bookings[id]
		if b.ClassType == classType && b.BookingStatus != models.BookingStatusCancelled {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeSeatStore) BookingsByStatus(trainID, classType string, travelDate time.Time, status models.BookingStatus) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range f.order {
		b := f.bookings[id]
		if b.ClassType == classType && b.BookingStatus == status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeSeatStore) PassengersByBooking(bookingID string) ([]models.Passenger, error) {
	stored := f.passengers[bookingID]
	out := make([]models.Passenger, len(stored))
	for i, p := range stored {
		out[i] = *p
	}
	return out, nil
}

func (f *fakeSeatStore) UpdatePassengerAssignment(p *models.Passenger) error {
	for _, stored := range f.passengers[p.BookingID] {
		if stored.ID == p.ID {
			*stored = *p
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeSeatStore) UpdateBookingStatus(bookingID string, status models.BookingStatus) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return models.ErrNotFound
	}
	b.BookingStatus = status
	return nil
}

func (f *fakeSeatStore) addBooking(source, dest string, prefs []seatPref) *models.Booking {
	booking := &models.Booking{
		ID:              uuid.New().String(),
		TrainID:         "train-1",
		SourceCode:      source,
		DestinationCode: dest,
		TravelDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ClassType:       models.ClassSleeper,
		BookingStatus:   models.BookingStatusWaitlist,
		PNR:             fmt.Sprintf("PNR%07d", len(f.order)),
	}
	f.bookings[booking.ID] = booking
	f.order = append(f.order, booking.ID)
	for _, pref := range prefs {
		f.passengers[booking.ID] = append(f.passengers[booking.ID], &models.Passenger{
			ID:              uuid.New().String(),
			BookingID:       booking.ID,
			Name:            "Passenger",
			Age:             pref.age,
			Gender:          models.GenderMale,
			BerthPreference: pref.berth,
			Status:          models.BookingStatusWaitlist,
		})
	}
	return booking
}

type seatPref struct {
	age   int
	berth string
}

func seatFixture(capacity int) (*SeatService, *fakeSeatStore) {
	store := newFakeSeatStore()
	store.capacity[models.ClassSleeper] = capacity
	for i, code := range []string{"A", "B", "C", "D", "E"} {
		store.sequences[code] = i + 1
	}
	return NewSeatService(store, testLogger()), store
}

func TestAssignSeatsConfirmsWithinCapacity(t *testing.T) {
	svc, store := seatFixture(3)
	booking := store.addBooking("A", "E", []seatPref{{30, "UB"}, {40, "MB"}})

	require.NoError(t, svc.AssignSeats(booking))
	assert.Equal(t, models.BookingStatusConfirmed, booking.BookingStatus)

	passengers, _ := store.PassengersByBooking(booking.ID)
	require.Len(t, passengers, 2)
	assert.Equal(t, "S001", *passengers[0].SeatNumber)
	assert.Equal(t, "UB", *passengers[0].BerthType)
	assert.Equal(t, "S002", *passengers[1].SeatNumber)
	assert.Equal(t, "MB", *passengers[1].BerthType)
}

func TestAssignSeatsReusesSeatOnDisjointSegment(t *testing.T) {
	svc, store := seatFixture(1)

	first := store.addBooking("A", "C", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(first))
	assert.Equal(t, models.BookingStatusConfirmed, first.BookingStatus)

	// alights at C exactly where the next passenger boards
	second := store.addBooking("C", "E", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(second))
	assert.Equal(t, models.BookingStatusConfirmed, second.BookingStatus)

	passengers, _ := store.PassengersByBooking(second.ID)
	assert.Equal(t, "S001", *passengers[0].SeatNumber)
}

func TestAssignSeatsBlocksOverlappingSegment(t *testing.T) {
	svc, store := seatFixture(1)

	first := store.addBooking("A", "D", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(first))

	second := store.addBooking("C", "E", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(second))
	assert.Equal(t, models.BookingStatusRAC, second.BookingStatus)
}

func TestAssignSeatsElderlyLowerBerthFirst(t *testing.T) {
	svc, store := seatFixture(5)
	// the elder is listed last but prefers a lower berth
	booking := store.addBooking("A", "E", []seatPref{{30, "UB"}, {25, "MB"}, {65, "LB"}})

	require.NoError(t, svc.AssignSeats(booking))

	passengers, _ := store.PassengersByBooking(booking.ID)
	require.Len(t, passengers, 3)
	// seat 1 maps to LB in the berth cycle and goes to the elder
	elder := passengers[2]
	assert.Equal(t, "S001", *elder.SeatNumber)
	assert.Equal(t, "LB", *elder.BerthType)
	assert.Equal(t, "S002", *passengers[0].SeatNumber)
	assert.Equal(t, "S003", *passengers[1].SeatNumber)
}

func TestAssignSeatsElderlyOtherPreferenceWaitsInLine(t *testing.T) {
	svc, store := seatFixture(1)
	// elder prefers an upper berth, so no priority: first passenger takes the seat
	booking := store.addBooking("A", "E", []seatPref{{30, "LB"}, {70, "UB"}})

	require.NoError(t, svc.AssignSeats(booking))

	passengers, _ := store.PassengersByBooking(booking.ID)
	assert.Equal(t, models.BookingStatusConfirmed, passengers[0].Status)
	assert.Equal(t, models.BookingStatusRAC, passengers[1].Status)
}

func TestAssignSeatsRoundRobinOnInvalidPreference(t *testing.T) {
	svc, store := seatFixture(3)
	booking := store.addBooking("A", "E", []seatPref{{30, ""}, {30, "XX"}})

	require.NoError(t, svc.AssignSeats(booking))

	passengers, _ := store.PassengersByBooking(booking.ID)
	assert.Equal(t, "LB", *passengers[0].BerthType)
	assert.Equal(t, "MB", *passengers[1].BerthType)
}

func TestAssignSeatsOverflowTiers(t *testing.T) {
	svc, store := seatFixture(2)
	prefs := make([]seatPref, 15)
	for i := range prefs {
		prefs[i] = seatPref{30, "LB"}
	}
	booking := store.addBooking("A", "E", prefs)

	require.NoError(t, svc.AssignSeats(booking))

	passengers, _ := store.PassengersByBooking(booking.ID)
	var confirmed, rac, wl int
	for _, p := range passengers {
		switch p.Status {
		case models.BookingStatusConfirmed:
			confirmed++
		case models.BookingStatusRAC:
			rac++
		case models.BookingStatusWaitlist:
			wl++
		}
	}
	assert.Equal(t, 2, confirmed)
	assert.Equal(t, 10, rac)
	assert.Equal(t, 3, wl)
	// aggregate is the worst tier among the passengers
	assert.Equal(t, models.BookingStatusWaitlist, booking.BookingStatus)
}

func TestCancelAndPromote(t *testing.T) {
	svc, store := seatFixture(1)

	first := store.addBooking("A", "E", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(first))
	assert.Equal(t, models.BookingStatusConfirmed, first.BookingStatus)

	second := store.addBooking("A", "E", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(second))
	assert.Equal(t, models.BookingStatusRAC, second.BookingStatus)

	require.NoError(t, svc.CancelAndPromote(first))
	assert.Equal(t, models.BookingStatusCancelled, first.BookingStatus)

	passengers, _ := store.PassengersByBooking(first.ID)
	assert.Nil(t, passengers[0].SeatNumber)
	assert.Equal(t, models.BookingStatusCancelled, passengers[0].Status)

	// the freed seat cascades to the waiting booking
	promoted := store.bookings[second.ID]
	assert.Equal(t, models.BookingStatusConfirmed, promoted.BookingStatus)
	promotedPassengers, _ := store.PassengersByBooking(second.ID)
	assert.Equal(t, "S001", *promotedPassengers[0].SeatNumber)
}

func TestCancelAndPromoteFIFO(t *testing.T) {
	svc, store := seatFixture(1)

	first := store.addBooking("A", "E", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(first))
	second := store.addBooking("A", "E", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(second))
	third := store.addBooking("A", "E", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(third))

	require.NoError(t, svc.CancelAndPromote(first))

	// earliest waiting booking gets the seat, the later one stays in RAC
	assert.Equal(t, models.BookingStatusConfirmed, store.bookings[second.ID].BookingStatus)
	assert.Equal(t, models.BookingStatusRAC, store.bookings[third.ID].BookingStatus)
}

func TestCancelAndPromoteNothingWaiting(t *testing.T) {
	svc, store := seatFixture(2)

	only := store.addBooking("A", "E", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(only))

	require.NoError(t, svc.CancelAndPromote(only))
	assert.Equal(t, models.BookingStatusCancelled, only.BookingStatus)
}

func TestGetBookedSeatsIgnoresTouchingSegments(t *testing.T) {
	svc, store := seatFixture(1)

	first := store.addBooking("A", "C", []seatPref{{30, "LB"}})
	require.NoError(t, svc.AssignSeats(first))

	taken, err := svc.GetBookedSeats("train-1", models.ClassSleeper, first.TravelDate, 3, 5)
	require.NoError(t, err)
	assert.Empty(t, taken)

	taken, err = svc.GetBookedSeats("train-1", models.ClassSleeper, first.TravelDate, 2, 5)
	require.NoError(t, err)
	assert.True(t, taken["S001"])
}

func TestBerthForSeatCycle(t *testing.T) {
	assert.Equal(t, "LB", berthForSeat(1))
	assert.Equal(t, "MB", berthForSeat(2))
	assert.Equal(t, "UB", berthForSeat(3))
	assert.Equal(t, "SL", berthForSeat(4))
	assert.Equal(t, "SU", berthForSeat(5))
	assert.Equal(t, "LB", berthForSeat(6))
}

func TestAggregateStatus(t *testing.T) {
	passengers := []models.Passenger{
		{Status: models.BookingStatusConfirmed},
		{Status: models.BookingStatusRAC},
	}
	assert.Equal(t, models.BookingStatusRAC, aggregateStatus(passengers))

	passengers = append(passengers, models.Passenger{Status: models.BookingStatusWaitlist})
	assert.Equal(t, models.BookingStatusWaitlist, aggregateStatus(passengers))

	assert.Equal(t, models.BookingStatusConfirmed, aggregateStatus(nil))
}
