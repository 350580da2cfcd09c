package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// BookingRepository handles booking and passenger data operations
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking and its passengers in one transaction
func (r *BookingRepository) Create(booking *models.Booking, passengers []models.Passenger) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bookings (id, user_id, train_id, source_station_code, destination_station_code,
			travel_date, class_type, quota, booking_status, total_fare, pnr_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = tx.Exec(query,
		booking.ID,
		booking.UserID,
		booking.TrainID,
		booking.SourceCode,
		booking.DestinationCode,
		booking.TravelDate,
		booking.ClassType,
		booking.Quota,
		booking.BookingStatus,
		booking.TotalFare,
		booking.PNR,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	passengerQuery := `
		INSERT INTO passengers (id, booking_id, name, age, gender, berth_preference,
			seat_number, berth_type, booking_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, p := range passengers {
		_, err := tx.Exec(passengerQuery,
			p.ID, p.BookingID, p.Name, p.Age, p.Gender, p.BerthPreference,
			p.SeatNumber, p.BerthType, p.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to create passenger: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID
func (r *BookingRepository) GetByID(id string) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT * FROM bookings WHERE id = $1`

	err := r.db.Get(&booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// GetByPNR retrieves a booking by its PNR number
func (r *BookingRepository) GetByPNR(pnr string) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT * FROM bookings WHERE pnr_number = $1`

	err := r.db.Get(&booking, query, pnr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// ByUser retrieves a user's bookings, newest first
func (r *BookingRepository) ByUser(userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT * FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ActiveBookings retrieves non-cancelled bookings for a train, class and
// travel date, in booking order. Booking order drives RAC/WL promotion.
func (r *BookingRepository) ActiveBookings(trainID, classType string, travelDate time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT * FROM bookings
		WHERE train_id = $1 AND class_type = $2 AND travel_date = $3
		  AND booking_status != $4
		ORDER BY created_at`

	err := r.db.Select(&bookings, query, trainID, classType, travelDate, models.BookingStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to list active bookings: %w", err)
	}
	return bookings, nil
}

// BookingsByStatus retrieves bookings for a train, class and travel date in
// one of the given statuses, in booking order
func (r *BookingRepository) BookingsByStatus(trainID, classType string, travelDate time.Time, status models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT * FROM bookings
		WHERE train_id = $1 AND class_type = $2 AND travel_date = $3
		  AND booking_status = $4
		ORDER BY created_at`

	err := r.db.Select(&bookings, query, trainID, classType, travelDate, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by status: %w", err)
	}
	return bookings, nil
}

// UpdateStatus sets the aggregate status of a booking
func (r *BookingRepository) UpdateStatus(bookingID string, status models.BookingStatus) error {
	query := `UPDATE bookings SET booking_status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.Exec(query, status, bookingID)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// PNRExists checks whether a PNR number is already in use
func (r *BookingRepository) PNRExists(pnr string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM bookings WHERE pnr_number = $1)`

	if err := r.db.Get(&exists, query, pnr); err != nil {
		return false, fmt.Errorf("failed to check PNR: %w", err)
	}
	return exists, nil
}

// PassengersByBooking retrieves the passengers of a booking in creation order
func (r *BookingRepository) PassengersByBooking(bookingID string) ([]models.Passenger, error) {
	var passengers []models.Passenger
	query := `SELECT * FROM passengers WHERE booking_id = $1 ORDER BY created_at`

	if err := r.db.Select(&passengers, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to list passengers: %w", err)
	}
	return passengers, nil
}

// UpdatePassengerAssignment persists a passenger's seat, berth and tier
func (r *BookingRepository) UpdatePassengerAssignment(p *models.Passenger) error {
	query := `
		UPDATE passengers
		SET seat_number = $1, berth_type = $2, booking_status = $3
		WHERE id = $4`

	result, err := r.db.Exec(query, p.SeatNumber, p.BerthType, p.Status, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update passenger: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}
