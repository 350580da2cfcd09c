package database

import (
	"fmt"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// LocalTicketRepository handles unreserved ticket data operations
type LocalTicketRepository struct {
	db DB
}

// NewLocalTicketRepository creates a new local ticket repository
func NewLocalTicketRepository(db DB) *LocalTicketRepository {
	return &LocalTicketRepository{db: db}
}

// Create inserts a local ticket
func (r *LocalTicketRepository) Create(ticket *models.LocalTicket) error {
	query := `
		INSERT INTO local_tickets (id, user_id, ticket_number, train_id, source_station_code,
			destination_station_code, travel_date, class_type, passenger_count, total_fare)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.db.QueryRow(query,
		ticket.ID,
		ticket.UserID,
		ticket.TicketNumber,
		ticket.TrainID,
		ticket.SourceCode,
		ticket.DestinationCode,
		ticket.TravelDate,
		ticket.ClassType,
		ticket.PassengerCount,
		ticket.TotalFare,
	).Scan(&ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create local ticket: %w", err)
	}
	return nil
}

// ByUser retrieves a user's local tickets, newest first
func (r *LocalTicketRepository) ByUser(userID string) ([]models.LocalTicket, error) {
	var tickets []models.LocalTicket
	query := `SELECT * FROM local_tickets WHERE user_id = $1 ORDER BY created_at DESC`

	if err := r.db.Select(&tickets, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list local tickets: %w", err)
	}
	return tickets, nil
}

// NumberExists checks whether a ticket number is already in use
func (r *LocalTicketRepository) NumberExists(ticketNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM local_tickets WHERE ticket_number = $1)`

	if err := r.db.Get(&exists, query, ticketNumber); err != nil {
		return false, fmt.Errorf("failed to check ticket number: %w", err)
	}
	return exists, nil
}
