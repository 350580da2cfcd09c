package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// PaymentRepository handles payment transaction data operations
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment transaction
func (r *PaymentRepository) Create(txn *models.PaymentTransaction) error {
	query := `
		INSERT INTO payment_transactions (id, booking_id, transaction_id, method, amount, status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		txn.ID,
		txn.BookingID,
		txn.TransactionID,
		txn.Method,
		txn.Amount,
		txn.Status,
		txn.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment transaction: %w", err)
	}
	return nil
}

// LatestByBooking retrieves the most recent payment for a booking
func (r *PaymentRepository) LatestByBooking(bookingID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	query := `SELECT * FROM payment_transactions WHERE booking_id = $1 ORDER BY paid_at DESC LIMIT 1`

	err := r.db.Get(&txn, query, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment transaction: %w", err)
	}
	return &txn, nil
}

// UpdateStatus sets the status of a payment transaction
func (r *PaymentRepository) UpdateStatus(txnID, status string) error {
	query := `UPDATE payment_transactions SET status = $1 WHERE id = $2`

	result, err := r.db.Exec(query, status, txnID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
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
