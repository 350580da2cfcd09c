package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/database"
	"github.com/smartrail/train-reservation-backend/internal/models"
)

// Payment transaction statuses
const (
	PaymentStatusSuccess  = "SUCCESS"
	PaymentStatusRefunded = "REFUNDED"
)

// PaymentService records mock payments against bookings. No gateway is
// involved: a confirmation with a matching amount always succeeds.
type PaymentService struct {
	payments *database.PaymentRepository
	bookings *database.BookingRepository
	logger   *logrus.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(payments *database.PaymentRepository, bookings *database.BookingRepository, logger *logrus.Logger) *PaymentService {
	return &PaymentService{payments: payments, bookings: bookings, logger: logger}
}

// Confirm records a successful mock payment for a booking. The amount must
// match the booking's total fare.
func (s *PaymentService) Confirm(pnr, userID string, req *models.ConfirmPaymentRequest) (*models.PaymentTransaction, error) {
	booking, err := s.bookings.GetByPNR(pnr)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, models.ErrNotFound
	}
	if booking.BookingStatus == models.BookingStatusCancelled {
		return nil, fmt.Errorf("%w: booking %s is cancelled", models.ErrInvalidInput, pnr)
	}
	if math.Abs(req.Amount-booking.TotalFare) > 0.01 {
		return nil, fmt.Errorf("%w: amount %.2f does not match fare %.2f", models.ErrInvalidInput, req.Amount, booking.TotalFare)
	}

	txn := &models.PaymentTransaction{
		ID:            uuid.New().String(),
		BookingID:     booking.ID,
		TransactionID: uuid.New().String(),
		Method:        req.Method,
		Amount:        req.Amount,
		Status:        PaymentStatusSuccess,
		PaidAt:        time.Now(),
	}
	if err := s.payments.Create(txn); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"pnr":    pnr,
		"method": txn.Method,
		"amount": txn.Amount,
	}).Info("Payment confirmed")
	return txn, nil
}

// Refund records a refund against a booking's payment. Refunds on unpaid
// bookings report ErrNotFound and the caller decides whether that matters.
func (s *PaymentService) Refund(booking *models.Booking, amount float64) error {
	original, err := s.payments.LatestByBooking(booking.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		return err
	}

	refund := &models.PaymentTransaction{
		ID:            uuid.New().String(),
		BookingID:     booking.ID,
		TransactionID: uuid.New().String(),
		Method:        original.Method,
		Amount:        amount,
		Status:        PaymentStatusRefunded,
		PaidAt:        time.Now(),
	}
	if err := s.payments.Create(refund); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"pnr":    booking.PNR,
		"amount": amount,
	}).Info("Refund recorded")
	return nil
}
