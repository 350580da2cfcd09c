package models

import (
	"errors"
	"strings"
	"time"
)

// BookingStatus is the aggregate status of a booking; per-passenger statuses
// use the same values. The booking carries the worst tier among its
// passengers.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusRAC       BookingStatus = "RAC"
	BookingStatusWaitlist  BookingStatus = "WL"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Reserved booking class types
const (
	ClassGeneral = "General"
	ClassSleeper = "Sleeper"
	ClassAC      = "AC"
)

// Quota categories applied as fare multipliers
const (
	QuotaGeneral       = "General"
	QuotaLadies        = "Ladies"
	QuotaSeniorCitizen = "Senior_Citizen"
	QuotaTatkal        = "Tatkal"
)

// Canonical berth types in assignment order
var BerthTypes = []string{"LB", "MB", "UB", "SL", "SU"}

// Gender values accepted for passengers
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// Booking represents a reserved-train booking. Owns its passengers.
type Booking struct {
	ID              string        `json:"id" db:"id"`
	UserID          string        `json:"user_id" db:"user_id"`
	TrainID         string        `json:"train_id" db:"train_id"`
	SourceCode      string        `json:"source_station" db:"source_station_code"`
	DestinationCode string        `json:"destination_station" db:"destination_station_code"`
	TravelDate      time.Time     `json:"travel_date" db:"travel_date"`
	ClassType       string        `json:"class_type" db:"class_type"`
	Quota           string        `json:"quota" db:"quota"`
	BookingStatus   BookingStatus `json:"booking_status" db:"booking_status"`
	TotalFare       float64       `json:"total_fare" db:"total_fare"`
	PNR             string        `json:"pnr_number" db:"pnr_number"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// CanBeCancelled checks if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.BookingStatus != BookingStatusCancelled
}

// Passenger belongs to one booking. Seat assignment and tier are mutated
// exclusively by the seat inventory.
type Passenger struct {
	ID              string        `json:"id" db:"id"`
	BookingID       string        `json:"booking_id" db:"booking_id"`
	Name            string        `json:"name" db:"name"`
	Age             int           `json:"age" db:"age"`
	Gender          string        `json:"gender" db:"gender"`
	BerthPreference string        `json:"berth_preference" db:"berth_preference"`
	SeatNumber      *string       `json:"seat_number,omitempty" db:"seat_number"`
	BerthType       *string       `json:"berth_type,omitempty" db:"berth_type"`
	Status          BookingStatus `json:"booking_status" db:"booking_status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}

// CreateBookingRequest represents the request to create a reserved booking
type CreateBookingRequest struct {
	TrainNumber     string                 `json:"train_number" binding:"required"`
	SourceCode      string                 `json:"source_station" binding:"required"`
	DestinationCode string                 `json:"destination_station" binding:"required"`
	TravelDate      string                 `json:"travel_date" binding:"required"` // YYYY-MM-DD
	ClassType       string                 `json:"class_type" binding:"required,oneof=General Sleeper AC"`
	Quota           string                 `json:"quota" binding:"required,oneof=General Ladies Senior_Citizen Tatkal"`
	Passengers      []CreatePassengerInput `json:"passengers" binding:"required,min=1,max=6,dive"`
}

// CreatePassengerInput declares one passenger on a booking request
type CreatePassengerInput struct {
	Name            string `json:"name" binding:"required"`
	Age             int    `json:"age" binding:"required,min=1,max=120"`
	Gender          string `json:"gender" binding:"required,oneof=M F O"`
	BerthPreference string `json:"berth_preference" binding:"required,oneof=LB MB UB SL SU"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	r.SourceCode = strings.ToUpper(strings.TrimSpace(r.SourceCode))
	r.DestinationCode = strings.ToUpper(strings.TrimSpace(r.DestinationCode))
	if r.SourceCode == r.DestinationCode {
		return errors.New("source and destination stations must be different")
	}
	if _, err := time.Parse("2006-01-02", r.TravelDate); err != nil {
		return errors.New("travel_date must be YYYY-MM-DD")
	}
	return nil
}

// PaymentTransaction records a (mocked) payment against a booking.
type PaymentTransaction struct {
	ID            string    `json:"id" db:"id"`
	BookingID     string    `json:"booking_id" db:"booking_id"`
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	Method        string    `json:"method" db:"method"` // UPI, WALLET
	Amount        float64   `json:"amount" db:"amount"`
	Status        string    `json:"status" db:"status"` // SUCCESS, FAILED, REFUNDED
	PaidAt        time.Time `json:"paid_at" db:"paid_at"`
}

// ConfirmPaymentRequest represents the request to confirm a mock payment
type ConfirmPaymentRequest struct {
	Method string  `json:"method" binding:"required,oneof=UPI WALLET"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
