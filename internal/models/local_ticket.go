package models

import (
	"errors"
	"strings"
	"time"
)

// Local (unreserved) ticket classes
const (
	LocalClassFirst  = "FC"
	LocalClassSecond = "SC"
)

// LocalTicket is a flat-rate unreserved ticket. No seat is allocated; the
// ticket is valid on the named train for the travel date.
type LocalTicket struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	TicketNumber    string    `json:"ticket_number" db:"ticket_number"`
	TrainID         string    `json:"train_id" db:"train_id"`
	SourceCode      string    `json:"source_station" db:"source_station_code"`
	DestinationCode string    `json:"destination_station" db:"destination_station_code"`
	TravelDate      time.Time `json:"travel_date" db:"travel_date"`
	ClassType       string    `json:"class_type" db:"class_type"`
	PassengerCount  int       `json:"passenger_count" db:"passenger_count"`
	TotalFare       float64   `json:"total_fare" db:"total_fare"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// CreateLocalTicketRequest represents the request to buy a local ticket
type CreateLocalTicketRequest struct {
	SourceCode      string `json:"source_station" binding:"required"`
	DestinationCode string `json:"destination_station" binding:"required"`
	ClassType       string `json:"class_type" binding:"required,oneof=FC SC"`
	PassengerCount  int    `json:"passenger_count" binding:"required,min=1,max=10"`
}

// Validate validates the create local ticket request
func (r *CreateLocalTicketRequest) Validate() error {
	r.SourceCode = strings.ToUpper(strings.TrimSpace(r.SourceCode))
	r.DestinationCode = strings.ToUpper(strings.TrimSpace(r.DestinationCode))
	if r.SourceCode == r.DestinationCode {
		return errors.New("source and destination stations must be different")
	}
	return nil
}
