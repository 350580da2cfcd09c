package models

import (
	"errors"
	"strings"
	"time"
)

// Station represents a railway station. Soft deleted via is_active.
type Station struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Code            string    `json:"code" db:"code"`
	City            string    `json:"city" db:"city"`
	State           string    `json:"state" db:"state"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	StationMasterID *string   `json:"station_master_id,omitempty" db:"station_master_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreateStationRequest represents the request to create a station
type CreateStationRequest struct {
	Name  string `json:"name" binding:"required,min=3"`
	Code  string `json:"code" binding:"required"`
	City  string `json:"city" binding:"required"`
	State string `json:"state" binding:"required"`
}

// AssignStationMasterRequest assigns a station master user to a station
type AssignStationMasterRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// StationFilter narrows a station listing. Zero value lists all active
// stations.
type StationFilter struct {
	City            string
	State           string
	IncludeInactive bool
}

// Validate validates the create station request
func (r *CreateStationRequest) Validate() error {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	if len(r.Code) < 2 || len(r.Code) > 5 {
		return errors.New("code must be 2-5 characters")
	}
	for _, c := range r.Code {
		if c < 'A' || c > 'Z' {
			return errors.New("code must contain only uppercase letters")
		}
	}
	return nil
}
