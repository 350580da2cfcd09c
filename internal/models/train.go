package models

import (
	"time"
)

// Train types mirror the admissible values of the train_type column.
const (
	TrainTypeExpress   = "Express"
	TrainTypePassenger = "Passenger"
	TrainTypeSuperfast = "Superfast"
)

// Canonical running-day codes, Monday first.
var DayCodes = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Train represents a train with its number, name, type and running days.
// Soft deleted via is_active. Train numbers are generated 5-digit strings.
type Train struct {
	ID          string      `json:"id" db:"id"`
	TrainNumber string      `json:"train_number" db:"train_number"`
	Name        string      `json:"name" db:"name"`
	TrainType   string      `json:"train_type" db:"train_type"`
	RunningDays StringArray `json:"running_days" db:"running_days"`
	IsActive    bool        `json:"is_active" db:"is_active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// RunsOn reports whether the train runs on the given day code (e.g. "Mon").
func (t *Train) RunsOn(dayCode string) bool {
	for _, d := range t.RunningDays {
		if d == dayCode {
			return true
		}
	}
	return false
}

// TrainClass represents a class (e.g. AC, Sleeper) and its seat capacity on a
// train.
type TrainClass struct {
	ID           string `json:"id" db:"id"`
	TrainID      string `json:"train_id" db:"train_id"`
	ClassType    string `json:"class_type" db:"class_type"`
	SeatCapacity int    `json:"seat_capacity" db:"seat_capacity"`
}

// CreateTrainRequest represents the request to create a train
type CreateTrainRequest struct {
	Name        string             `json:"name" binding:"required,min=3"`
	TrainType   string             `json:"train_type" binding:"required,oneof=Express Passenger Superfast"`
	RunningDays []string           `json:"running_days" binding:"required,min=1,max=7"`
	Classes     []TrainClassInput  `json:"classes,omitempty"`
}

// TrainClassInput declares one class capacity when creating a train
type TrainClassInput struct {
	ClassType    string `json:"class_type" binding:"required,oneof=General Sleeper AC"`
	SeatCapacity int    `json:"seat_capacity" binding:"required,min=1"`
}
