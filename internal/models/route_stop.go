package models

import (
	"time"
)

// TrainRouteStop is one operational stop of a running train: scheduled and
// actual times plus distance bookkeeping. Times are HH:MM clock values;
// day_count disambiguates midnight crossings (1 = origin departure day).
// The source stop has a nil arrival, the destination a nil departure.
type TrainRouteStop struct {
	ID                 string    `json:"id" db:"id"`
	TrainID            string    `json:"train_id" db:"train_id"`
	StationID          string    `json:"station_id" db:"station_id"`
	StationCode        string    `json:"station_code" db:"station_code"`
	Sequence           int       `json:"sequence" db:"sequence"`
	ScheduledArrival   *string   `json:"scheduled_arrival_time" db:"scheduled_arrival_time"`
	ScheduledDeparture *string   `json:"scheduled_departure_time" db:"scheduled_departure_time"`
	ActualArrival      *string   `json:"actual_arrival_time" db:"actual_arrival_time"`
	ActualDeparture    *string   `json:"actual_departure_time" db:"actual_departure_time"`
	HaltMinutes        int       `json:"halt_minutes" db:"halt_minutes"`
	DistanceFromSource float64   `json:"distance_from_source" db:"distance_from_source"`
	DayCount           int       `json:"day_count" db:"day_count"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateActualTimesRequest reports actual times at a stop (station master flow)
type UpdateActualTimesRequest struct {
	ActualArrival   string  `json:"actual_arrival_time" binding:"required"` // HH:MM
	ActualDeparture *string `json:"actual_departure_time,omitempty"`
}

// CreateTrainRouteRequest expands a route template into operational stops
type CreateTrainRouteRequest struct {
	TrainNumber     string `json:"train_number" binding:"required"`
	RouteTemplateID string `json:"route_template_id" binding:"required,uuid"`
	StartTime       string `json:"start_time" binding:"required"` // HH:MM
}
