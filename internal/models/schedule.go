package models

import (
	"strings"
	"time"
)

// Direction of a scheduled trip along its route template.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// TrainSchedule is one recurring trip of a train along a route template.
// days_of_week is a comma-separated list of day codes; stops_with_time is the
// generated per-stop timetable. Soft deleted via is_active.
type TrainSchedule struct {
	ID              string         `json:"id" db:"id"`
	TrainID         string         `json:"train_id" db:"train_id"`
	RouteTemplateID string         `json:"route_template_id" db:"route_template_id"`
	DaysOfWeek      string         `json:"days_of_week" db:"days_of_week"`
	StartTime       string         `json:"start_time" db:"start_time"` // HH:MM
	Direction       Direction      `json:"direction" db:"direction"`
	StopsWithTime   StopTimingList `json:"stops_with_time" db:"stops_with_time"`
	IsActive        bool           `json:"is_active" db:"is_active"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// Days returns the schedule's running days as a trimmed set.
func (s *TrainSchedule) Days() map[string]bool {
	days := make(map[string]bool)
	for _, d := range strings.Split(s.DaysOfWeek, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			days[d] = true
		}
	}
	return days
}

// EndTime returns the last stop's arrival time (HH:MM), the schedule's
// effective end of journey. Empty when the timetable is missing.
func (s *TrainSchedule) EndTime() string {
	if len(s.StopsWithTime) == 0 {
		return ""
	}
	last := s.StopsWithTime[len(s.StopsWithTime)-1]
	if last.ArrivalTime == nil {
		return ""
	}
	return *last.ArrivalTime
}

// FirstStopCode returns the station code of the schedule's first stop.
func (s *TrainSchedule) FirstStopCode() string {
	if len(s.StopsWithTime) == 0 {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(s.StopsWithTime[0].StationCode))
}

// LastStopCode returns the station code of the schedule's last stop.
func (s *TrainSchedule) LastStopCode() string {
	if len(s.StopsWithTime) == 0 {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(s.StopsWithTime[len(s.StopsWithTime)-1].StationCode))
}

// CreateScheduleRequest represents the request to create a train schedule
type CreateScheduleRequest struct {
	TrainNumber     string `json:"train_number" binding:"required"`
	RouteTemplateID string `json:"route_template_id" binding:"required,uuid"`
	DaysOfWeek      string `json:"days_of_week" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"` // HH:MM
	Direction       string `json:"direction" binding:"required,oneof=up down"`
}
