package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/config"
	"github.com/smartrail/train-reservation-backend/internal/models"
)

// GenerateTimings expands an ordered stop list into a per-stop timetable.
// The first stop departs at startTime; each arrival is the previous departure
// plus the leg's travel time at the given speed; intermediate stops halt for
// haltMinutes. Times render at minute granularity (HH:MM, seconds dropped).
// The returned day counts start at 1 and increment on each midnight crossing.
func GenerateTimings(stops []string, legDistances []int, startTime string, speedKmph float64, haltMinutes int) ([]models.StopTiming, []int, error) {
	if len(stops) < 2 {
		return nil, nil, fmt.Errorf("need at least 2 stops, got %d", len(stops))
	}
	if len(legDistances) != len(stops)-1 {
		return nil, nil, fmt.Errorf("got %d stops but %d leg distances", len(stops), len(legDistances))
	}
	if speedKmph <= 0 {
		return nil, nil, fmt.Errorf("speed must be positive, got %g", speedKmph)
	}
	startMinutes, err := parseClock(startTime)
	if err != nil {
		return nil, nil, err
	}

	cursor := time.Duration(startMinutes) * time.Minute
	halt := time.Duration(haltMinutes) * time.Minute

	timings := make([]models.StopTiming, len(stops))
	days := make([]int, len(stops))

	departure := clockOf(cursor)
	timings[0] = models.StopTiming{StationCode: normalizeCode(stops[0]), DepartureTime: &departure}
	days[0] = 1

	for i := 1; i < len(stops); i++ {
		travel := time.Duration(float64(legDistances[i-1]) / speedKmph * float64(time.Hour))
		cursor += travel
		arrival := clockOf(cursor)
		timing := models.StopTiming{StationCode: normalizeCode(stops[i]), ArrivalTime: &arrival}
		days[i] = 1 + int(cursor/(24*time.Hour))
		if i < len(stops)-1 {
			cursor += halt
			dep := clockOf(cursor)
			timing.DepartureTime = &dep
		}
		timings[i] = timing
	}
	return timings, days, nil
}

// clockOf renders a duration since midnight as HH:MM, truncating seconds.
func clockOf(d time.Duration) string {
	return formatClock(int(d / time.Minute))
}

// ValidateScheduleOverlap rejects a new [start, end] window that overlaps any
// existing active schedule's window on a shared running day. Ends are the
// last stop's arrival, never the raw start.
func ValidateScheduleOverlap(newStart, newEnd string, newDays map[string]bool, existing []models.TrainSchedule) error {
	for i := range existing {
		sched := &existing[i]
		shared := false
		for day := range sched.Days() {
			if newDays[day] {
				shared = true
				break
			}
		}
		if !shared {
			continue
		}
		existingEnd := sched.EndTime()
		if existingEnd == "" {
			continue
		}
		// zero-padded HH:MM compares correctly as strings
		if newStart < existingEnd && sched.StartTime < newEnd {
			return fmt.Errorf("%w: overlaps schedule %s-%s on shared days", models.ErrConflict, sched.StartTime, existingEnd)
		}
	}
	return nil
}

// ValidateDirectionAlternation enforces trip chaining: against the latest
// prior trip (by last-stop arrival at or before the new start), the new trip
// must run the opposite direction and depart from the station where the prior
// trip ended. The train's location is recomputed from schedule history; no
// current-location field is kept.
func ValidateDirectionAlternation(newStart string, newDirection models.Direction, newFirstStop string, existing []models.TrainSchedule) error {
	var prior *models.TrainSchedule
	for i := range existing {
		sched := &existing[i]
		end := sched.EndTime()
		if end == "" || end > newStart {
			continue
		}
		if prior == nil || end > prior.EndTime() {
			prior = sched
		}
	}
	if prior == nil {
		return nil
	}
	if prior.Direction == newDirection {
		return fmt.Errorf("%w: consecutive trips must alternate direction, prior trip already runs %s", models.ErrConflict, prior.Direction)
	}
	if prior.LastStopCode() != normalizeCode(newFirstStop) {
		return fmt.Errorf("%w: new trip must depart from %s where the prior trip ended", models.ErrConflict, prior.LastStopCode())
	}
	return nil
}

// scheduleStore is the slice of persistence the schedule service needs.
type scheduleStore interface {
	ActiveByTrain(trainID string) ([]models.TrainSchedule, error)
	CreateChecked(schedule *models.TrainSchedule, check func(existing []models.TrainSchedule) error) error
	Deactivate(id string) error
}

// trainLookup resolves trains by number.
type trainLookup interface {
	GetByNumber(trainNumber string) (*models.Train, error)
}

// templateLookup resolves route templates by ID.
type templateLookup interface {
	GetByID(id string) (*models.RouteTemplate, error)
}

// distanceResolver computes per-leg distances for a template's stops.
type distanceResolver interface {
	SegmentDistances(template *models.RouteTemplate) ([]int, error)
}

// ScheduleService creates and validates recurring train schedules.
type ScheduleService struct {
	schedules scheduleStore
	trains    trainLookup
	templates templateLookup
	distances distanceResolver
	booking   config.BookingConfig
	logger    *logrus.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(schedules scheduleStore, trains trainLookup, templates templateLookup, distances distanceResolver, booking config.BookingConfig, logger *logrus.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		trains:    trains,
		templates: templates,
		distances: distances,
		booking:   booking,
		logger:    logger,
	}
}

// Create validates and persists a new schedule. Overlap and alternation are
// re-checked inside the insert transaction so concurrent creates for the same
// train cannot both slip past the checks.
func (s *ScheduleService) Create(req *models.CreateScheduleRequest) (*models.TrainSchedule, error) {
	train, err := s.trains.GetByNumber(req.TrainNumber)
	if err != nil {
		return nil, err
	}
	template, err := s.templates.GetByID(req.RouteTemplateID)
	if err != nil {
		return nil, err
	}

	days, err := normalizeDays(req.DaysOfWeek)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	if _, err := parseClock(req.StartTime); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	legs, err := s.distances.SegmentDistances(template)
	if err != nil {
		return nil, err
	}
	timings, _, err := GenerateTimings(template.Stops, legs, req.StartTime, s.booking.AverageSpeedKmph, s.booking.DefaultHaltMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	schedule := &models.TrainSchedule{
		ID:              uuid.New().String(),
		TrainID:         train.ID,
		RouteTemplateID: template.ID,
		DaysOfWeek:      strings.Join(days, ","),
		StartTime:       formatClock(mustClock(req.StartTime)),
		Direction:       models.Direction(req.Direction),
		StopsWithTime:   timings,
		IsActive:        true,
	}

	daySet := schedule.Days()
	check := func(existing []models.TrainSchedule) error {
		if err := ValidateScheduleOverlap(schedule.StartTime, schedule.EndTime(), daySet, existing); err != nil {
			return err
		}
		return ValidateDirectionAlternation(schedule.StartTime, schedule.Direction, schedule.FirstStopCode(), existing)
	}
	if err := s.schedules.CreateChecked(schedule, check); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"train":     train.TrainNumber,
		"template":  template.Name,
		"start":     schedule.StartTime,
		"direction": schedule.Direction,
	}).Info("Schedule created")
	return schedule, nil
}

// ListByTrain returns a train's active schedules
func (s *ScheduleService) ListByTrain(trainNumber string) ([]models.TrainSchedule, error) {
	train, err := s.trains.GetByNumber(trainNumber)
	if err != nil {
		return nil, err
	}
	return s.schedules.ActiveByTrain(train.ID)
}

// Deactivate soft-deletes a schedule
func (s *ScheduleService) Deactivate(id string) error {
	return s.schedules.Deactivate(id)
}

// normalizeDays parses a comma-separated day list against the canonical day
// codes, preserving week order and dropping duplicates.
func normalizeDays(daysOfWeek string) ([]string, error) {
	requested := make(map[string]bool)
	for _, raw := range strings.Split(daysOfWeek, ",") {
		day := strings.TrimSpace(raw)
		if day == "" {
			continue
		}
		valid := false
		for _, code := range models.DayCodes {
			if strings.EqualFold(day, code) {
				requested[code] = true
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("invalid day code %q", day)
		}
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("days_of_week must name at least one day")
	}
	days := make([]string, 0, len(requested))
	for _, code := range models.DayCodes {
		if requested[code] {
			days = append(days, code)
		}
	}
	return days, nil
}

// mustClock parses an already-validated HH:MM value.
func mustClock(value string) int {
	minutes, _ := parseClock(value)
	return minutes
}
