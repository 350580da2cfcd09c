package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// routeStopStore is the slice of persistence the delay service needs.
type routeStopStore interface {
	ByTrainAndStation(trainID, stationCode string) (*models.TrainRouteStop, error)
	FromSequence(trainID string, sequence int) ([]models.TrainRouteStop, error)
	UpdateTimes(stops []models.TrainRouteStop) error
}

// DelayService records actual times at a stop and cascades delays downstream.
type DelayService struct {
	stops  routeStopStore
	trains trainLookup
	logger *logrus.Logger
}

// NewDelayService creates a new delay service
func NewDelayService(stops routeStopStore, trains trainLookup, logger *logrus.Logger) *DelayService {
	return &DelayService{stops: stops, trains: trains, logger: logger}
}

// UpdateActualArrival records the actual arrival (and optionally departure) at
// a stop. A positive delay against the scheduled departure shifts every
// downstream stop's scheduled times, shifts any actual times already
// recorded there, and back-fills projected actuals for stops the train has
// not reached yet. The shift is the difference against the previously
// recorded actual, so reporting the same time twice applies the delay once.
// Returns the full set of updated stops, reported stop first.
func (s *DelayService) UpdateActualArrival(trainNumber, stationCode string, req *models.UpdateActualTimesRequest) ([]models.TrainRouteStop, error) {
	train, err := s.trains.GetByNumber(trainNumber)
	if err != nil {
		return nil, err
	}
	stop, err := s.stops.ByTrainAndStation(train.ID, stationCode)
	if err != nil {
		return nil, err
	}
	if stop.ScheduledArrival == nil {
		return nil, fmt.Errorf("%w: %s is the source stop, it has no arrival", models.ErrInvalidInput, stationCode)
	}
	if _, err := parseClock(req.ActualArrival); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	actualArrival := req.ActualArrival
	var actualDeparture *string
	switch {
	case req.ActualDeparture != nil:
		if _, err := parseClock(*req.ActualDeparture); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		actualDeparture = req.ActualDeparture
	case stop.ScheduledDeparture != nil:
		// default: departure after the stop's usual halt
		dep, _, err := shiftClock(actualArrival, stop.HaltMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		actualDeparture = &dep
	}

	effective, newDelay, err := s.effectiveDelay(stop, actualDeparture)
	if err != nil {
		return nil, err
	}

	stop.ActualArrival = &actualArrival
	stop.ActualDeparture = actualDeparture
	updated := []models.TrainRouteStop{*stop}

	if effective > 0 && stop.ScheduledDeparture != nil {
		downstream, err := s.stops.FromSequence(train.ID, stop.Sequence+1)
		if err != nil {
			return nil, err
		}
		for i := range downstream {
			next := &downstream[i]
			if err := shiftStop(next, effective); err != nil {
				return nil, err
			}
			updated = append(updated, *next)
		}
	}

	if err := s.stops.UpdateTimes(updated); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"train":       train.TrainNumber,
		"station":     stop.StationCode,
		"delay_min":   newDelay,
		"shifted_min": effective,
		"stops":       len(updated),
	}).Info("Actual times recorded")
	return updated, nil
}

// effectiveDelay computes the delay to cascade: the new delay against the
// scheduled departure minus whatever delay an earlier report already applied.
func (s *DelayService) effectiveDelay(stop *models.TrainRouteStop, actualDeparture *string) (effective, newDelay int, err error) {
	if stop.ScheduledDeparture == nil || actualDeparture == nil {
		return 0, 0, nil
	}
	newDelay, err = clockDiff(*stop.ScheduledDeparture, *actualDeparture)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	applied := 0
	if stop.ActualDeparture != nil {
		applied, err = clockDiff(*stop.ScheduledDeparture, *stop.ActualDeparture)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
	}
	return newDelay - applied, newDelay, nil
}

// shiftStop moves a downstream stop's scheduled times forward by the delay,
// shifts recorded actuals along, and projects actuals from the shifted
// schedule where none exist yet. Day count follows the arrival across
// midnight.
func shiftStop(stop *models.TrainRouteStop, delayMinutes int) error {
	if stop.ScheduledArrival != nil {
		shifted, days, err := shiftClock(*stop.ScheduledArrival, delayMinutes)
		if err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		stop.ScheduledArrival = &shifted
		stop.DayCount += days
	}
	if stop.ScheduledDeparture != nil {
		shifted, _, err := shiftClock(*stop.ScheduledDeparture, delayMinutes)
		if err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		stop.ScheduledDeparture = &shifted
	}

	if stop.ActualArrival != nil {
		shifted, _, err := shiftClock(*stop.ActualArrival, delayMinutes)
		if err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		stop.ActualArrival = &shifted
		if stop.ActualDeparture != nil {
			dep, _, err := shiftClock(*stop.ActualDeparture, delayMinutes)
			if err != nil {
				return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
			}
			stop.ActualDeparture = &dep
		}
		return nil
	}

	// projection: the shifted schedule is the best estimate for a stop the
	// train has not reached
	if stop.ScheduledArrival != nil {
		arr := *stop.ScheduledArrival
		stop.ActualArrival = &arr
	}
	if stop.ScheduledDeparture != nil {
		dep := *stop.ScheduledDeparture
		stop.ActualDeparture = &dep
	}
	return nil
}
