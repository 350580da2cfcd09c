package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// RouteStopRepository handles operational train route stop data
type RouteStopRepository struct {
	db DB
}

// NewRouteStopRepository creates a new route stop repository
func NewRouteStopRepository(db DB) *RouteStopRepository {
	return &RouteStopRepository{db: db}
}

const insertStopQuery = `
	INSERT INTO train_route_stops (id, train_id, station_id, station_code, sequence,
		scheduled_arrival_time, scheduled_departure_time, halt_minutes, distance_from_source, day_count)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// ReplaceForTrain atomically replaces a train's operational stops
func (r *RouteStopRepository) ReplaceForTrain(trainID string, stops []models.TrainRouteStop) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM train_route_stops WHERE train_id = $1`, trainID); err != nil {
		return fmt.Errorf("failed to clear route stops: %w", err)
	}
	for _, stop := range stops {
		_, err := tx.Exec(insertStopQuery,
			stop.ID,
			stop.TrainID,
			stop.StationID,
			stop.StationCode,
			stop.Sequence,
			stop.ScheduledArrival,
			stop.ScheduledDeparture,
			stop.HaltMinutes,
			stop.DistanceFromSource,
			stop.DayCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert route stop: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit route stops: %w", err)
	}
	return nil
}

// ByTrain retrieves a train's stops ordered by sequence
func (r *RouteStopRepository) ByTrain(trainID string) ([]models.TrainRouteStop, error) {
	var stops []models.TrainRouteStop
	query := `SELECT * FROM train_route_stops WHERE train_id = $1 ORDER BY sequence`

	if err := r.db.Select(&stops, query, trainID); err != nil {
		return nil, fmt.Errorf("failed to list route stops: %w", err)
	}
	return stops, nil
}

// ByTrainAndStation retrieves one stop of a train by station code
func (r *RouteStopRepository) ByTrainAndStation(trainID, stationCode string) (*models.TrainRouteStop, error) {
	var stop models.TrainRouteStop
	query := `SELECT * FROM train_route_stops WHERE train_id = $1 AND station_code = $2`

	err := r.db.Get(&stop, query, trainID, strings.ToUpper(stationCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get route stop: %w", err)
	}
	return &stop, nil
}

// FromSequence retrieves a train's stops at or after the given sequence
func (r *RouteStopRepository) FromSequence(trainID string, sequence int) ([]models.TrainRouteStop, error) {
	var stops []models.TrainRouteStop
	query := `SELECT * FROM train_route_stops WHERE train_id = $1 AND sequence >= $2 ORDER BY sequence`

	if err := r.db.Select(&stops, query, trainID, sequence); err != nil {
		return nil, fmt.Errorf("failed to list downstream stops: %w", err)
	}
	return stops, nil
}

// UpdateTimes persists shifted scheduled and actual times for a batch of
// stops in one transaction, so a delay propagation applies atomically.
func (r *RouteStopRepository) UpdateTimes(stops []models.TrainRouteStop) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE train_route_stops
		SET scheduled_arrival_time = $1, scheduled_departure_time = $2,
		    actual_arrival_time = $3, actual_departure_time = $4,
		    day_count = $5, updated_at = NOW()
		WHERE id = $6`
	for _, stop := range stops {
		_, err := tx.Exec(query,
			stop.ScheduledArrival,
			stop.ScheduledDeparture,
			stop.ActualArrival,
			stop.ActualDeparture,
			stop.DayCount,
			stop.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update route stop: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit time updates: %w", err)
	}
	return nil
}
