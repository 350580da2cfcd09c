package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// StationRepository handles station data operations
type StationRepository struct {
	db DB
}

// NewStationRepository creates a new station repository
func NewStationRepository(db DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create inserts a new station
func (r *StationRepository) Create(station *models.Station) error {
	query := `
		INSERT INTO stations (id, name, code, city, state, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query,
		station.ID,
		station.Name,
		station.Code,
		station.City,
		station.State,
		station.IsActive,
	).Scan(&station.CreatedAt, &station.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create station: %w", err)
	}
	return nil
}

// GetByID retrieves a station by its ID
func (r *StationRepository) GetByID(id string) (*models.Station, error) {
	var station models.Station
	query := `SELECT * FROM stations WHERE id = $1`

	err := r.db.Get(&station, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	return &station, nil
}

// GetByCode retrieves an active station by its code
func (r *StationRepository) GetByCode(code string) (*models.Station, error) {
	var station models.Station
	query := `SELECT * FROM stations WHERE code = $1 AND is_active = true`

	err := r.db.Get(&station, query, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	return &station, nil
}

// List retrieves stations matching the filter, ordered by code
func (r *StationRepository) List(filter *models.StationFilter) ([]models.Station, error) {
	query := `SELECT * FROM stations`
	var conditions []string
	var args []interface{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active = true")
	}
	if filter.City != "" {
		args = append(args, filter.City)
		conditions = append(conditions, fmt.Sprintf("LOWER(city) = LOWER($%d)", len(args)))
	}
	if filter.State != "" {
		args = append(args, filter.State)
		conditions = append(conditions, fmt.Sprintf("LOWER(state) = LOWER($%d)", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY code"

	var stations []models.Station
	if err := r.db.Select(&stations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	return stations, nil
}

// CodeExists checks whether a station code is already taken
func (r *StationRepository) CodeExists(code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM stations WHERE code = $1)`

	if err := r.db.Get(&exists, query, strings.ToUpper(code)); err != nil {
		return false, fmt.Errorf("failed to check station code: %w", err)
	}
	return exists, nil
}

// NameExists checks whether a station name is already taken,
// case-insensitively and including deactivated stations
func (r *StationRepository) NameExists(name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM stations WHERE LOWER(name) = LOWER($1))`

	if err := r.db.Get(&exists, query, name); err != nil {
		return false, fmt.Errorf("failed to check station name: %w", err)
	}
	return exists, nil
}

// Deactivate soft-deletes a station
func (r *StationRepository) Deactivate(id string) error {
	query := `UPDATE stations SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate station: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AssignStationMaster binds a station master user to a station
func (r *StationRepository) AssignStationMaster(stationID, userID string) error {
	query := `UPDATE stations SET station_master_id = $1, updated_at = NOW() WHERE id = $2 AND is_active = true`

	result, err := r.db.Exec(query, userID, stationID)
	if err != nil {
		return fmt.Errorf("failed to assign station master: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetByStationMaster retrieves the station managed by the given user
func (r *StationRepository) GetByStationMaster(userID string) (*models.Station, error) {
	var station models.Station
	query := `SELECT * FROM stations WHERE station_master_id = $1 AND is_active = true`

	err := r.db.Get(&station, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	return &station, nil
}
