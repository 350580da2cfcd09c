package database

import (
	"fmt"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// ScheduleRepository handles train schedule data operations
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `id, train_id, route_template_id, days_of_week, start_time, direction, stops_with_time, is_active, created_at, updated_at`

// ActiveByTrain retrieves the active schedules of a train, oldest first
func (r *ScheduleRepository) ActiveByTrain(trainID string) ([]models.TrainSchedule, error) {
	var schedules []models.TrainSchedule
	query := `SELECT ` + scheduleColumns + ` FROM train_schedules WHERE train_id = $1 AND is_active = true ORDER BY created_at`

	if err := r.db.Select(&schedules, query, trainID); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// GetByID retrieves a schedule by its ID
func (r *ScheduleRepository) GetByID(id string) (*models.TrainSchedule, error) {
	var schedule models.TrainSchedule
	query := `SELECT ` + scheduleColumns + ` FROM train_schedules WHERE id = $1`

	if err := r.db.Get(&schedule, query, id); err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

// CreateChecked inserts a schedule after re-validating it against the train's
// existing active schedules under a row lock, so two concurrent inserts for
// the same train cannot both pass the overlap checks.
func (r *ScheduleRepository) CreateChecked(schedule *models.TrainSchedule, check func(existing []models.TrainSchedule) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + scheduleColumns + ` FROM train_schedules WHERE train_id = $1 AND is_active = true ORDER BY created_at FOR UPDATE`
	rows, err := tx.Query(query, schedule.TrainID)
	if err != nil {
		return fmt.Errorf("failed to lock schedules: %w", err)
	}

	var existing []models.TrainSchedule
	for rows.Next() {
		var s models.TrainSchedule
		err := rows.Scan(
			&s.ID,
			&s.TrainID,
			&s.RouteTemplateID,
			&s.DaysOfWeek,
			&s.StartTime,
			&s.Direction,
			&s.StopsWithTime,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan schedule: %w", err)
		}
		existing = append(existing, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to read schedules: %w", err)
	}
	rows.Close()

	if err := check(existing); err != nil {
		return err
	}

	insert := `
		INSERT INTO train_schedules (id, train_id, route_template_id, days_of_week, start_time, direction, stops_with_time, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = tx.Exec(insert,
		schedule.ID,
		schedule.TrainID,
		schedule.RouteTemplateID,
		schedule.DaysOfWeek,
		schedule.StartTime,
		schedule.Direction,
		schedule.StopsWithTime,
		schedule.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schedule: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a schedule
func (r *ScheduleRepository) Deactivate(id string) error {
	query := `UPDATE train_schedules SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate schedule: %w", err)
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
