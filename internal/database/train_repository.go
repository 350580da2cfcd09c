package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// TrainRepository handles train and train class data operations
type TrainRepository struct {
	db DB
}

// NewTrainRepository creates a new train repository
func NewTrainRepository(db DB) *TrainRepository {
	return &TrainRepository{db: db}
}

// Create inserts a train and its class capacities in one transaction
func (r *TrainRepository) Create(train *models.Train, classes []models.TrainClass) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO trains (id, train_number, name, train_type, running_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = tx.Exec(query,
		train.ID,
		train.TrainNumber,
		train.Name,
		train.TrainType,
		train.RunningDays,
		train.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create train: %w", err)
	}

	for _, class := range classes {
		_, err := tx.Exec(
			`INSERT INTO train_classes (id, train_id, class_type, seat_capacity) VALUES ($1, $2, $3, $4)`,
			class.ID, class.TrainID, class.ClassType, class.SeatCapacity,
		)
		if err != nil {
			return fmt.Errorf("failed to create train class: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit train: %w", err)
	}
	return nil
}

// GetByID retrieves a train by its ID
func (r *TrainRepository) GetByID(id string) (*models.Train, error) {
	var train models.Train
	query := `SELECT * FROM trains WHERE id = $1`

	err := r.db.Get(&train, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get train: %w", err)
	}
	return &train, nil
}

// GetByNumber retrieves an active train by its 5-digit number
func (r *TrainRepository) GetByNumber(trainNumber string) (*models.Train, error) {
	var train models.Train
	query := `SELECT * FROM trains WHERE train_number = $1 AND is_active = true`

	err := r.db.Get(&train, query, trainNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get train: %w", err)
	}
	return &train, nil
}

// List retrieves all trains, optionally including deactivated ones
func (r *TrainRepository) List(includeInactive bool) ([]models.Train, error) {
	var trains []models.Train
	query := `SELECT * FROM trains ORDER BY train_number`
	if !includeInactive {
		query = `SELECT * FROM trains WHERE is_active = true ORDER BY train_number`
	}

	if err := r.db.Select(&trains, query); err != nil {
		return nil, fmt.Errorf("failed to list trains: %w", err)
	}
	return trains, nil
}

// NumberExists checks whether a train number is already taken
func (r *TrainRepository) NumberExists(trainNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM trains WHERE train_number = $1)`

	if err := r.db.Get(&exists, query, trainNumber); err != nil {
		return false, fmt.Errorf("failed to check train number: %w", err)
	}
	return exists, nil
}

// Deactivate soft-deletes a train
func (r *TrainRepository) Deactivate(id string) error {
	query := `UPDATE trains SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate train: %w", err)
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

// GetClasses retrieves the class capacities of a train
func (r *TrainRepository) GetClasses(trainID string) ([]models.TrainClass, error) {
	var classes []models.TrainClass
	query := `SELECT * FROM train_classes WHERE train_id = $1 ORDER BY class_type`

	if err := r.db.Select(&classes, query, trainID); err != nil {
		return nil, fmt.Errorf("failed to list train classes: %w", err)
	}
	return classes, nil
}

// GetClassCapacity retrieves the seat capacity of one class on a train
func (r *TrainRepository) GetClassCapacity(trainID, classType string) (int, error) {
	var capacity int
	query := `SELECT seat_capacity FROM train_classes WHERE train_id = $1 AND class_type = $2`

	err := r.db.Get(&capacity, query, trainID, classType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("failed to get class capacity: %w", err)
	}
	return capacity, nil
}
