package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// RouteTemplateRepository handles route template data operations
type RouteTemplateRepository struct {
	db DB
}

// NewRouteTemplateRepository creates a new route template repository
func NewRouteTemplateRepository(db DB) *RouteTemplateRepository {
	return &RouteTemplateRepository{db: db}
}

// Create inserts a new route template
func (r *RouteTemplateRepository) Create(template *models.RouteTemplate) error {
	query := `
		INSERT INTO route_templates (id, name, from_code, to_code, category, stops)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query,
		template.ID,
		template.Name,
		template.FromCode,
		template.ToCode,
		template.Category,
		template.Stops,
	).Scan(&template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route template: %w", err)
	}
	return nil
}

// GetByID retrieves a route template by its ID
func (r *RouteTemplateRepository) GetByID(id string) (*models.RouteTemplate, error) {
	var template models.RouteTemplate
	query := `SELECT * FROM route_templates WHERE id = $1`

	err := r.db.Get(&template, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get route template: %w", err)
	}
	return &template, nil
}

// Exists checks whether a template already covers the given endpoints and
// category
func (r *RouteTemplateRepository) Exists(fromCode, toCode string, category models.RouteTemplateCategory) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM route_templates WHERE from_code = $1 AND to_code = $2 AND category = $3)`

	if err := r.db.Get(&exists, query, fromCode, toCode, category); err != nil {
		return false, fmt.Errorf("failed to check route template: %w", err)
	}
	return exists, nil
}

// List retrieves all route templates, newest first
func (r *RouteTemplateRepository) List() ([]models.RouteTemplate, error) {
	var templates []models.RouteTemplate
	query := `SELECT * FROM route_templates ORDER BY created_at DESC`

	if err := r.db.Select(&templates, query); err != nil {
		return nil, fmt.Errorf("failed to list route templates: %w", err)
	}
	return templates, nil
}
