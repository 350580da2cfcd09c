package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

// RouteEdgeRepository handles route edge data operations
type RouteEdgeRepository struct {
	db DB
}

// NewRouteEdgeRepository creates a new route edge repository
func NewRouteEdgeRepository(db DB) *RouteEdgeRepository {
	return &RouteEdgeRepository{db: db}
}

const insertEdgeQuery = `
	INSERT INTO route_edges (id, from_station_id, to_station_id, from_code, to_code, distance, is_bidirectional, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Create inserts a new route edge
func (r *RouteEdgeRepository) Create(edge *models.RouteEdge) error {
	query := insertEdgeQuery + ` RETURNING created_at, updated_at`

	err := r.db.QueryRow(query,
		edge.ID,
		edge.FromStationID,
		edge.ToStationID,
		edge.FromCode,
		edge.ToCode,
		edge.Distance,
		edge.IsBidirectional,
		edge.IsActive,
	).Scan(&edge.CreatedAt, &edge.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route edge: %w", err)
	}
	return nil
}

// ActiveEdges retrieves every active edge of the route graph
func (r *RouteEdgeRepository) ActiveEdges() ([]models.RouteEdge, error) {
	var edges []models.RouteEdge
	query := `SELECT * FROM route_edges WHERE is_active = true ORDER BY created_at`

	if err := r.db.Select(&edges, query); err != nil {
		return nil, fmt.Errorf("failed to list route edges: %w", err)
	}
	return edges, nil
}

// DirectEdge retrieves the active edge directly connecting two stations.
// A bidirectional edge matches regardless of orientation.
func (r *RouteEdgeRepository) DirectEdge(fromCode, toCode string) (*models.RouteEdge, error) {
	var edge models.RouteEdge
	query := `
		SELECT * FROM route_edges
		WHERE is_active = true
		  AND ((from_code = $1 AND to_code = $2)
		    OR (is_bidirectional = true AND from_code = $2 AND to_code = $1))
		LIMIT 1`

	err := r.db.Get(&edge, query, strings.ToUpper(fromCode), strings.ToUpper(toCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get route edge: %w", err)
	}
	return &edge, nil
}

// ActiveInbound retrieves active edges arriving at a station
func (r *RouteEdgeRepository) ActiveInbound(stationID string) ([]models.RouteEdge, error) {
	var edges []models.RouteEdge
	query := `SELECT * FROM route_edges WHERE to_station_id = $1 AND is_active = true`

	if err := r.db.Select(&edges, query, stationID); err != nil {
		return nil, fmt.Errorf("failed to list inbound edges: %w", err)
	}
	return edges, nil
}

// ActiveOutbound retrieves active edges leaving a station
func (r *RouteEdgeRepository) ActiveOutbound(stationID string) ([]models.RouteEdge, error) {
	var edges []models.RouteEdge
	query := `SELECT * FROM route_edges WHERE from_station_id = $1 AND is_active = true`

	if err := r.db.Select(&edges, query, stationID); err != nil {
		return nil, fmt.Errorf("failed to list outbound edges: %w", err)
	}
	return edges, nil
}

// ReplaceWithSplit atomically deactivates a direct edge and inserts the two
// edges that split it through an intermediate station. The two distances must
// sum to the original edge's distance; the caller guarantees that.
func (r *RouteEdgeRepository) ReplaceWithSplit(oldEdgeID string, first, second *models.RouteEdge) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE route_edges SET is_active = false, updated_at = NOW() WHERE id = $1`, oldEdgeID); err != nil {
		return fmt.Errorf("failed to deactivate split edge: %w", err)
	}
	for _, edge := range []*models.RouteEdge{first, second} {
		_, err := tx.Exec(insertEdgeQuery,
			edge.ID,
			edge.FromStationID,
			edge.ToStationID,
			edge.FromCode,
			edge.ToCode,
			edge.Distance,
			edge.IsBidirectional,
			edge.IsActive,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split edge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit edge split: %w", err)
	}
	return nil
}

// DeactivateStationWithBypass atomically deactivates a station together with
// its single inbound and outbound edges and inserts the bypass edge joining
// its neighbours. Used when a through-station with exactly one active edge on
// each side is removed from the graph.
func (r *RouteEdgeRepository) DeactivateStationWithBypass(stationID, inEdgeID, outEdgeID string, bypass *models.RouteEdge) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE stations SET is_active = false, updated_at = NOW() WHERE id = $1`, stationID); err != nil {
		return fmt.Errorf("failed to deactivate station: %w", err)
	}
	if _, err := tx.Exec(`UPDATE route_edges SET is_active = false, updated_at = NOW() WHERE id IN ($1, $2)`, inEdgeID, outEdgeID); err != nil {
		return fmt.Errorf("failed to deactivate adjacent edges: %w", err)
	}
	_, err = tx.Exec(insertEdgeQuery,
		bypass.ID,
		bypass.FromStationID,
		bypass.ToStationID,
		bypass.FromCode,
		bypass.ToCode,
		bypass.Distance,
		bypass.IsBidirectional,
		bypass.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bypass edge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit station bypass: %w", err)
	}
	return nil
}
