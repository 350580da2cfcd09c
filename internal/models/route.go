package models

import (
	"errors"
	"strings"
	"time"
)

// RouteTemplateCategory distinguishes computed (local) from explicit (fast) templates
type RouteTemplateCategory string

const (
	RouteCategoryLocal RouteTemplateCategory = "local"
	RouteCategoryFast  RouteTemplateCategory = "fast"
)

// RouteEdge is a single weighted connection between two stations in the route
// graph. Soft deleted via is_active; split and bypass operations deactivate
// edges and create replacements atomically.
type RouteEdge struct {
	ID              string    `json:"id" db:"id"`
	FromStationID   string    `json:"from_station_id" db:"from_station_id"`
	ToStationID     string    `json:"to_station_id" db:"to_station_id"`
	FromCode        string    `json:"from_code" db:"from_code"`
	ToCode          string    `json:"to_code" db:"to_code"`
	Distance        int       `json:"distance" db:"distance"`
	IsBidirectional bool      `json:"is_bidirectional" db:"is_bidirectional"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// RouteTemplate is a named, reusable station path between two stations.
// For the local category the stop list is computed by shortest path over the
// edge graph; for fast it is supplied explicitly.
type RouteTemplate struct {
	ID        string                `json:"id" db:"id"`
	Name      string                `json:"name" db:"name"`
	FromCode  string                `json:"from_code" db:"from_code"`
	ToCode    string                `json:"to_code" db:"to_code"`
	Category  RouteTemplateCategory `json:"category" db:"category"`
	Stops     StringArray           `json:"stops" db:"stops"`
	CreatedAt time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt time.Time             `json:"updated_at" db:"updated_at"`
}

// CreateRouteEdgeRequest represents the request to create a route edge
type CreateRouteEdgeRequest struct {
	FromCode        string `json:"from_station" binding:"required"`
	ToCode          string `json:"to_station" binding:"required"`
	Distance        int    `json:"distance" binding:"required"`
	IsBidirectional *bool  `json:"is_bidirectional,omitempty"`
}

// Validate validates the create route edge request
func (r *CreateRouteEdgeRequest) Validate() error {
	r.FromCode = strings.ToUpper(strings.TrimSpace(r.FromCode))
	r.ToCode = strings.ToUpper(strings.TrimSpace(r.ToCode))
	if r.FromCode == r.ToCode {
		return errors.New("from_station and to_station must be different")
	}
	if r.Distance <= 0 {
		return errors.New("distance must be a positive integer")
	}
	return nil
}

// Bidirectional resolves the optional flag; edges default to bidirectional.
func (r *CreateRouteEdgeRequest) Bidirectional() bool {
	if r.IsBidirectional == nil {
		return true
	}
	return *r.IsBidirectional
}

// InsertStationRequest inserts a station onto an existing direct edge.
// When distance_from_start is strictly smaller than the existing edge's
// distance the edge is split through the station; otherwise only the new
// leading edge is created and the original edge is left untouched.
type InsertStationRequest struct {
	StationCode       string `json:"station" binding:"required"`
	FromCode          string `json:"from_station" binding:"required"`
	ToCode            string `json:"to_station" binding:"required"`
	DistanceFromStart int    `json:"distance_from_start" binding:"required"`
}

// Validate validates the insert station request
func (r *InsertStationRequest) Validate() error {
	r.StationCode = strings.ToUpper(strings.TrimSpace(r.StationCode))
	r.FromCode = strings.ToUpper(strings.TrimSpace(r.FromCode))
	r.ToCode = strings.ToUpper(strings.TrimSpace(r.ToCode))
	if r.FromCode == r.ToCode {
		return errors.New("from_station and to_station must be different")
	}
	if r.StationCode == r.FromCode || r.StationCode == r.ToCode {
		return errors.New("station must differ from both edge endpoints")
	}
	if r.DistanceFromStart <= 0 {
		return errors.New("distance_from_start must be a positive integer")
	}
	return nil
}

// CreateRouteTemplateRequest represents the request to create a route template
type CreateRouteTemplateRequest struct {
	Name     string   `json:"name" binding:"required"`
	FromCode string   `json:"from_station" binding:"required"`
	ToCode   string   `json:"to_station" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Stops    []string `json:"stops,omitempty"`
}

// Validate validates the create route template request
func (r *CreateRouteTemplateRequest) Validate() error {
	r.FromCode = strings.ToUpper(strings.TrimSpace(r.FromCode))
	r.ToCode = strings.ToUpper(strings.TrimSpace(r.ToCode))
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	if r.FromCode == r.ToCode {
		return errors.New("from_station and to_station must be different")
	}
	switch RouteTemplateCategory(r.Category) {
	case RouteCategoryLocal, RouteCategoryFast:
	default:
		return errors.New("category must be 'local' or 'fast'")
	}
	for i, stop := range r.Stops {
		r.Stops[i] = strings.ToUpper(strings.TrimSpace(stop))
	}
	if r.Category == string(RouteCategoryFast) && len(r.Stops) < 3 {
		return errors.New("fast templates need at least 3 stops (source, one intermediate, destination)")
	}
	return nil
}
