// Package geocode resolves addresses to coordinates and coordinate sequences
// to routed paths through an ordered chain of providers. The chain ends with
// a synthetic provider, so resolution never fails outright.
package geocode

import (
	"context"

	"bway/internal/models"
)

// Geocoder resolves a free-form address to a [lng, lat] coordinate.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

// Router computes a driving path from start to end through the given
// waypoints, in order.
type Router interface {
	Name() string
	Route(ctx context.Context, start, end models.Coordinate, waypoints []models.Coordinate) (*RouteResult, error)
}

type RouteResult struct {
	Geometry        []models.Coordinate `json:"geometry"`
	DistanceMeters  float64             `json:"distanceMeters"`
	DurationSeconds float64             `json:"durationSeconds"`
}
