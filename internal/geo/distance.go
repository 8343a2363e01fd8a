// Package geo holds the pure distance geometry used by route matching.
package geo

import (
	"math"

	"bway/internal/models"
)

// EarthRadiusKm is the spherical Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// [lng, lat] coordinates.
func HaversineKm(a, b models.Coordinate) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLng := (b.Lng() - a.Lng()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// RouteDistance is the distance from a point to the nearest anchor of a
// route.
type RouteDistance struct {
	DistanceKm float64
	Anchor     models.Anchor
}

// DistanceToRoute computes the haversine distance from point to every anchor
// of the route that has coordinates and returns the minimum. When no anchor
// has coordinates the distance is +Inf and the anchor kind is "none".
func DistanceToRoute(point models.Coordinate, route *models.Route) RouteDistance {
	closest := RouteDistance{
		DistanceKm: math.Inf(1),
		Anchor:     models.Anchor{Kind: models.AnchorNone},
	}

	for _, anchor := range route.Anchors() {
		d := HaversineKm(point, anchor.Coordinates)
		if d < closest.DistanceKm {
			closest = RouteDistance{DistanceKm: d, Anchor: anchor}
		}
	}

	return closest
}
