package geo_test

import (
	"math"
	"testing"

	"bway/internal/geo"
	"bway/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	delhi := models.NewCoordinate(77.2090, 28.6139)
	mumbai := models.NewCoordinate(72.8777, 19.0760)

	d := geo.HaversineKm(delhi, mumbai)

	// Great-circle distance Delhi-Mumbai is roughly 1150 km.
	assert.InDelta(t, 1150, d, 20)
}

func TestHaversineKmZeroForSamePoint(t *testing.T) {
	p := models.NewCoordinate(77.2090, 28.6139)
	assert.Zero(t, geo.HaversineKm(p, p))
}

func TestHaversineKmSymmetric(t *testing.T) {
	a := models.NewCoordinate(77.2090, 28.6139)
	b := models.NewCoordinate(88.3639, 22.5726)

	assert.InDelta(t, geo.HaversineKm(a, b), geo.HaversineKm(b, a), 1e-9)
}

func TestDistanceToRoutePicksNearestAnchor(t *testing.T) {
	start := models.NewCoordinate(77.2090, 28.6139)
	end := models.NewCoordinate(72.8777, 19.0760)
	stop := models.NewCoordinate(75.7873, 26.9124)

	route := &models.Route{
		RouteName:     "Delhi to Mumbai",
		StartLocation: models.Location{Address: "Delhi", Coordinates: &start},
		EndLocation:   models.Location{Address: "Mumbai", Coordinates: &end},
		Stops: []models.Stop{
			{Name: "Jaipur Depot", Coordinates: &stop},
		},
	}

	// A point just outside Jaipur should match the stop anchor.
	point := models.NewCoordinate(75.80, 26.90)
	match := geo.DistanceToRoute(point, route)

	assert.Equal(t, models.AnchorStop, match.Anchor.Kind)
	assert.Equal(t, 0, match.Anchor.StopIndex)
	assert.Less(t, match.DistanceKm, 5.0)
}

func TestDistanceToRouteSkipsStopsWithoutCoordinates(t *testing.T) {
	start := models.NewCoordinate(77.2090, 28.6139)
	end := models.NewCoordinate(72.8777, 19.0760)

	route := &models.Route{
		StartLocation: models.Location{Coordinates: &start},
		EndLocation:   models.Location{Coordinates: &end},
		Stops: []models.Stop{
			{Name: "Unlocated Stop"},
		},
	}

	match := geo.DistanceToRoute(models.NewCoordinate(77.21, 28.61), route)

	assert.Equal(t, models.AnchorStart, match.Anchor.Kind)
}

func TestDistanceToRouteNoAnchors(t *testing.T) {
	route := &models.Route{RouteName: "Empty"}

	match := geo.DistanceToRoute(models.NewCoordinate(0, 0), route)

	assert.True(t, math.IsInf(match.DistanceKm, 1))
	assert.Equal(t, models.AnchorNone, match.Anchor.Kind)
}
