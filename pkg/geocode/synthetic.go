package geocode

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"

	"bway/internal/geo"
	"bway/internal/models"
)

// syntheticAvgSpeedKmh is the assumed average speed for duration estimates on
// synthesized routes.
const syntheticAvgSpeedKmh = 40.0

// cityCoordinates is the lookup table for the terminal geocoding tier.
var cityCoordinates = map[string]models.Coordinate{
	"delhi":     {77.2090, 28.6139},
	"mumbai":    {72.8777, 19.0760},
	"bangalore": {77.5946, 12.9716},
	"chennai":   {80.2707, 13.0827},
	"kolkata":   {88.3639, 22.5726},
	"hyderabad": {78.4867, 17.3850},
	"ahmedabad": {72.5714, 23.0225},
	"pune":      {73.8567, 18.5204},
	"surat":     {72.8311, 21.1702},
	"jaipur":    {75.7873, 26.9124},
}

// addressRand returns a generator seeded from the input, so the same address
// always produces the same jitter.
func addressRand(seed string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// SyntheticGeocoder is the terminal geocoding tier. It derives a coordinate
// from the city lookup table plus a small deterministic jitter and never
// fails.
type SyntheticGeocoder struct{}

func NewSyntheticGeocoder() *SyntheticGeocoder {
	return &SyntheticGeocoder{}
}

func (g *SyntheticGeocoder) Name() string {
	return "synthetic"
}

func (g *SyntheticGeocoder) Geocode(_ context.Context, address string) (models.Coordinate, error) {
	rng := addressRand(address)
	lower := strings.ToLower(address)

	for city, coords := range cityCoordinates {
		if strings.Contains(lower, city) {
			return models.NewCoordinate(
				coords.Lng()+(rng.Float64()-0.5)*0.1,
				coords.Lat()+(rng.Float64()-0.5)*0.1,
			), nil
		}
	}

	// Unknown addresses land near the default city with a wider jitter.
	base := cityCoordinates["delhi"]
	return models.NewCoordinate(
		base.Lng()+(rng.Float64()-0.5)*0.2,
		base.Lat()+(rng.Float64()-0.5)*0.2,
	), nil
}

// SyntheticRouter is the terminal routing tier. It interpolates between
// consecutive anchor pairs and perturbs the line with superimposed sinusoidal
// offsets so the path does not render as a straight segment. Distance is the
// cumulative haversine length of the synthetic points; duration assumes a
// fixed average speed.
type SyntheticRouter struct {
	// StepsPerLeg controls how many points are interpolated per anchor pair.
	StepsPerLeg int
}

func NewSyntheticRouter() *SyntheticRouter {
	return &SyntheticRouter{StepsPerLeg: 20}
}

func (r *SyntheticRouter) Name() string {
	return "synthetic"
}

func (r *SyntheticRouter) Route(_ context.Context, start, end models.Coordinate, waypoints []models.Coordinate) (*RouteResult, error) {
	anchors := make([]models.Coordinate, 0, len(waypoints)+2)
	anchors = append(anchors, start)
	anchors = append(anchors, waypoints...)
	anchors = append(anchors, end)

	steps := r.StepsPerLeg
	if steps <= 0 {
		steps = 20
	}

	var geometry []models.Coordinate
	for i := 0; i < len(anchors)-1; i++ {
		geometry = append(geometry, synthesizeLeg(anchors[i], anchors[i+1], steps)...)
	}

	var distanceMeters float64
	for i := 0; i < len(geometry)-1; i++ {
		distanceMeters += geo.HaversineKm(geometry[i], geometry[i+1]) * 1000
	}

	return &RouteResult{
		Geometry:        geometry,
		DistanceMeters:  distanceMeters,
		DurationSeconds: (distanceMeters / 1000) * (3600 / syntheticAvgSpeedKmh),
	}, nil
}

func synthesizeLeg(from, to models.Coordinate, steps int) []models.Coordinate {
	rng := addressRand(legSeed(from, to))

	dLng := to.Lng() - from.Lng()
	dLat := to.Lat() - from.Lat()
	span := math.Sqrt(dLng*dLng + dLat*dLat)
	curveIntensity := math.Min(span*10, 0.05)

	// Offsets are applied perpendicular to the leg direction.
	perpAngle := math.Atan2(dLat, dLng) + math.Pi/2

	points := make([]models.Coordinate, 0, steps+1)
	for j := 0; j <= steps; j++ {
		ratio := float64(j) / float64(steps)

		lng := from.Lng() + dLng*ratio
		lat := from.Lat() + dLat*ratio

		curve := math.Sin(ratio*math.Pi*3)*curveIntensity*0.3 +
			math.Sin(ratio*math.Pi*7)*curveIntensity*0.1 +
			math.Cos(ratio*math.Pi*5)*curveIntensity*0.15

		lng += math.Cos(perpAngle) * curve
		lat += math.Sin(perpAngle) * curve

		if j > 0 && j < steps {
			lng += (rng.Float64() - 0.5) * curveIntensity * 0.1
			lat += (rng.Float64() - 0.5) * curveIntensity * 0.1
		}

		points = append(points, models.NewCoordinate(lng, lat))
	}

	return points
}

func legSeed(from, to models.Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f;%.6f,%.6f", from.Lng(), from.Lat(), to.Lng(), to.Lat())
}
