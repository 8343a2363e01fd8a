package geocode

import (
	"context"
	"fmt"

	"bway/internal/models"

	"googlemaps.github.io/maps"
)

// GoogleProvider geocodes and routes through the Google Maps Platform. It is
// slotted into the chain when an API key is configured.
type GoogleProvider struct {
	client *maps.Client
}

func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleProvider{client: client}, nil
}

func (p *GoogleProvider) Name() string {
	return "google-maps"
}

func (p *GoogleProvider) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	resp, err := p.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(resp) == 0 {
		return models.Coordinate{}, fmt.Errorf("no coordinates found for address: %s", address)
	}

	loc := resp[0].Geometry.Location
	return models.NewCoordinate(loc.Lng, loc.Lat), nil
}

func (p *GoogleProvider) Route(ctx context.Context, start, end models.Coordinate, waypoints []models.Coordinate) (*RouteResult, error) {
	req := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", start.Lat(), start.Lng()),
		Destination: fmt.Sprintf("%f,%f", end.Lat(), end.Lng()),
		Mode:        maps.TravelModeDriving,
	}
	if len(waypoints) > 0 {
		points := make([]string, len(waypoints))
		for i, wp := range waypoints {
			points[i] = fmt.Sprintf("%f,%f", wp.Lat(), wp.Lng())
		}
		req.Waypoints = points
	}

	routes, _, err := p.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	route := routes[0]
	path, err := route.OverviewPolyline.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode route polyline: %w", err)
	}

	geometry := make([]models.Coordinate, len(path))
	for i, point := range path {
		geometry[i] = models.NewCoordinate(point.Lng, point.Lat)
	}

	result := &RouteResult{Geometry: geometry}
	for _, leg := range route.Legs {
		result.DistanceMeters += float64(leg.Distance.Meters)
		result.DurationSeconds += leg.Duration.Seconds()
	}

	return result, nil
}
