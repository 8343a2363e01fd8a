package geocode

import (
	"context"
	"fmt"

	"bway/internal/models"
	"bway/pkg/logger"
)

// Resolver walks an ordered provider chain. Each tier is attempted in full
// before falling through to the next; tier failures are logged but never
// surfaced, so a chain that ends with the synthetic providers cannot fail.
type Resolver struct {
	geocoders []Geocoder
	routers   []Router
	logger    *logger.Logger
}

func NewResolver(geocoders []Geocoder, routers []Router, log *logger.Logger) *Resolver {
	return &Resolver{
		geocoders: geocoders,
		routers:   routers,
		logger:    log,
	}
}

// Geocode resolves an address to a [lng, lat] coordinate.
func (r *Resolver) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	var lastErr error
	for _, provider := range r.geocoders {
		coords, err := provider.Geocode(ctx, address)
		if err == nil {
			return coords, nil
		}
		lastErr = err
		r.logger.WithFields(map[string]interface{}{
			"provider": provider.Name(),
			"address":  address,
		}).WithError(err).Warn("Geocoding provider failed, falling through")
	}
	return models.Coordinate{}, fmt.Errorf("all geocoding providers failed for %q: %w", address, lastErr)
}

// Route computes a driving path from start to end through the waypoints.
func (r *Resolver) Route(ctx context.Context, start, end models.Coordinate, waypoints []models.Coordinate) (*RouteResult, error) {
	var lastErr error
	for _, provider := range r.routers {
		result, err := provider.Route(ctx, start, end, waypoints)
		if err == nil {
			return result, nil
		}
		lastErr = err
		r.logger.WithFields(map[string]interface{}{
			"provider":  provider.Name(),
			"waypoints": len(waypoints),
		}).WithError(err).Warn("Routing provider failed, falling through")
	}
	return nil, fmt.Errorf("all routing providers failed: %w", lastErr)
}
