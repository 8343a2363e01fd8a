package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"bway/internal/geo"
	"bway/internal/models"
	"bway/internal/repositories/interfaces"
	"bway/pkg/geocode"
	"bway/pkg/logger"
)

const (
	// DefaultMatchMaxDistanceKm bounds both pickup and delivery proximity
	// when scoring candidate routes.
	DefaultMatchMaxDistanceKm = 50.0

	// DefaultDeliveryMaxDistanceKm bounds the delivery-only scan used by
	// find-or-create.
	DefaultDeliveryMaxDistanceKm = 20.0

	// DefaultSuggestionMaxDistanceKm bounds read-only route suggestions.
	DefaultSuggestionMaxDistanceKm = 30.0
)

// GeoResolver is the slice of the geocoding chain the matcher needs.
type GeoResolver interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
	Route(ctx context.Context, start, end models.Coordinate, waypoints []models.Coordinate) (*geocode.RouteResult, error)
}

// MatchResult scores one candidate route against a pickup/delivery pair.
// Ephemeral; never persisted.
type MatchResult struct {
	Route      *models.Route `json:"route"`
	MatchScore float64       `json:"matchScore"`
	Details    *MatchDetails `json:"matchDetails,omitempty"`
}

type MatchDetails struct {
	RouteName       string            `json:"routeName"`
	PickupMatch     geo.RouteDistance `json:"pickupMatch"`
	DeliveryMatch   geo.RouteDistance `json:"deliveryMatch"`
	TotalDistanceKm float64           `json:"totalDistanceKm"`
}

// DeliveryAssignment is the outcome of find-or-create for one delivery.
type DeliveryAssignment struct {
	Route              *models.Route `json:"route"`
	Created            bool          `json:"created"`
	StopAdded          bool          `json:"stopAdded"`
	MatchScore         float64       `json:"matchScore"`
	DeliveryDistanceKm float64       `json:"deliveryDistanceKm"`
}

type RouteSuggestion struct {
	Route      *models.Route `json:"route"`
	DistanceKm float64       `json:"distanceKm"`
	Anchor     models.Anchor `json:"anchor"`
}

type MatchingService struct {
	routes   interfaces.RouteRepository
	resolver GeoResolver
	logger   *logger.Logger
}

func NewMatchingService(routes interfaces.RouteRepository, resolver GeoResolver, log *logger.Logger) *MatchingService {
	return &MatchingService{
		routes:   routes,
		resolver: resolver,
		logger:   log,
	}
}

// FindBestMatchingRoute scores every active route against the pickup and
// delivery addresses. A route is rejected outright when either side is
// farther than maxDistanceKm from its nearest anchor; survivors score
// 100 minus the summed distances, floored at zero. The strictly highest
// score wins; the first candidate keeps a tie.
func (s *MatchingService) FindBestMatchingRoute(ctx context.Context, pickupAddress, deliveryAddress string, maxDistanceKm float64) (*MatchResult, error) {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMatchMaxDistanceKm
	}

	pickupCoords, err := s.resolver.Geocode(ctx, pickupAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode pickup address: %w", err)
	}
	deliveryCoords, err := s.resolver.Geocode(ctx, deliveryAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode delivery address: %w", err)
	}

	routes, err := s.routes.GetActiveRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active routes: %w", err)
	}
	if len(routes) == 0 {
		s.logger.Debug("No active routes to match against")
		return &MatchResult{}, nil
	}

	best := &MatchResult{}
	for _, route := range routes {
		pickupMatch := geo.DistanceToRoute(pickupCoords, route)
		deliveryMatch := geo.DistanceToRoute(deliveryCoords, route)

		if pickupMatch.DistanceKm > maxDistanceKm || deliveryMatch.DistanceKm > maxDistanceKm {
			continue
		}

		totalDistance := pickupMatch.DistanceKm + deliveryMatch.DistanceKm
		score := math.Max(0, 100-totalDistance)

		if score > best.MatchScore {
			best = &MatchResult{
				Route:      route,
				MatchScore: score,
				Details: &MatchDetails{
					RouteName:       route.RouteName,
					PickupMatch:     pickupMatch,
					DeliveryMatch:   deliveryMatch,
					TotalDistanceKm: totalDistance,
				},
			}
		}
	}

	if best.Route != nil {
		s.logger.WithFields(map[string]interface{}{
			"route": best.Route.RouteName,
			"score": best.MatchScore,
		}).Info("Best matching route selected")
	}

	return best, nil
}

// FindOrCreateRouteForDelivery scans active routes by delivery proximity
// alone and reuses the closest one within maxDistanceKm, appending the stop
// when its identity is not already present. Otherwise it creates a new
// active route named after the delivery city/state with the stop as its
// single waypoint.
func (s *MatchingService) FindOrCreateRouteForDelivery(ctx context.Context, staticPickupAddress, deliveryAddress, stopName, stopAddress string, maxDistanceKm float64) (*DeliveryAssignment, error) {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultDeliveryMaxDistanceKm
	}

	pickupCoords, err := s.resolver.Geocode(ctx, staticPickupAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode pickup address: %w", err)
	}
	deliveryCoords, err := s.resolver.Geocode(ctx, deliveryAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode delivery address: %w", err)
	}
	// The stop must carry coordinates to be persisted, so this geocode
	// failure is fatal for the whole operation.
	stopCoords, err := s.resolver.Geocode(ctx, stopAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode stop address %q: %w", stopAddress, err)
	}

	routes, err := s.routes.GetActiveRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active routes: %w", err)
	}

	var bestRoute *models.Route
	bestDistance := math.Inf(1)
	for _, route := range routes {
		match := geo.DistanceToRoute(deliveryCoords, route)
		if match.DistanceKm <= maxDistanceKm && match.DistanceKm < bestDistance {
			bestDistance = match.DistanceKm
			bestRoute = route
		}
	}

	if bestRoute != nil {
		return s.assignToExistingRoute(ctx, bestRoute, bestDistance, stopName, stopAddress, stopCoords)
	}

	return s.createRouteForDelivery(ctx, staticPickupAddress, deliveryAddress, stopName, stopAddress, pickupCoords, deliveryCoords, stopCoords)
}

func (s *MatchingService) assignToExistingRoute(ctx context.Context, route *models.Route, deliveryDistanceKm float64, stopName, stopAddress string, stopCoords models.Coordinate) (*DeliveryAssignment, error) {
	assignment := &DeliveryAssignment{
		Route:              route,
		MatchScore:         math.Max(0, 100-deliveryDistanceKm),
		DeliveryDistanceKm: deliveryDistanceKm,
	}

	for _, stop := range route.Stops {
		if isSameStop(stop, stopName) {
			s.logger.WithRouteID(route.ID.Hex()).WithField("stop", stopName).
				Debug("Stop already present on route")
			return assignment, nil
		}
	}

	route.Stops = append(route.Stops, models.Stop{
		Name:        stopName,
		Address:     stopAddress,
		Coordinates: &stopCoords,
	})

	geometry, err := s.recomputeGeometry(ctx, route)
	if err != nil {
		return nil, err
	}
	route.Geometry = geometry

	err = s.routes.Update(ctx, route.ID, map[string]interface{}{
		"stops":    route.Stops,
		"geometry": route.Geometry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist stop on route: %w", err)
	}

	s.logger.WithRouteID(route.ID.Hex()).WithField("stop", stopName).
		Info("Stop added to existing route")

	assignment.StopAdded = true
	return assignment, nil
}

func (s *MatchingService) createRouteForDelivery(ctx context.Context, pickupAddress, deliveryAddress, stopName, stopAddress string, pickupCoords, deliveryCoords, stopCoords models.Coordinate) (*DeliveryAssignment, error) {
	city, state := parseCityState(deliveryAddress)

	stop := models.Stop{
		Name:        stopName,
		Address:     stopAddress,
		Coordinates: &stopCoords,
	}

	route := &models.Route{
		RouteName: fmt.Sprintf("Route to %s, %s", city, state),
		StartLocation: models.Location{
			Address:     pickupAddress,
			Coordinates: &pickupCoords,
		},
		EndLocation: models.Location{
			Address:     deliveryAddress,
			City:        city,
			State:       state,
			Zipcode:     "00000",
			Coordinates: &deliveryCoords,
		},
		Stops:      []models.Stop{stop},
		ETA:        "Auto-Generated",
		ActiveDays: models.DefaultActiveDays,
		Status:     models.RouteStatusActive,
	}

	geometry, err := s.recomputeGeometry(ctx, route)
	if err != nil {
		return nil, err
	}
	route.Geometry = geometry

	if err := s.routes.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	s.logger.WithRouteID(route.ID.Hex()).WithField("route", route.RouteName).
		Info("Created new route for delivery")

	return &DeliveryAssignment{
		Route:      route,
		Created:    true,
		StopAdded:  true,
		MatchScore: 100,
	}, nil
}

// recomputeGeometry rebuilds the driving path over [start, stops..., end].
// Must run whenever the start, the end, or the stops change.
func (s *MatchingService) recomputeGeometry(ctx context.Context, route *models.Route) ([]models.Coordinate, error) {
	if route.StartLocation.Coordinates == nil || route.EndLocation.Coordinates == nil {
		return nil, fmt.Errorf("route %q has no start/end coordinates", route.RouteName)
	}

	waypoints := make([]models.Coordinate, 0, len(route.Stops))
	for _, stop := range route.Stops {
		if stop.Coordinates != nil {
			waypoints = append(waypoints, *stop.Coordinates)
		}
	}

	result, err := s.resolver.Route(ctx, *route.StartLocation.Coordinates, *route.EndLocation.Coordinates, waypoints)
	if err != nil {
		return nil, fmt.Errorf("failed to compute route geometry: %w", err)
	}

	return result.Geometry, nil
}

// GetRouteSuggestions evaluates every active route against one address and
// returns the suitable ones ordered by distance. Read-only.
func (s *MatchingService) GetRouteSuggestions(ctx context.Context, address string, maxDistanceKm float64) ([]RouteSuggestion, error) {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultSuggestionMaxDistanceKm
	}

	coords, err := s.resolver.Geocode(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	routes, err := s.routes.GetActiveRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active routes: %w", err)
	}

	var suggestions []RouteSuggestion
	for _, route := range routes {
		match := geo.DistanceToRoute(coords, route)
		if match.DistanceKm > maxDistanceKm {
			continue
		}
		suggestions = append(suggestions, RouteSuggestion{
			Route:      route,
			DistanceKm: match.DistanceKm,
			Anchor:     match.Anchor,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].DistanceKm < suggestions[j].DistanceKm
	})

	return suggestions, nil
}

// isSameStop is the stop identity policy: exact name match, or the existing
// stop's address contains the candidate name case-insensitively. Heuristic;
// kept in one place so it can be tuned without touching the matcher.
func isSameStop(stop models.Stop, name string) bool {
	if stop.Name == name {
		return true
	}
	return stop.Address != "" &&
		strings.Contains(strings.ToLower(stop.Address), strings.ToLower(name))
}

// parseCityState derives a human route name from a comma-separated address:
// the city is the second-to-last token, the state the first word of the last
// token.
func parseCityState(address string) (city, state string) {
	city, state = "Unknown City", "Unknown State"

	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) >= 2 && parts[len(parts)-2] != "" {
		city = parts[len(parts)-2]
	}
	if len(parts) >= 1 {
		if fields := strings.Fields(parts[len(parts)-1]); len(fields) > 0 {
			state = fields[0]
		}
	}

	return city, state
}
