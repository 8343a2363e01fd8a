package geocode

import (
	"context"
	"fmt"

	"bway/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/location"
	locationTypes "github.com/aws/aws-sdk-go-v2/service/location/types"
)

// AWSLocationProvider is the primary geocoding and routing tier, backed by a
// place index and a route calculator in Amazon Location Service.
type AWSLocationProvider struct {
	client         *location.Client
	placeIndex     string
	calculatorName string
}

func NewAWSLocationProvider(cfg aws.Config, placeIndex, calculatorName string) *AWSLocationProvider {
	return &AWSLocationProvider{
		client:         location.NewFromConfig(cfg),
		placeIndex:     placeIndex,
		calculatorName: calculatorName,
	}
}

func (p *AWSLocationProvider) Name() string {
	return "aws-location"
}

func (p *AWSLocationProvider) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	resp, err := p.client.SearchPlaceIndexForText(ctx, &location.SearchPlaceIndexForTextInput{
		IndexName:  aws.String(p.placeIndex),
		Text:       aws.String(address),
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("place index search failed: %w", err)
	}

	if len(resp.Results) == 0 || resp.Results[0].Place == nil ||
		resp.Results[0].Place.Geometry == nil || len(resp.Results[0].Place.Geometry.Point) < 2 {
		return models.Coordinate{}, fmt.Errorf("no coordinates found for address: %s", address)
	}

	point := resp.Results[0].Place.Geometry.Point
	return models.NewCoordinate(point[0], point[1]), nil
}

func (p *AWSLocationProvider) Route(ctx context.Context, start, end models.Coordinate, waypoints []models.Coordinate) (*RouteResult, error) {
	input := &location.CalculateRouteInput{
		CalculatorName:      aws.String(p.calculatorName),
		DeparturePosition:   []float64{start.Lng(), start.Lat()},
		DestinationPosition: []float64{end.Lng(), end.Lat()},
		IncludeLegGeometry:  aws.Bool(true),
		TravelMode:          locationTypes.TravelMode("Car"),
		DistanceUnit:        locationTypes.DistanceUnit("Kilometers"),
	}
	if len(waypoints) > 0 {
		positions := make([][]float64, len(waypoints))
		for i, wp := range waypoints {
			positions[i] = []float64{wp.Lng(), wp.Lat()}
		}
		input.WaypointPositions = positions
	}

	resp, err := p.client.CalculateRoute(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("route calculation failed: %w", err)
	}

	// Concatenate all leg geometries into a single path.
	var geometry []models.Coordinate
	for _, leg := range resp.Legs {
		if leg.Geometry == nil {
			continue
		}
		for _, point := range leg.Geometry.LineString {
			if len(point) < 2 {
				continue
			}
			geometry = append(geometry, models.NewCoordinate(point[0], point[1]))
		}
	}

	result := &RouteResult{Geometry: geometry}
	if resp.Summary != nil {
		if resp.Summary.Distance != nil {
			result.DistanceMeters = *resp.Summary.Distance * 1000
		}
		if resp.Summary.DurationSeconds != nil {
			result.DurationSeconds = *resp.Summary.DurationSeconds
		}
	}

	return result, nil
}
