package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bway/internal/models"
)

// OSRMProvider routes over the public OSRM road network, producing a real
// driving path when Amazon Location is unavailable.
type OSRMProvider struct {
	httpClient *http.Client
	baseURL    string
}

func NewOSRMProvider(baseURL string) *OSRMProvider {
	if baseURL == "" {
		baseURL = "https://router.project-osrm.org"
	}
	return &OSRMProvider{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

func (p *OSRMProvider) Name() string {
	return "osrm"
}

func (p *OSRMProvider) Route(ctx context.Context, start, end models.Coordinate, waypoints []models.Coordinate) (*RouteResult, error) {
	coords := make([]string, 0, len(waypoints)+2)
	coords = append(coords, fmt.Sprintf("%f,%f", start.Lng(), start.Lat()))
	for _, wp := range waypoints {
		coords = append(coords, fmt.Sprintf("%f,%f", wp.Lng(), wp.Lat()))
	}
	coords = append(coords, fmt.Sprintf("%f,%f", end.Lng(), end.Lat()))

	apiURL := fmt.Sprintf("%s/route/v1/driving/%s?overview=full&geometries=geojson&steps=true",
		p.baseURL, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", nominatimUserAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSRM API error: %s", string(body))
	}

	var osrmResp struct {
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Geometry struct {
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(body, &osrmResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(osrmResp.Routes) == 0 {
		return nil, fmt.Errorf("no route found by OSRM")
	}

	route := osrmResp.Routes[0]
	geometry := make([]models.Coordinate, 0, len(route.Geometry.Coordinates))
	for _, point := range route.Geometry.Coordinates {
		if len(point) < 2 {
			continue
		}
		geometry = append(geometry, models.NewCoordinate(point[0], point[1]))
	}

	return &RouteResult{
		Geometry:        geometry,
		DistanceMeters:  route.Distance,
		DurationSeconds: route.Duration,
	}, nil
}
