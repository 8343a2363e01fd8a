package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bway/internal/models"
)

const nominatimUserAgent = "B-Way-Route-Service/1.0"

// NominatimProvider is the general-purpose geocoding fallback backed by the
// public OpenStreetMap Nominatim API.
type NominatimProvider struct {
	httpClient *http.Client
	baseURL    string
}

func NewNominatimProvider(baseURL string) *NominatimProvider {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimProvider{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

func (p *NominatimProvider) Name() string {
	return "nominatim"
}

func (p *NominatimProvider) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	apiURL := fmt.Sprintf("%s/search?format=json&q=%s&limit=1", p.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", nominatimUserAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return models.Coordinate{}, fmt.Errorf("Nominatim API error: %s", string(body))
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(results) == 0 {
		return models.Coordinate{}, fmt.Errorf("no results for address: %s", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid latitude in response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid longitude in response: %w", err)
	}

	return models.NewCoordinate(lng, lat), nil
}
