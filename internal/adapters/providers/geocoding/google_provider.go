package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carepath/snf-navigator/internal/domain/providers"
	"github.com/carepath/snf-navigator/pkg/geo"
)

const (
	googleGeocodeURL   = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultHTTPTimeout = 8 * time.Second
)

// GoogleGeocoder resolves addresses through the Google Maps geocoding API.
// It is the first provider in the chain and is skipped (by erroring) when no
// API key is configured.
type GoogleGeocoder struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewGoogleGeocoder creates a new Google geocoder
func NewGoogleGeocoder(apiKey string) providers.Geocoder {
	return NewGoogleGeocoderWithOptions(apiKey, googleGeocodeURL, nil)
}

// NewGoogleGeocoderWithOptions allows overriding base URL and HTTP client (used for tests)
func NewGoogleGeocoderWithOptions(apiKey, baseURL string, httpClient *http.Client) providers.Geocoder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleGeocoder{
		apiKey:     apiKey,
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Name identifies the provider in logs and persisted entries
func (g *GoogleGeocoder) Name() string {
	return "google"
}

// Geocode resolves the request through the geocoding endpoint
func (g *GoogleGeocoder) Geocode(ctx context.Context, req providers.GeocodeRequest) (*providers.GeocodeResult, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}

	address := fullAddress(req)
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)

	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var payload googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if payload.Status != "OK" {
		if payload.ErrorMessage != "" {
			return nil, fmt.Errorf("geocode request failed: %s - %s", payload.Status, payload.ErrorMessage)
		}
		return nil, fmt.Errorf("geocode request failed: %s", payload.Status)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("no results for address")
	}

	result := payload.Results[0]
	return &providers.GeocodeResult{
		Coordinates: geo.Coordinates{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		},
		FormattedAddress: result.FormattedAddress,
	}, nil
}

// fullAddress joins the populated address parts into one query string.
func fullAddress(req providers.GeocodeRequest) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{req.Street, req.City, req.State, req.ZipCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
