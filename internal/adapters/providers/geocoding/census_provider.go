package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/carepath/snf-navigator/internal/domain/providers"
	"github.com/carepath/snf-navigator/pkg/geo"
)

const defaultCensusURL = "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress"

// CensusGeocoder is the last-resort provider in the chain, backed by the
// Census Bureau one-line address geocoder.
type CensusGeocoder struct {
	httpClient *http.Client
	baseURL    string
}

// NewCensusGeocoder creates a new census geocoder
func NewCensusGeocoder(baseURL string, httpClient *http.Client) providers.Geocoder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultCensusURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &CensusGeocoder{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Name identifies the provider in logs and persisted entries
func (c *CensusGeocoder) Name() string {
	return "census"
}

// Geocode resolves the request through the one-line address endpoint
func (c *CensusGeocoder) Geocode(ctx context.Context, req providers.GeocodeRequest) (*providers.GeocodeResult, error) {
	address := fullAddress(req)
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("benchmark", "Public_AR_Current")
	params.Set("format", "json")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build census request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("census request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("census request returned status %d", resp.StatusCode)
	}

	var payload censusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode census response: %w", err)
	}
	if len(payload.Result.AddressMatches) == 0 {
		return nil, fmt.Errorf("no census match for address")
	}

	match := payload.Result.AddressMatches[0]
	return &providers.GeocodeResult{
		Coordinates: geo.Coordinates{
			Latitude:  match.Coordinates.Y,
			Longitude: match.Coordinates.X,
		},
		FormattedAddress: match.MatchedAddress,
	}, nil
}

type censusResponse struct {
	Result struct {
		AddressMatches []censusMatch `json:"addressMatches"`
	} `json:"result"`
}

type censusMatch struct {
	MatchedAddress string `json:"matchedAddress"`
	Coordinates    struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"coordinates"`
}
