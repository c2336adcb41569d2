package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/carepath/snf-navigator/internal/domain/providers"
	"github.com/carepath/snf-navigator/pkg/geo"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// NominatimGeocoder queries an open geocoding service with up to four
// address-string variants, trying each in order until one yields
// coordinates.
type NominatimGeocoder struct {
	httpClient *http.Client
	baseURL    string
}

// NewNominatimGeocoder creates a new open-service geocoder
func NewNominatimGeocoder(baseURL string, httpClient *http.Client) providers.Geocoder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultNominatimURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimGeocoder{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Name identifies the provider in logs and persisted entries
func (n *NominatimGeocoder) Name() string {
	return "nominatim"
}

// Geocode tries each query variant in order; the first hit wins
func (n *NominatimGeocoder) Geocode(ctx context.Context, req providers.GeocodeRequest) (*providers.GeocodeResult, error) {
	variants := queryVariants(req)
	if len(variants) == 0 {
		return nil, fmt.Errorf("address is required")
	}

	var lastErr error
	for _, variant := range variants {
		result, err := n.search(ctx, variant)
		if err != nil {
			lastErr = err
			continue
		}
		if result != nil {
			return result, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("all address variants failed: %w", lastErr)
	}
	return nil, fmt.Errorf("no results for any address variant")
}

func (n *NominatimGeocoder) search(ctx context.Context, query string) (*providers.GeocodeResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", "us")

	reqURL := fmt.Sprintf("%s?%s", n.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "snf-navigator/1.0")

	resp, err := n.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search request returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in response: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in response: %w", err)
	}

	return &providers.GeocodeResult{
		Coordinates:      geo.Coordinates{Latitude: lat, Longitude: lon},
		FormattedAddress: results[0].DisplayName,
	}, nil
}

// queryVariants builds the ordered address-string variants: the full
// address, the address with abbreviation expansions, city+state+zip, and
// name+city+state. Variants with no content are dropped.
func queryVariants(req providers.GeocodeRequest) []string {
	var variants []string

	full := fullAddress(req)
	if full != "" {
		variants = append(variants, full)
		if expanded := ExpandAbbreviations(full); expanded != full {
			variants = append(variants, expanded)
		}
	}

	cityStateZip := joinParts(req.City, req.State, req.ZipCode)
	if cityStateZip != "" {
		variants = append(variants, cityStateZip)
	}

	nameCityState := joinParts(req.Name, req.City, req.State)
	if strings.TrimSpace(req.Name) != "" && nameCityState != "" {
		variants = append(variants, nameCityState)
	}

	return variants
}

func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// abbreviations maps common street-address abbreviations to their expansions.
var abbreviations = map[string]string{
	"st":   "street",
	"ave":  "avenue",
	"rd":   "road",
	"dr":   "drive",
	"blvd": "boulevard",
	"hwy":  "highway",
	"ln":   "lane",
	"pkwy": "parkway",
	"ct":   "court",
	"cir":  "circle",
	"n":    "north",
	"s":    "south",
	"e":    "east",
	"w":    "west",
}

// ExpandAbbreviations expands common address abbreviations word by word,
// preserving the original casing of unexpanded words.
func ExpandAbbreviations(address string) string {
	words := strings.Fields(address)
	for i, word := range words {
		trimmed := strings.TrimRight(word, ".,")
		suffix := word[len(trimmed):]
		if expansion, ok := abbreviations[strings.ToLower(trimmed)]; ok {
			if trimmed == strings.ToUpper(trimmed) && len(trimmed) > 1 {
				expansion = strings.ToUpper(expansion[:1]) + expansion[1:]
			} else if trimmed[0] >= 'A' && trimmed[0] <= 'Z' {
				expansion = strings.ToUpper(expansion[:1]) + expansion[1:]
			}
			words[i] = expansion + strings.TrimRight(suffix, ".")
		}
	}
	return strings.Join(words, " ")
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
