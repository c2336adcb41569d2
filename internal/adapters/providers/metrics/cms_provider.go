package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/carepath/snf-navigator/internal/domain/providers"
)

const (
	defaultProviderDataURL = "https://data.cms.gov/provider-data/api/1/datastore/query"
	defaultHTTPTimeout     = 8 * time.Second
)

// CMSMetricsProvider fetches current quality metrics for a facility from the
// CMS provider-data service. Calls run behind a circuit breaker so a flapping
// upstream degrades enrichment instead of slowing every request.
type CMSMetricsProvider struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
}

// NewCMSMetricsProvider creates a new CMS metrics provider
func NewCMSMetricsProvider(baseURL string, httpClient *http.Client) providers.LiveMetricsProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultProviderDataURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "cms-provider-data",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &CMSMetricsProvider{
		httpClient: httpClient,
		baseURL:    baseURL,
		breaker:    breaker,
	}
}

// FetchMetrics fetches the current metric map for a normalized CCN
func (p *CMSMetricsProvider) FetchMetrics(ctx context.Context, ccn string) (map[string]float64, error) {
	if strings.TrimSpace(ccn) == "" {
		return nil, fmt.Errorf("ccn is required")
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.fetch(ctx, ccn)
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]float64), nil
}

func (p *CMSMetricsProvider) fetch(ctx context.Context, ccn string) (map[string]float64, error) {
	params := url.Values{}
	params.Set("conditions[0][property]", "cms_certification_number")
	params.Set("conditions[0][value]", ccn)

	reqURL := fmt.Sprintf("%s?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build metrics request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metrics request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("metrics request returned status %d", resp.StatusCode)
	}

	var payload providerDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode metrics response: %w", err)
	}

	metrics := make(map[string]float64)
	for _, row := range payload.Results {
		for key, raw := range row {
			if key == "cms_certification_number" {
				continue
			}
			if v, ok := numericValue(raw); ok {
				metrics[key] = v
			}
		}
	}
	return metrics, nil
}

// numericValue extracts a float from the loosely-typed API values.
func numericValue(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

type providerDataResponse struct {
	Results []map[string]interface{} `json:"results"`
}
