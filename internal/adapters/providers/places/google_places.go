package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/providers"
)

const (
	findPlaceURL       = "https://maps.googleapis.com/maps/api/place/findplacefromtext/json"
	placeDetailsURL    = "https://maps.googleapis.com/maps/api/place/details/json"
	defaultHTTPTimeout = 8 * time.Second
	maxReviewExcerpts  = 5
)

// GooglePlacesProvider implements PlacesProvider against the Google Places
// API. Live calls error with ErrNoAPIKey when no key is configured so
// callers can fall back to stale cache entries.
type GooglePlacesProvider struct {
	apiKey     string
	httpClient *http.Client
	findURL    string
	detailsURL string
}

// NewGooglePlacesProvider creates a new Google Places provider
func NewGooglePlacesProvider(apiKey string) providers.PlacesProvider {
	return NewGooglePlacesProviderWithOptions(apiKey, findPlaceURL, placeDetailsURL, nil)
}

// NewGooglePlacesProviderWithOptions allows overriding URLs and HTTP client (used for tests)
func NewGooglePlacesProviderWithOptions(apiKey, findURL, detailsURL string, httpClient *http.Client) providers.PlacesProvider {
	if strings.TrimSpace(findURL) == "" {
		findURL = findPlaceURL
	}
	if strings.TrimSpace(detailsURL) == "" {
		detailsURL = placeDetailsURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GooglePlacesProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		findURL:    findURL,
		detailsURL: detailsURL,
	}
}

// FindPlaceID looks up the place id for a facility by name and address
func (p *GooglePlacesProvider) FindPlaceID(ctx context.Context, name, address string) (string, error) {
	if p.apiKey == "" {
		return "", providers.ErrNoAPIKey
	}

	input := strings.TrimSpace(name + " " + address)
	if input == "" {
		return "", fmt.Errorf("place query is required")
	}

	params := url.Values{}
	params.Set("input", input)
	params.Set("inputtype", "textquery")
	params.Set("fields", "place_id")
	params.Set("key", p.apiKey)

	var payload findPlaceResponse
	if err := p.getJSON(ctx, p.findURL, params, &payload); err != nil {
		return "", err
	}

	if payload.Status != "OK" || len(payload.Candidates) == 0 {
		return "", fmt.Errorf("find place returned status %s", payload.Status)
	}
	return payload.Candidates[0].PlaceID, nil
}

// FetchReviews fetches place details with up to five recent review excerpts
func (p *GooglePlacesProvider) FetchReviews(ctx context.Context, placeID string) (*entities.ReviewSnapshot, error) {
	if p.apiKey == "" {
		return nil, providers.ErrNoAPIKey
	}
	if strings.TrimSpace(placeID) == "" {
		return nil, fmt.Errorf("place id is required")
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "rating,user_ratings_total,reviews")
	params.Set("key", p.apiKey)

	var payload placeDetailsResponse
	if err := p.getJSON(ctx, p.detailsURL, params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("place details returned status %s", payload.Status)
	}

	snapshot := &entities.ReviewSnapshot{
		PlaceID:     placeID,
		ReviewCount: payload.Result.UserRatingsTotal,
		FetchedAt:   time.Now(),
	}

	reviews := payload.Result.Reviews
	if len(reviews) > maxReviewExcerpts {
		reviews = reviews[:maxReviewExcerpts]
	}

	sum := 0.0
	for _, r := range reviews {
		snapshot.Reviews = append(snapshot.Reviews, entities.Review{
			Author: r.AuthorName,
			Rating: r.Rating,
			Text:   r.Text,
			Time:   time.Unix(r.Time, 0),
		})
		sum += r.Rating
	}
	if len(reviews) > 0 {
		snapshot.Rating = sum / float64(len(reviews))
	} else {
		snapshot.Rating = payload.Result.Rating
	}

	return snapshot, nil
}

func (p *GooglePlacesProvider) getJSON(ctx context.Context, baseURL string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("places request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode places response: %w", err)
	}
	return nil
}

type findPlaceResponse struct {
	Status     string `json:"status"`
	Candidates []struct {
		PlaceID string `json:"place_id"`
	} `json:"candidates"`
}

type placeDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Rating           float64       `json:"rating"`
		UserRatingsTotal int           `json:"user_ratings_total"`
		Reviews          []placeReview `json:"reviews"`
	} `json:"result"`
}

type placeReview struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	Time       int64   `json:"time"`
}
