package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	tsclient "github.com/carepath/snf-navigator/internal/infrastructure/clients/typesense"
	"github.com/carepath/snf-navigator/pkg/geo"
)

const collectionName = "facilities"

// TypesenseAdapter implements facility name search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.FacilitySearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the facilities collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "state", Type: "string", Facet: pointer.True()},
			{Name: "location", Type: "geopoint", Optional: pointer.True()},
			{Name: "composite_score", Type: "float", Optional: pointer.True()},
		},
	}

	if _, err := a.client.Client().Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// Index indexes a facility document keyed by CCN
func (a *TypesenseAdapter) Index(ctx context.Context, facility *entities.Facility) error {
	document := map[string]interface{}{
		"id":    facility.CCN,
		"name":  facility.Name,
		"city":  facility.Address.City,
		"state": facility.Address.State,
	}
	if facility.Location != nil {
		document["location"] = []float64{facility.Location.Latitude, facility.Location.Longitude}
	}
	if score := facility.CompositeScore(); score != nil {
		document["composite_score"] = *score
	}

	if _, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document); err != nil {
		return fmt.Errorf("failed to index facility %s: %w", facility.CCN, err)
	}
	return nil
}

// Search performs a name search and returns matching facilities
func (a *TypesenseAdapter) Search(ctx context.Context, query string, limit int) ([]*entities.Facility, error) {
	if limit <= 0 {
		limit = 10
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("typesense search failed: %w", err)
	}

	var facilities []*entities.Facility
	if result.Hits == nil {
		return facilities, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		facilities = append(facilities, documentToFacility(*hit.Document))
	}
	return facilities, nil
}

func documentToFacility(doc map[string]interface{}) *entities.Facility {
	facility := &entities.Facility{}
	if v, ok := doc["id"].(string); ok {
		facility.CCN = v
	}
	if v, ok := doc["name"].(string); ok {
		facility.Name = v
	}
	if v, ok := doc["city"].(string); ok {
		facility.Address.City = v
	}
	if v, ok := doc["state"].(string); ok {
		facility.Address.State = v
	}
	if v, ok := doc["location"].([]interface{}); ok && len(v) == 2 {
		lat, latOK := v[0].(float64)
		lon, lonOK := v[1].(float64)
		if latOK && lonOK {
			facility.Location = &geo.Coordinates{Latitude: lat, Longitude: lon}
		}
	}
	return facility
}
