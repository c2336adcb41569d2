package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/clients/postgres"

	apperrors "github.com/carepath/snf-navigator/pkg/errors"
)

// GeocodeStoreAdapter implements GeocodeStore on postgres. The store never
// expires entries; geocoding is treated as immutable once resolved.
type GeocodeStoreAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewGeocodeStoreAdapter creates a new geocode store adapter
func NewGeocodeStoreAdapter(client *postgres.Client) repositories.GeocodeStore {
	return &GeocodeStoreAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get retrieves a geocode entry, returning (nil, nil) on a miss
func (a *GeocodeStoreAdapter) Get(ctx context.Context, key string) (*entities.GeocodeEntry, error) {
	query, args, err := a.db.Select("key", "latitude", "longitude", "formatted_address", "provider", "resolved_at").
		From("geocode_cache").
		Where(goqu.Ex{"key": key}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build geocode query", err)
	}

	entry := &entities.GeocodeEntry{}
	var formatted sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&entry.Key,
		&entry.Coordinates.Latitude,
		&entry.Coordinates.Longitude,
		&formatted,
		&entry.Provider,
		&entry.ResolvedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get geocode entry", err)
	}
	entry.FormattedAddress = formatted.String
	return entry, nil
}

// Put upserts a geocode entry by key
func (a *GeocodeStoreAdapter) Put(ctx context.Context, entry *entities.GeocodeEntry) error {
	if entry.ResolvedAt.IsZero() {
		entry.ResolvedAt = time.Now()
	}

	record := goqu.Record{
		"key":               entry.Key,
		"latitude":          entry.Coordinates.Latitude,
		"longitude":         entry.Coordinates.Longitude,
		"formatted_address": sql.NullString{String: entry.FormattedAddress, Valid: entry.FormattedAddress != ""},
		"provider":          entry.Provider,
		"resolved_at":       entry.ResolvedAt,
	}

	query, args, err := a.db.Insert("geocode_cache").
		Rows(record).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"latitude":          entry.Coordinates.Latitude,
			"longitude":         entry.Coordinates.Longitude,
			"formatted_address": record["formatted_address"],
			"provider":          entry.Provider,
			"resolved_at":       entry.ResolvedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build geocode upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert geocode entry", err)
	}
	return nil
}

// PlaceIDStoreAdapter implements PlaceIDStore on postgres
type PlaceIDStoreAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPlaceIDStoreAdapter creates a new place-id store adapter
func NewPlaceIDStoreAdapter(client *postgres.Client) repositories.PlaceIDStore {
	return &PlaceIDStoreAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get retrieves a place-id entry, returning (nil, nil) on a miss
func (a *PlaceIDStoreAdapter) Get(ctx context.Context, key string) (*entities.PlaceIDEntry, error) {
	query, args, err := a.db.Select("key", "place_id", "resolved_at").
		From("place_id_cache").
		Where(goqu.Ex{"key": key}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build place-id query", err)
	}

	entry := &entities.PlaceIDEntry{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&entry.Key,
		&entry.PlaceID,
		&entry.ResolvedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get place-id entry", err)
	}
	return entry, nil
}

// Put upserts a place-id entry by key
func (a *PlaceIDStoreAdapter) Put(ctx context.Context, entry *entities.PlaceIDEntry) error {
	if entry.ResolvedAt.IsZero() {
		entry.ResolvedAt = time.Now()
	}

	query, args, err := a.db.Insert("place_id_cache").
		Rows(goqu.Record{
			"key":         entry.Key,
			"place_id":    entry.PlaceID,
			"resolved_at": entry.ResolvedAt,
		}).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"place_id":    entry.PlaceID,
			"resolved_at": entry.ResolvedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build place-id upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert place-id entry", err)
	}
	return nil
}

// ReviewStoreAdapter implements ReviewStore on postgres. Snapshots are
// stored as jsonb keyed by place id.
type ReviewStoreAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewStoreAdapter creates a new review store adapter
func NewReviewStoreAdapter(client *postgres.Client) repositories.ReviewStore {
	return &ReviewStoreAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get retrieves a review snapshot, returning (nil, nil) on a miss
func (a *ReviewStoreAdapter) Get(ctx context.Context, placeID string) (*entities.ReviewSnapshot, error) {
	query, args, err := a.db.Select("snapshot").
		From("review_cache").
		Where(goqu.Ex{"place_id": placeID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review query", err)
	}

	var payload []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review snapshot", err)
	}

	snapshot := &entities.ReviewSnapshot{}
	if err := json.Unmarshal(payload, snapshot); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal review snapshot", err)
	}
	return snapshot, nil
}

// Put upserts a review snapshot by place id
func (a *ReviewStoreAdapter) Put(ctx context.Context, snapshot *entities.ReviewSnapshot) error {
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now()
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal review snapshot", err)
	}

	query, args, err := a.db.Insert("review_cache").
		Rows(goqu.Record{
			"place_id":   snapshot.PlaceID,
			"snapshot":   payload,
			"fetched_at": snapshot.FetchedAt,
		}).
		OnConflict(goqu.DoUpdate("place_id", goqu.Record{
			"snapshot":   payload,
			"fetched_at": snapshot.FetchedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert review snapshot", err)
	}
	return nil
}
