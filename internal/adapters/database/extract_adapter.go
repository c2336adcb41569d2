package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/clients/postgres"

	apperrors "github.com/carepath/snf-navigator/pkg/errors"
)

// Extract source table identifiers. Yearly CMS extracts are stored as raw
// jsonb rows per source so column drift between vintages survives ingestion.
const (
	SourceMDS       = "mds_measures"
	SourceClaims    = "claims_measures"
	SourceDirectory = "provider_directory"
	SourceCitations = "citations"
	SourcePenalties = "penalties"
)

// ExtractAdapter implements ExtractRepository over the extract_rows table
type ExtractAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.ExtractRepository = (*ExtractAdapter)(nil)

// NewExtractAdapter creates a new extract adapter
func NewExtractAdapter(client *postgres.Client) *ExtractAdapter {
	return &ExtractAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Years lists the distinct extract years present in storage
func (a *ExtractAdapter) Years(ctx context.Context) ([]int, error) {
	query, args, err := a.db.Select(goqu.DISTINCT("year")).
		From("extract_rows").
		Order(goqu.I("year").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build years query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list extract years", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, apperrors.NewInternalError("failed to scan extract year", err)
		}
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate extract years", err)
	}
	return years, nil
}

// MDSRows returns resident-outcome measure rows for a year
func (a *ExtractAdapter) MDSRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return a.rowsBySource(ctx, SourceMDS, year)
}

// ClaimsRows returns claims-based utilization measure rows for a year
func (a *ExtractAdapter) ClaimsRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return a.rowsBySource(ctx, SourceClaims, year)
}

// DirectoryRows returns provider directory rows for a year
func (a *ExtractAdapter) DirectoryRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return a.rowsBySource(ctx, SourceDirectory, year)
}

// CitationRows returns citation rows for a year
func (a *ExtractAdapter) CitationRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return a.rowsBySource(ctx, SourceCitations, year)
}

// PenaltyRows returns penalty rows for a year
func (a *ExtractAdapter) PenaltyRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return a.rowsBySource(ctx, SourcePenalties, year)
}

// InsertRows stores raw extract rows for a source and year (used by the seed loader)
func (a *ExtractAdapter) InsertRows(ctx context.Context, source string, year int, extractRows []repositories.ExtractRow) error {
	records := make([]interface{}, 0, len(extractRows))
	for _, row := range extractRows {
		payload, err := json.Marshal(row)
		if err != nil {
			return apperrors.NewInternalError("failed to marshal extract row", err)
		}
		records = append(records, goqu.Record{
			"source": source,
			"year":   year,
			"row":    payload,
		})
	}
	if len(records) == 0 {
		return nil
	}

	query, args, err := a.db.Insert("extract_rows").Rows(records...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build extract insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert extract rows", err)
	}
	return nil
}

func (a *ExtractAdapter) rowsBySource(ctx context.Context, source string, year int) ([]repositories.ExtractRow, error) {
	query, args, err := a.db.Select("row").
		From("extract_rows").
		Where(goqu.Ex{"source": source, "year": year}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build extract query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to query %s rows", source), err)
	}
	defer rows.Close()

	var result []repositories.ExtractRow
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, apperrors.NewInternalError("failed to scan extract row", err)
		}
		row := repositories.ExtractRow{}
		if err := json.Unmarshal(payload, &row); err != nil {
			return nil, apperrors.NewInternalError("failed to unmarshal extract row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate extract rows", err)
	}
	return result, nil
}

// PlaceIDSeedAdapter implements PlaceIDSeedRepository
type PlaceIDSeedAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPlaceIDSeedAdapter creates a new place-id seed adapter
func NewPlaceIDSeedAdapter(client *postgres.Client) repositories.PlaceIDSeedRepository {
	return &PlaceIDSeedAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByCCN looks up a seeded place id by normalized CCN. Returns an empty
// string when the facility is not in the seed table.
func (a *PlaceIDSeedAdapter) GetByCCN(ctx context.Context, ccn string) (string, error) {
	query, args, err := a.db.Select("place_id").
		From("place_id_seeds").
		Where(goqu.Ex{"ccn": ccn}).
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build place-id seed query", err)
	}

	var placeID string
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&placeID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewInternalError("failed to get place-id seed", err)
	}
	return placeID, nil
}
