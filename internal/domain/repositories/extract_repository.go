package repositories

import (
	"context"
)

// ExtractRow is one row of a yearly CMS extract. Column names vary by
// vintage and are resolved through the field-alias table in pkg/ccn.
type ExtractRow map[string]string

// ExtractRepository reads the yearly CMS extract tables the timeline
// aggregators join. Each table is keyed independently; rows are joined only
// by normalized CCN.
type ExtractRepository interface {
	// Years lists the extract years present in storage.
	Years(ctx context.Context) ([]int, error)

	// MDSRows returns resident-outcome measure rows for a year.
	MDSRows(ctx context.Context, year int) ([]ExtractRow, error)

	// ClaimsRows returns claims-based utilization measure rows for a year.
	ClaimsRows(ctx context.Context, year int) ([]ExtractRow, error)

	// DirectoryRows returns provider directory rows for a year.
	DirectoryRows(ctx context.Context, year int) ([]ExtractRow, error)

	// CitationRows returns citation rows for a year.
	CitationRows(ctx context.Context, year int) ([]ExtractRow, error)

	// PenaltyRows returns penalty rows for a year.
	PenaltyRows(ctx context.Context, year int) ([]ExtractRow, error)
}

// PlaceIDSeedRepository reads the curated CCN to place-id seed table, which
// takes priority over cache and live lookups during place-id resolution.
type PlaceIDSeedRepository interface {
	GetByCCN(ctx context.Context, ccn string) (string, error)
}
