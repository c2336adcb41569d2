package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/carepath/snf-navigator/internal/adapters/database"
	"github.com/carepath/snf-navigator/internal/adapters/search"
	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/clients/postgres"
	"github.com/carepath/snf-navigator/internal/infrastructure/clients/typesense"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
	"github.com/carepath/snf-navigator/pkg/ccn"
	"github.com/carepath/snf-navigator/pkg/config"
	"github.com/carepath/snf-navigator/pkg/geo"
)

// extractSpec is one -extract flag value in source:year:path form.
type extractSpec struct {
	source string
	year   int
	path   string
}

type extractFlags []extractSpec

func (f *extractFlags) String() string {
	return fmt.Sprintf("%d extracts", len(*f))
}

func (f *extractFlags) Set(value string) error {
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 {
		return fmt.Errorf("expected source:year:path, got %q", value)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid year in %q: %w", value, err)
	}
	switch parts[0] {
	case database.SourceMDS, database.SourceClaims, database.SourceDirectory,
		database.SourceCitations, database.SourcePenalties:
	default:
		return fmt.Errorf("unknown extract source %q", parts[0])
	}
	*f = append(*f, extractSpec{source: parts[0], year: year, path: parts[2]})
	return nil
}

func main() {
	_ = godotenv.Load()

	hospitalsPath := flag.String("hospitals", "", "hospital catalog CSV")
	facilitiesPath := flag.String("facilities", "", "facility directory CSV")
	var extracts extractFlags
	flag.Var(&extracts, "extract", "yearly extract CSV as source:year:path (repeatable)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("snf-navigator-seed", cfg.Env)
	logger := observability.GetLogger()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	ctx := context.Background()

	var searchRepo *search.TypesenseAdapter
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err != nil {
		logger.Warn().Err(err).Msg("Typesense unavailable, skipping search indexing")
	} else {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to init Typesense schema")
			searchRepo = nil
		}
	}

	if *hospitalsPath != "" {
		n, err := seedHospitals(ctx, database.NewHospitalAdapter(pgClient), *hospitalsPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *hospitalsPath).Msg("hospital seed failed")
		}
		logger.Info().Int("count", n).Msg("hospitals seeded")
	}

	if *facilitiesPath != "" {
		n, err := seedFacilities(ctx, database.NewFacilityAdapter(pgClient), searchRepo, *facilitiesPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *facilitiesPath).Msg("facility seed failed")
		}
		logger.Info().Int("count", n).Msg("facilities seeded")
	}

	extractAdapter := database.NewExtractAdapter(pgClient)
	for _, spec := range extracts {
		n, err := seedExtract(ctx, extractAdapter, spec)
		if err != nil {
			logger.Fatal().Err(err).Str("source", spec.source).Int("year", spec.year).Msg("extract seed failed")
		}
		logger.Info().Str("source", spec.source).Int("year", spec.year).Int("count", n).Msg("extract seeded")
	}
}

// readRows streams a CSV as header-keyed row maps. Header names are
// lowercased and trimmed so the field-alias table matches any vintage.
func readRows(path string, fn func(row map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	for i, col := range header {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		row := make(map[string]string, len(header))
		for i, value := range record {
			if i < len(header) {
				row[header[i]] = value
			}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func seedHospitals(ctx context.Context, repo repositories.HospitalRepository, path string) (int, error) {
	count := 0
	err := readRows(path, func(row map[string]string) error {
		name := ccn.Field(row, "name")
		if name == "" {
			return nil
		}
		hospital := &entities.Hospital{
			ID:       uuid.NewString(),
			Name:     name,
			MatchKey: entities.HospitalMatchKey(name),
			Address: entities.Address{
				Street:  ccn.Field(row, "address"),
				City:    ccn.Field(row, "city"),
				State:   ccn.Field(row, "state"),
				ZipCode: ccn.Field(row, "zip"),
			},
			Location: coordinatesFrom(row),
		}
		if err := repo.Upsert(ctx, hospital); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

func seedFacilities(ctx context.Context, repo repositories.FacilityRepository, searchRepo *search.TypesenseAdapter, path string) (int, error) {
	count := 0
	err := readRows(path, func(row map[string]string) error {
		key := ccn.Normalize(ccn.Field(row, "ccn"))
		if key == "" {
			key = ccn.SynthesizeKey(ccn.Field(row, "name"))
		}
		if key == "" {
			return nil
		}

		facility := &entities.Facility{
			CCN:  key,
			Name: ccn.Field(row, "name"),
			Address: entities.Address{
				Street:  ccn.Field(row, "address"),
				City:    ccn.Field(row, "city"),
				State:   ccn.Field(row, "state"),
				ZipCode: ccn.Field(row, "zip"),
			},
			Location:         coordinatesFrom(row),
			PlaceID:          strings.TrimSpace(row["place_id"]),
			OverallRating:    floatField(row, "overall_rating"),
			HealthInspection: floatField(row, "health_inspection_rating"),
			StaffingRating:   floatField(row, "staffing_rating"),
			QualityMeasure:   floatField(row, "quality_measure_rating"),
			OwnershipType:    strings.TrimSpace(row["ownership_type"]),
			CertifiedBeds:    intField(row, "certified_beds"),
			IsActive:         true,
		}
		if err := repo.Upsert(ctx, facility); err != nil {
			return err
		}
		if searchRepo != nil {
			if err := searchRepo.Index(ctx, facility); err != nil {
				observability.GetLogger().Warn().Err(err).Str("ccn", facility.CCN).Msg("failed to index facility")
			}
		}
		count++
		return nil
	})
	return count, err
}

func seedExtract(ctx context.Context, adapter *database.ExtractAdapter, spec extractSpec) (int, error) {
	const batchSize = 500

	count := 0
	batch := make([]repositories.ExtractRow, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := adapter.InsertRows(ctx, spec.source, spec.year, batch); err != nil {
			return err
		}
		count += len(batch)
		batch = batch[:0]
		return nil
	}

	err := readRows(spec.path, func(row map[string]string) error {
		batch = append(batch, repositories.ExtractRow(row))
		if len(batch) == batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, flush()
}

func coordinatesFrom(row map[string]string) *geo.Coordinates {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(row["latitude"]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row["longitude"]), 64)
	if latErr != nil || lonErr != nil || (lat == 0 && lon == 0) {
		return nil
	}
	return &geo.Coordinates{Latitude: lat, Longitude: lon}
}

func floatField(row map[string]string, key string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(row[key]), 64)
	if err != nil {
		return nil
	}
	return &v
}

func intField(row map[string]string, key string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(row[key]))
	if err != nil {
		return nil
	}
	return &v
}
