package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/clients/postgres"
	"github.com/carepath/snf-navigator/pkg/geo"

	apperrors "github.com/carepath/snf-navigator/pkg/errors"
)

// FacilityAdapter implements FacilityRepository
type FacilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var facilityColumns = []interface{}{
	"ccn", "name", "street", "city", "state", "zip_code",
	"latitude", "longitude", "place_id",
	"overall_rating", "health_inspection_rating", "staffing_rating", "quality_measure_rating",
	"ownership_type", "certified_beds", "is_active",
}

// GetByCCN retrieves a facility by normalized CCN
func (a *FacilityAdapter) GetByCCN(ctx context.Context, ccn string) (*entities.Facility, error) {
	query, args, err := a.db.Select(facilityColumns...).
		From("facilities").
		Where(goqu.Ex{"ccn": ccn}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility query", err)
	}

	facility, err := scanFacility(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with ccn %s not found", ccn))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get facility", err)
	}
	return facility, nil
}

// List retrieves all active facilities
func (a *FacilityAdapter) List(ctx context.Context) ([]*entities.Facility, error) {
	query, args, err := a.db.Select(facilityColumns...).
		From("facilities").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("ccn").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	var facilities []*entities.Facility
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, facility)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate facilities", err)
	}
	return facilities, nil
}

// Upsert inserts or updates a facility by CCN
func (a *FacilityAdapter) Upsert(ctx context.Context, facility *entities.Facility) error {
	var lat, lon sql.NullFloat64
	if facility.Location != nil {
		lat = sql.NullFloat64{Float64: facility.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: facility.Location.Longitude, Valid: true}
	}

	record := goqu.Record{
		"ccn":                      facility.CCN,
		"name":                     facility.Name,
		"street":                   facility.Address.Street,
		"city":                     facility.Address.City,
		"state":                    facility.Address.State,
		"zip_code":                 facility.Address.ZipCode,
		"latitude":                 lat,
		"longitude":                lon,
		"place_id":                 sql.NullString{String: facility.PlaceID, Valid: facility.PlaceID != ""},
		"overall_rating":           nullFloat(facility.OverallRating),
		"health_inspection_rating": nullFloat(facility.HealthInspection),
		"staffing_rating":          nullFloat(facility.StaffingRating),
		"quality_measure_rating":   nullFloat(facility.QualityMeasure),
		"ownership_type":           facility.OwnershipType,
		"certified_beds":           nullInt(facility.CertifiedBeds),
		"is_active":                facility.IsActive,
	}

	update := goqu.Record{}
	for k, v := range record {
		if k != "ccn" {
			update[k] = v
		}
	}

	query, args, err := a.db.Insert("facilities").
		Rows(record).
		OnConflict(goqu.DoUpdate("ccn", update)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build facility upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert facility", err)
	}
	return nil
}

func scanFacility(row rowScanner) (*entities.Facility, error) {
	facility := &entities.Facility{}
	var lat, lon sql.NullFloat64
	var placeID sql.NullString
	var overall, inspection, staffing, quality sql.NullFloat64
	var beds sql.NullInt64

	err := row.Scan(
		&facility.CCN,
		&facility.Name,
		&facility.Address.Street,
		&facility.Address.City,
		&facility.Address.State,
		&facility.Address.ZipCode,
		&lat,
		&lon,
		&placeID,
		&overall,
		&inspection,
		&staffing,
		&quality,
		&facility.OwnershipType,
		&beds,
		&facility.IsActive,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		facility.Location = &geo.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	facility.PlaceID = placeID.String
	facility.OverallRating = floatPtr(overall)
	facility.HealthInspection = floatPtr(inspection)
	facility.StaffingRating = floatPtr(staffing)
	facility.QualityMeasure = floatPtr(quality)
	if beds.Valid {
		n := int(beds.Int64)
		facility.CertifiedBeds = &n
	}
	return facility, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
