package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/clients/postgres"
	"github.com/carepath/snf-navigator/pkg/geo"

	apperrors "github.com/carepath/snf-navigator/pkg/errors"
)

// HospitalAdapter implements HospitalRepository
type HospitalAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHospitalAdapter creates a new hospital adapter
func NewHospitalAdapter(client *postgres.Client) repositories.HospitalRepository {
	return &HospitalAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var hospitalColumns = []interface{}{
	"id", "name", "match_key", "street", "city", "state", "zip_code",
	"latitude", "longitude", "created_at", "updated_at",
}

// GetByMatchKey retrieves a hospital by its normalized name key
func (a *HospitalAdapter) GetByMatchKey(ctx context.Context, matchKey string) (*entities.Hospital, error) {
	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Where(goqu.Ex{"match_key": matchKey}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build hospital query", err)
	}

	hospital, err := scanHospital(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital %q not found", matchKey))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get hospital", err)
	}
	return hospital, nil
}

// List retrieves all hospitals
func (a *HospitalAdapter) List(ctx context.Context) ([]*entities.Hospital, error) {
	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build hospital list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list hospitals", err)
	}
	defer rows.Close()

	var hospitals []*entities.Hospital
	for rows.Next() {
		hospital, err := scanHospital(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan hospital", err)
		}
		hospitals = append(hospitals, hospital)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate hospitals", err)
	}
	return hospitals, nil
}

// Upsert inserts or updates a hospital by match key
func (a *HospitalAdapter) Upsert(ctx context.Context, hospital *entities.Hospital) error {
	now := time.Now().Unix()
	if hospital.CreatedAt == 0 {
		hospital.CreatedAt = now
	}
	hospital.UpdatedAt = now

	var lat, lon sql.NullFloat64
	if hospital.Location != nil {
		lat = sql.NullFloat64{Float64: hospital.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: hospital.Location.Longitude, Valid: true}
	}

	record := goqu.Record{
		"id":         hospital.ID,
		"name":       hospital.Name,
		"match_key":  hospital.MatchKey,
		"street":     hospital.Address.Street,
		"city":       hospital.Address.City,
		"state":      hospital.Address.State,
		"zip_code":   hospital.Address.ZipCode,
		"latitude":   lat,
		"longitude":  lon,
		"created_at": hospital.CreatedAt,
		"updated_at": hospital.UpdatedAt,
	}

	query, args, err := a.db.Insert("hospitals").
		Rows(record).
		OnConflict(goqu.DoUpdate("match_key", goqu.Record{
			"name":       hospital.Name,
			"street":     hospital.Address.Street,
			"city":       hospital.Address.City,
			"state":      hospital.Address.State,
			"zip_code":   hospital.Address.ZipCode,
			"latitude":   lat,
			"longitude":  lon,
			"updated_at": hospital.UpdatedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build hospital upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert hospital", err)
	}
	return nil
}

// UpdateLocation persists lazily-resolved coordinates
func (a *HospitalAdapter) UpdateLocation(ctx context.Context, id string, location geo.Coordinates) error {
	query, args, err := a.db.Update("hospitals").
		Set(goqu.Record{
			"latitude":   location.Latitude,
			"longitude":  location.Longitude,
			"updated_at": time.Now().Unix(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build hospital location update", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update hospital location", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHospital(row rowScanner) (*entities.Hospital, error) {
	hospital := &entities.Hospital{}
	var lat, lon sql.NullFloat64

	err := row.Scan(
		&hospital.ID,
		&hospital.Name,
		&hospital.MatchKey,
		&hospital.Address.Street,
		&hospital.Address.City,
		&hospital.Address.State,
		&hospital.Address.ZipCode,
		&lat,
		&lon,
		&hospital.CreatedAt,
		&hospital.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		hospital.Location = &geo.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	return hospital, nil
}
