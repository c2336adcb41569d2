package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("ANALYSIS_DEFAULT_RADIUS_MILES")
	os.Unsetenv("ANALYSIS_DEFAULT_LIMIT")
	os.Unsetenv("PLACE_ID_MAX_AGE_DAYS")
	os.Unsetenv("REVIEW_MAX_AGE_DAYS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 50.0, cfg.Analysis.DefaultRadiusMiles)
	assert.Equal(t, 5, cfg.Analysis.DefaultLimit)
	assert.Equal(t, 30, cfg.Places.PlaceIDMaxAgeDays)
	assert.Equal(t, 7, cfg.Places.ReviewMaxAgeDays)
}

func TestLoad_GeocodingConfig(t *testing.T) {
	os.Setenv("GOOGLE_MAPS_API_KEY", "test-key")
	os.Setenv("GEOCODING_TIMEOUT_SECONDS", "3")
	defer func() {
		os.Unsetenv("GOOGLE_MAPS_API_KEY")
		os.Unsetenv("GEOCODING_TIMEOUT_SECONDS")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Geocoding.GoogleAPIKey)
	assert.Equal(t, 3, cfg.Geocoding.TimeoutSeconds)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "snf",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=snf sslmode=disable", cfg.DatabaseDSN())
}
