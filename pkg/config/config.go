package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Geocoding GeocodingConfig
	Places    PlacesConfig
	CMS       CMSConfig
	Analysis  AnalysisConfig
	OTEL      OTELConfig
	Env       string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DatabaseDSN builds the postgres connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisAddr returns the host:port address for Redis
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// GeocodingConfig holds the geocoder provider chain configuration
type GeocodingConfig struct {
	GoogleAPIKey   string
	NominatimURL   string
	CensusURL      string
	TimeoutSeconds int
}

// PlacesConfig holds place-search and review configuration
type PlacesConfig struct {
	APIKey            string
	PlaceIDMaxAgeDays int
	ReviewMaxAgeDays  int
	TimeoutSeconds    int
}

// CMSConfig holds the live provider-data endpoint configuration
type CMSConfig struct {
	ProviderDataURL string
	TimeoutSeconds  int
}

// AnalysisConfig holds ranking defaults
type AnalysisConfig struct {
	DefaultRadiusMiles float64
	DefaultLimit       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Database: getEnv("DB_NAME", "snf_navigator"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Geocoding: GeocodingConfig{
			GoogleAPIKey:   getEnv("GOOGLE_MAPS_API_KEY", ""),
			NominatimURL:   getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
			CensusURL:      getEnv("CENSUS_GEOCODER_URL", "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress"),
			TimeoutSeconds: getEnvAsInt("GEOCODING_TIMEOUT_SECONDS", 8),
		},
		Places: PlacesConfig{
			APIKey:            getEnv("GOOGLE_PLACES_API_KEY", ""),
			PlaceIDMaxAgeDays: getEnvAsInt("PLACE_ID_MAX_AGE_DAYS", 30),
			ReviewMaxAgeDays:  getEnvAsInt("REVIEW_MAX_AGE_DAYS", 7),
			TimeoutSeconds:    getEnvAsInt("PLACES_TIMEOUT_SECONDS", 8),
		},
		CMS: CMSConfig{
			ProviderDataURL: getEnv("CMS_PROVIDER_DATA_URL", "https://data.cms.gov/provider-data/api/1/datastore/query/4pq5-n9py/0"),
			TimeoutSeconds:  getEnvAsInt("CMS_TIMEOUT_SECONDS", 10),
		},
		Analysis: AnalysisConfig{
			DefaultRadiusMiles: getEnvAsFloat("ANALYSIS_DEFAULT_RADIUS_MILES", 50),
			DefaultLimit:       getEnvAsInt("ANALYSIS_DEFAULT_LIMIT", 5),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "snf-navigator"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Env: getEnv("APP_ENV", "development"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
