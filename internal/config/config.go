package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"phonedeal-be/internal/utils"

	"github.com/joho/godotenv"
)

const (
	DataSourcePostgres = "postgres"
	DataSourceDemo     = "demo"

	defaultPort               = "8080"
	defaultTimezone           = "Asia/Seoul"
	defaultGeocodeConcurrency = 8
)

var ErrMissingDBHost = errors.New("DB_HOST is required for the postgres data source")

type Config struct {
	AppPort string
	AppEnv  string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// DataSource selects the repositories: "postgres" or "demo".
	DataSource string
	RedisURL   string

	NCPKeyID         string
	NCPKey           string
	NaverMapClientID string

	GeocodeConcurrency int
	NearbyRequiresAuth bool
	JWTSecret          string
	InternalSecretKey  string
	StoreTimezone      string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:            envOr("APP_PORT", defaultPort),
		AppEnv:             os.Getenv("APP_ENV"),
		DBHost:             os.Getenv("DB_HOST"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             os.Getenv("DB_PORT"),
		DataSource:         strings.ToLower(envOr("DATA_SOURCE", DataSourcePostgres)),
		RedisURL:           os.Getenv("REDIS_URL"),
		NCPKeyID:           os.Getenv("NCP_API_KEY_ID"),
		NCPKey:             os.Getenv("NCP_API_KEY"),
		NaverMapClientID:   os.Getenv("NAVER_MAP_CLIENT_ID"),
		GeocodeConcurrency: utils.ParseIntOr(os.Getenv("GEOCODE_CONCURRENCY"), defaultGeocodeConcurrency),
		NearbyRequiresAuth: utils.ParseBool(os.Getenv("NEARBY_REQUIRES_AUTH"), false),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		InternalSecretKey:  os.Getenv("INTERNAL_SECRET_KEY"),
		StoreTimezone:      envOr("STORE_TIMEZONE", defaultTimezone),
	}

	if cfg.GeocodeConcurrency <= 0 {
		cfg.GeocodeConcurrency = defaultGeocodeConcurrency
	}
	if cfg.DataSource != DataSourceDemo {
		cfg.DataSource = DataSourcePostgres
		if cfg.DBHost == "" {
			return nil, ErrMissingDBHost
		}
	}
	return cfg, nil
}

func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Environment variables not loaded properly: %v", err)
	}
	return cfg
}

func (c *Config) UseDemoData() bool {
	return c.DataSource == DataSourceDemo
}

func (c *Config) GeocodingEnabled() bool {
	return c.NCPKeyID != "" && c.NCPKey != ""
}

// Location is the zone store business hours are written in. An unknown zone
// falls back to UTC+9.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.StoreTimezone)
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
