package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SequenceBackendSQL   = "sql"
	SequenceBackendRedis = "redis"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	LogLevel          string
	LogFormat         string
	SQLLogLevel       string
	OTLPEndpoint      string
	OTLPProtocol      string
	OTelEnabled       bool
	OTelSamplingRatio float64

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	DBMigrate         bool
	SeedDemoData      bool

	SequenceBackend string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	CORSAllowedOrigins []string
	CompanyConfigPath  string
	PDFEnabled         bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "gstbilling"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":5000"),
		LogLevel:          strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(getenv("LOG_FORMAT", "json")),
		SQLLogLevel:       strings.ToLower(getenv("LOG_SQL_LEVEL", "warn")),
		OTLPEndpoint:      strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")),
		OTLPProtocol:      strings.ToLower(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")),
		OTelSamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		DBType:            strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "gstbilling"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "gstbilling.db"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		DBMigrate:         getenvBool("DATABASE_MIGRATE", true),
		SeedDemoData:      getenvBool("SEED_DEMO_DATA", false),
		SequenceBackend:   normalizeSequenceBackend(getenv("SEQUENCE_BACKEND", SequenceBackendSQL)),
		RedisAddr:         strings.TrimSpace(getenv("REDIS_ADDR", "localhost:6379")),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getenvInt("REDIS_DB", 0),

		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		CompanyConfigPath:  strings.TrimSpace(getenv("COMPANY_CONFIG_PATH", "")),
		PDFEnabled:         getenvBool("PDF_ENABLED", true),
	}

	// Exporting needs a collector; without an endpoint spans and metrics stay local.
	cfg.OTelEnabled = getenvBool("OTEL_ENABLED", cfg.OTLPEndpoint != "")

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func normalizeSequenceBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SequenceBackendRedis:
		return SequenceBackendRedis
	default:
		return SequenceBackendSQL
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
