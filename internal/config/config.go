package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NewRelic   NewRelicConfig
	Gateway    GatewayConfig
	Fare       FareConfig
	Reconciler ReconcilerConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// GatewayConfig holds payment gateway credentials.
type GatewayConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
	// CallTimeout bounds the outbound order-creation call.
	CallTimeout time.Duration
}

// FareConfig holds the default pricing knobs used when a driver does not
// provide their own base fare and per-km rate.
type FareConfig struct {
	BaseFare  float64
	RatePerKm float64
}

// ReconcilerConfig controls the stale-booking sweep.
type ReconcilerConfig struct {
	Interval time.Duration
	// MaxPendingAge is how long a PENDING booking may wait for payment
	// verification before its seats are released.
	MaxPendingAge time.Duration
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables, reading .env if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "carpool"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "carpool-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Gateway: GatewayConfig{
			KeyID:       getEnv("GATEWAY_KEY_ID", "sandbox_key"),
			KeySecret:   getEnv("GATEWAY_KEY_SECRET", "sandbox_secret"),
			Currency:    getEnv("GATEWAY_CURRENCY", "INR"),
			CallTimeout: getDurationEnv("GATEWAY_CALL_TIMEOUT", 5*time.Second),
		},
		Fare: FareConfig{
			BaseFare:  getFloatEnv("FARE_BASE", 50),
			RatePerKm: getFloatEnv("FARE_RATE_PER_KM", 5),
		},
		Reconciler: ReconcilerConfig{
			Interval:      getDurationEnv("RECONCILER_INTERVAL", 5*time.Minute),
			MaxPendingAge: getDurationEnv("RECONCILER_MAX_PENDING_AGE", 30*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		return cast.ToInt(value)
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		return cast.ToFloat64(value)
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return cast.ToBool(value)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
