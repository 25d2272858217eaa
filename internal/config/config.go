package config

import (
	"encoding/base64"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the development fallback for JWT_SECRET. Production
// refuses to start with it.
const DefaultJWTSecret = "secret"

// ErrInsecureJWTSecret is returned by Validate in production when JWT_SECRET
// is unset or left at the development default.
var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	DBDriver          string
	DatabaseURL       string
	DBMaxIdleConns    int
	DBMaxOpenConns    int
	DBConnMaxLifetime time.Duration
	DBTracing         bool

	JWTSecret      string
	JWTExpireHours int

	FrontendURL string

	StorageBackend       string
	UploadDir            string
	MaxUploadBytes       int64
	CloudinaryCloudName  string
	CloudinaryAPIKey     string
	CloudinaryAPISecret  string
	CloudinaryFolder     string
	GCSBucket            string
	GCSCredentialsJSON   string
	GCSCredentialsBase64 string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitRequests int
	RateLimitWindow   time.Duration

	// When true, only the admin who processed a report (or a super-admin)
	// may complete it.
	LifecycleSameHandler bool
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL:       getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=whistleblow port=5432 sslmode=disable"),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 50),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		DBTracing:         getEnvBool("DB_TRACING", false),

		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		StorageBackend:       strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
		UploadDir:            getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,
		CloudinaryCloudName:  getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:     getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:  getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:     getEnv("CLOUDINARY_FOLDER", "whistleblow"),
		GCSBucket:            getEnv("GCS_BUCKET", ""),
		GCSCredentialsJSON:   getEnv("GCS_CREDENTIALS_JSON", ""),
		GCSCredentialsBase64: getEnv("GCS_CREDENTIALS_BASE64", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 20),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		LifecycleSameHandler: getEnvBool("LIFECYCLE_SAME_HANDLER", false),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate rejects settings the server must not run with.
func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return ErrInsecureJWTSecret
	}
	return nil
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpireHours) * time.Hour
}

// GCSCredentials returns the service account JSON, preferring the raw form
// over the base64 one. Empty means application default credentials.
func (c *Config) GCSCredentials() ([]byte, error) {
	if c.GCSCredentialsJSON != "" {
		return []byte(c.GCSCredentialsJSON), nil
	}
	if c.GCSCredentialsBase64 == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(c.GCSCredentialsBase64)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
