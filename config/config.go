package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Version is the API version exposed in the route prefix. Overridden at build
// time with -ldflags "-X go-jobboard-backend/config.Version=x.y.z".
var Version = "1.0.0"

// Store drivers
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port       string
	Mode       string
	AppVersion string

	// Persistence
	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DBUrl         string

	// Credentials
	JWTSecret  string
	JWTTTL     time.Duration
	CookieName string

	CORSOrigins []string

	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int

	// SMTP Configuration
	SMTPHost     string
	SMTPPort     string
	SMTPEmail    string
	SMTPPassword string

	AccessLogPath string

	// File storage
	UploadDir         string
	S3Bucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string
	S3PublicURL       string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "2622"),
		Mode:       strings.ToLower(getEnv("MODE", "production")),
		AppVersion: getEnv("APP_VERSION", Version),

		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "jobboard"),
		DBUrl:         getEnv("DATABASE_URL", ""),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTTTL:     time.Duration(getEnvInt("JWT_TTL_HOURS", 24*7)) * time.Hour,
		CookieName: getEnv("COOKIE_NAME", "token"),

		CORSOrigins: splitList(getEnv("CORS_ORIGIN", "http://localhost:3000")),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPEmail:    getEnv("SMTP_EMAIL", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		AccessLogPath: getEnv("ACCESS_LOG_PATH", "logs/app.log"),

		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "ap-south-1"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		S3PublicURL:       strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo store driver")
		}
	case StorePostgres:
		if c.DBUrl == "" {
			return errors.New("DATABASE_URL is required for the postgres store driver")
		}
	case StoreMemory:
	default:
		return errors.New("STORE_DRIVER must be one of mongo, postgres, memory")
	}

	if c.JWTSecret == "" {
		if !c.IsDev() {
			return errors.New("JWT_SECRET is required")
		}
		log.Println("WARNING: JWT_SECRET is missing. Using an insecure development secret.")
		c.JWTSecret = "dev-secret-do-not-use-in-production"
	}
	return nil
}

// IsDev reports whether raw error details may be returned to clients.
func (c *Config) IsDev() bool {
	return c.Mode == "dev" || c.Mode == "development"
}

// APIPrefix is the versioned route prefix, e.g. /api/v1.0.0.
func (c *Config) APIPrefix() string {
	return "/api/v" + c.AppVersion
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
