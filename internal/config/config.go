package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centralizes configuration loaded from the environment.
type Config struct {
	Port            int
	DBDSN           string
	RedisURL        string
	JWTAccessTTL    time.Duration
	JWTRefreshTTL   time.Duration
	JWTSecret       string
	AllowOrigins    []string
	RateLimitPublic RateLimitConfig
	RateLimitAuth   RateLimitConfig
	Storage         StorageConfig
}

// RateLimitConfig holds simple throttling limits.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// StorageConfig selects and configures the media upload backend.
type StorageConfig struct {
	Provider    string
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
	MaxUploadMB int64
}

// Load reads environment variables and applies safe defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("invalid PORT")
	}
	cfg.Port = port

	cfg.DBDSN = getEnv("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is required")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET must be at least 32 characters")
	}

	accessTTL, err := parseDurationEnv("JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.JWTAccessTTL = accessTTL

	refreshTTL, err := parseDurationEnv("JWT_REFRESH_TTL", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWTRefreshTTL = refreshTTL

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	publicRPS, err := parseFloatEnv("RATE_LIMIT_PUBLIC_RPS", 10)
	if err != nil {
		return nil, err
	}
	publicBurst, err := parseIntEnv("RATE_LIMIT_PUBLIC_BURST", 20)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: publicRPS, Burst: publicBurst}

	authRPS, err := parseFloatEnv("RATE_LIMIT_AUTH_RPS", 10)
	if err != nil {
		return nil, err
	}
	authBurst, err := parseIntEnv("RATE_LIMIT_AUTH_BURST", 40)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitAuth = RateLimitConfig{RequestsPerSecond: authRPS, Burst: authBurst}

	cfg.Storage = StorageConfig{
		Provider:    strings.TrimSpace(getEnv("STORAGE_PROVIDER", "noop")),
		S3Endpoint:  getEnv("STORAGE_S3_ENDPOINT", ""),
		S3Region:    getEnv("STORAGE_S3_REGION", "auto"),
		S3Bucket:    getEnv("STORAGE_S3_BUCKET", ""),
		S3AccessKey: getEnv("STORAGE_S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("STORAGE_S3_SECRET_KEY", ""),
		S3PublicURL: getEnv("STORAGE_S3_PUBLIC_URL", ""),
	}

	maxUpload, err := strconv.ParseInt(getEnv("STORAGE_MAX_UPLOAD_MB", "25"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, errors.New("invalid STORAGE_MAX_UPLOAD_MB")
	}
	cfg.Storage.MaxUploadMB = maxUpload

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseFloatEnv(key string, def float64) (float64, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return f, nil
}

func parseIntEnv(key string, def int) (int, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return dur, nil
}
