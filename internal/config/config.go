package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort       = "8000"
	defaultUploadDir     = "uploads"
	defaultMaxUploadSize = 5 * 1024 * 1024 // 5 MiB
)

var defaultAllowedContentTypes = []string{"image/jpeg", "image/png", "image/webp"}

// Config holds all environment-driven settings.
type Config struct {
	AppPort string
	DBDSN   string

	UploadDir           string
	MaxUploadSizeBytes  int64
	AllowedContentTypes []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads the configuration from the environment, after loading .env when
// one exists. DB_DSN is required; everything else has a default.
func Load() (*Config, error) {
	_ = godotenv.Load() // no .env file means system environment only

	cfg := &Config{
		AppPort:             getEnv("APP_PORT", defaultAppPort),
		DBDSN:               os.Getenv("DB_DSN"),
		UploadDir:           getEnv("UPLOAD_DIR", defaultUploadDir),
		MaxUploadSizeBytes:  defaultMaxUploadSize,
		AllowedContentTypes: defaultAllowedContentTypes,
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}

	if v := os.Getenv("MAX_UPLOAD_SIZE_BYTES"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE_BYTES %q", v)
		}
		cfg.MaxUploadSizeBytes = size
	}

	if v := os.Getenv("ALLOWED_UPLOAD_CONTENT_TYPES"); v != "" {
		var types []string
		for _, ct := range strings.Split(v, ",") {
			ct = strings.ToLower(strings.TrimSpace(ct))
			if ct != "" {
				types = append(types, ct)
			}
		}
		if len(types) == 0 {
			return nil, fmt.Errorf("ALLOWED_UPLOAD_CONTENT_TYPES is set but empty")
		}
		cfg.AllowedContentTypes = types
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q", v)
		}
		cfg.RedisDB = db
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
