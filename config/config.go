package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	APIBaseURL     string
	HTTPTimeout    time.Duration
	RequestsPerSec float64
	RedisURL       string
	StoreNamespace string
	SnapshotTTL    time.Duration
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:            getEnv("ENV", "development"),
		APIBaseURL:     getEnv("API_BASE_URL", "http://127.0.0.1:5000"),
		HTTPTimeout:    getDuration("HTTP_TIMEOUT", 30*time.Second),
		RequestsPerSec: getFloat("REQUESTS_PER_SEC", 20),
		RedisURL:       getEnv("REDIS_URL", ""),
		StoreNamespace: getEnv("STORE_NAMESPACE", "vasa"),
		SnapshotTTL:    getDuration("SNAPSHOT_TTL", time.Hour*24*7),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
