package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures the runtime configuration for the TubeStream backend service.
type Config struct {
	AppPort       int
	MongoURI      string
	MongoDatabase string
	LogLevel      string

	ObjectStore ObjectStoreConfig
	Auth        AuthConfig
}

// ObjectStoreConfig describes the S3-compatible service holding video assets.
type ObjectStoreConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// AuthConfig describes the external identity provider trusted for bearer tokens.
type AuthConfig struct {
	IssuerURL        string
	Audience         string
	UserInfoEndpoint string
	UserInfoTimeout  time.Duration
}

// Load reads configuration from environment variables, applying sensible defaults
// for local development while allowing overrides through environment variables.
func Load() (Config, error) {
	cfg := Config{
		AppPort:       getInt("TUBESTREAM_PORT", 8080),
		MongoURI:      getString("TUBESTREAM_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getString("TUBESTREAM_MONGO_DATABASE", "tubestream"),
		LogLevel:      getString("TUBESTREAM_LOG_LEVEL", "info"),
		ObjectStore: ObjectStoreConfig{
			Bucket:        getString("TUBESTREAM_S3_BUCKET", "tubestream-assets"),
			Region:        getString("TUBESTREAM_S3_REGION", "us-east-1"),
			Endpoint:      getString("TUBESTREAM_S3_ENDPOINT", ""),
			PublicBaseURL: getString("TUBESTREAM_S3_PUBLIC_BASE_URL", ""),
		},
		Auth: AuthConfig{
			IssuerURL:        getString("TUBESTREAM_AUTH_ISSUER", "https://tubestream.us.auth0.com/"),
			Audience:         getString("TUBESTREAM_AUTH_AUDIENCE", "https://api.tubestream.dev"),
			UserInfoEndpoint: getString("TUBESTREAM_AUTH_USERINFO_ENDPOINT", "https://tubestream.us.auth0.com/userinfo"),
			UserInfoTimeout:  getDuration("TUBESTREAM_AUTH_USERINFO_TIMEOUT", 10*time.Second),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
