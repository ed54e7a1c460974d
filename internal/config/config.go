package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Download DownloadConfig
	Tools    ToolsConfig
	S3       S3Config
	CORS     CORSConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type APIConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

type DownloadConfig struct {
	TempDir          string
	DownloadTimeout  time.Duration
	MetadataTimeout  time.Duration
	MusicTimeout     time.Duration
	KillGracePeriod  time.Duration
	FlushDelay       time.Duration
	MaxMusicFileSize int64
}

// ToolsConfig names the external programs and how to launch them.
type ToolsConfig struct {
	Interpreters    []string
	ExtractorBinary string
	ExtractorModule string
	MusicModule     string
	JSRuntime       string
}

type S3Config struct {
	Enabled         bool
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	EndpointURL     string
	Prefix          string
}

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
	Profile          string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{}
	var err error

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")

	// Inbound rate limiting
	cfg.API.RateLimitRequests = getEnvInt("RATE_LIMIT_REQUESTS", 30)
	if cfg.API.RateLimitWindow, err = getEnvDuration("RATE_LIMIT_WINDOW", "1m"); err != nil {
		return nil, err
	}

	// Download configuration
	cfg.Download.TempDir = getEnv("DOWNLOAD_TEMP_DIR", os.TempDir())
	if cfg.Download.DownloadTimeout, err = getEnvDuration("DOWNLOAD_TIMEOUT", "300s"); err != nil {
		return nil, err
	}
	if cfg.Download.MetadataTimeout, err = getEnvDuration("METADATA_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Download.MusicTimeout, err = getEnvDuration("MUSIC_DOWNLOAD_TIMEOUT", "180s"); err != nil {
		return nil, err
	}
	if cfg.Download.KillGracePeriod, err = getEnvDuration("KILL_GRACE_PERIOD", "5s"); err != nil {
		return nil, err
	}
	if cfg.Download.FlushDelay, err = getEnvDuration("FLUSH_DELAY", "2s"); err != nil {
		return nil, err
	}
	cfg.Download.MaxMusicFileSize = getEnvInt64("MAX_MUSIC_FILE_SIZE", 50*1024*1024) // 50MB default

	// External tools
	cfg.Tools.Interpreters = getEnvStringSlice("PYTHON_INTERPRETERS", nil)
	cfg.Tools.ExtractorBinary = getEnv("EXTRACTOR_BINARY", "yt-dlp")
	cfg.Tools.ExtractorModule = getEnv("EXTRACTOR_MODULE", "yt_dlp")
	cfg.Tools.MusicModule = getEnv("MUSIC_MODULE", "spotdl")
	cfg.Tools.JSRuntime = getEnv("JS_RUNTIME", "node")

	// Archive (S3) configuration
	cfg.S3.Enabled = getEnvBool("ARCHIVE_ENABLED", false)
	cfg.S3.Region = getEnv("AWS_REGION", "us-east-1")
	cfg.S3.EndpointURL = getEnv("AWS_ENDPOINT_URL", "") // Optional for LocalStack
	cfg.S3.Prefix = getEnv("ARCHIVE_PREFIX", "mediagrab")
	if cfg.S3.Enabled {
		if cfg.S3.BucketName, err = getEnvRequired("S3_BUCKET_NAME"); err != nil {
			return nil, err
		}
		if cfg.S3.AccessKeyID, err = getEnvRequired("AWS_ACCESS_KEY_ID"); err != nil {
			return nil, err
		}
		if cfg.S3.SecretAccessKey, err = getEnvRequired("AWS_SECRET_ACCESS_KEY"); err != nil {
			return nil, err
		}
	}

	// CORS configuration
	cfg.CORS = loadCORSConfig()

	return cfg, nil
}

// sharedNetworkMarkers are set by hosting platforms whose egress addresses
// are shared with many tenants and therefore draw upstream rate limiting.
var sharedNetworkMarkers = []string{"VERCEL", "RENDER", "RAILWAY_ENVIRONMENT", "FLY_APP_NAME", "DYNO"}

// SharedNetworkOrigin reports whether the process runs from a shared or
// low-trust network origin. It reads the environment on every call.
func SharedNetworkOrigin() bool {
	if value := os.Getenv("SHARED_NETWORK_ORIGIN"); value != "" {
		if flag, err := strconv.ParseBool(value); err == nil {
			return flag
		}
	}
	for _, key := range sharedNetworkMarkers {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}

func getEnvDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadCORSConfig loads CORS configuration based on profile or custom settings
func loadCORSConfig() CORSConfig {
	profile := getEnv("CORS_PROFILE", "custom")

	switch profile {
	case "development":
		return getDevelopmentCORSConfig()
	case "production":
		return getProductionCORSConfig()
	default:
		return getCustomCORSConfig()
	}
}

// getDevelopmentCORSConfig returns permissive CORS settings for development
func getDevelopmentCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled: getEnvBool("CORS_ENABLED", true),
		AllowedOrigins: getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:8080",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:8080",
		}),
		AllowedMethods: getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders: getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{
			"Origin", "Content-Type", "Accept", "X-Requested-With", "X-Correlation-ID",
		}),
		ExposedHeaders: getEnvStringSlice("CORS_EXPOSED_HEADERS", []string{
			"Content-Disposition", "Content-Length", "X-Request-ID",
		}),
		AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
		MaxAge:           getEnvInt("CORS_MAX_AGE", 86400),
		Profile:          "development",
	}
}

// getProductionCORSConfig returns strict CORS settings for production
func getProductionCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:          getEnvBool("CORS_ENABLED", true),
		AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{}),
		AllowedMethods:   getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders:   getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
		ExposedHeaders:   getEnvStringSlice("CORS_EXPOSED_HEADERS", []string{"Content-Disposition", "Content-Length"}),
		AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
		MaxAge:           getEnvInt("CORS_MAX_AGE", 3600),
		Profile:          "production",
	}
}

// getCustomCORSConfig returns CORS settings from individual environment variables
func getCustomCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:          getEnvBool("CORS_ENABLED", true),
		AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods:   getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders:   getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
		ExposedHeaders:   getEnvStringSlice("CORS_EXPOSED_HEADERS", []string{"Content-Disposition", "Content-Length"}),
		AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
		MaxAge:           getEnvInt("CORS_MAX_AGE", 3600),
		Profile:          "custom",
	}
}
