package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted by MEDIA_PROVIDER
const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
	ProviderLocal      = "local"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	Media   MediaConfig
	CORS    CORSConfig
	Logging LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int
	PublicDir       string
	ShutdownTimeout time.Duration
}

// UploadConfig holds limits applied to incoming uploads
type UploadConfig struct {
	MaxBytes int64
	Timeout  time.Duration
}

// MediaConfig selects and configures the media host
type MediaConfig struct {
	Provider   string // "cloudinary", "s3" or "local"
	Folder     string
	Cloudinary CloudinaryConfig
	Storage    StorageConfig
}

// CloudinaryConfig holds the media API credentials
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type StorageConfig struct {
	LocalBaseDir   string
	LocalPublicURL string
	S3Endpoint     string
	S3Bucket       string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// LoggingConfig holds slog handler settings
type LoggingConfig struct {
	Level  string
	Format string // "text" or "json"
}

// Load reads configuration from environment variables. Outside production a .env file in
// the working directory is loaded first; variables already set in the environment win.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only
func FromEnv() (*Config, error) {
	serverPort, err := strconv.Atoi(getEnvOrDefault("PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	maxBytes, err := strconv.ParseInt(getEnvOrDefault("MAX_UPLOAD_BYTES", "10485760"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            serverPort,
			PublicDir:       getEnvOrDefault("PUBLIC_DIR", "./public"),
			ShutdownTimeout: time.Duration(getIntOrDefault("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Upload: UploadConfig{
			MaxBytes: maxBytes,
			Timeout:  time.Duration(getIntOrDefault("UPLOAD_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Media: MediaConfig{
			Provider: strings.ToLower(getEnvOrDefault("MEDIA_PROVIDER", ProviderCloudinary)),
			Folder:   getEnvOrDefault("MEDIA_FOLDER", "purba_creation_uploads"),
			Cloudinary: CloudinaryConfig{
				CloudName: os.Getenv("CLOUD_NAME"),
				APIKey:    os.Getenv("API_KEY"),
				APISecret: os.Getenv("API_SECRET"), // No default for security
			},
			Storage: StorageConfig{
				LocalBaseDir:   getEnvOrDefault("STORAGE_LOCAL_BASE_DIR", "./uploads"),
				LocalPublicURL: getEnvOrDefault("STORAGE_LOCAL_PUBLIC_URL", "/media"),
				S3Endpoint:     os.Getenv("STORAGE_S3_ENDPOINT"),
				S3Bucket:       getEnvOrDefault("STORAGE_S3_BUCKET", "media-uploads"),
				S3Region:       getEnvOrDefault("STORAGE_S3_REGION", "us-east-1"),
				S3AccessKey:    os.Getenv("STORAGE_S3_ACCESS_KEY"),
				S3SecretKey:    os.Getenv("STORAGE_S3_SECRET_KEY"),
				S3PublicURL:    strings.TrimSuffix(os.Getenv("STORAGE_S3_PUBLIC_URL"), "/"),
			},
		},
		CORS: CORSConfig{
			AllowedOrigins:   parseCommaSeparated(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
			AllowedMethods:   parseCommaSeparated(getEnvOrDefault("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS")),
			AllowedHeaders:   parseCommaSeparated(getEnvOrDefault("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Request-ID")),
			AllowCredentials: getBoolOrDefault("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getIntOrDefault("CORS_MAX_AGE", 3600),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.Upload.Timeout <= 0 {
		return fmt.Errorf("UPLOAD_TIMEOUT_SECONDS must be positive")
	}

	switch c.Media.Provider {
	case ProviderCloudinary:
		if c.Media.Cloudinary.CloudName == "" {
			return fmt.Errorf("CLOUD_NAME is required")
		}
		if c.Media.Cloudinary.APIKey == "" {
			return fmt.Errorf("API_KEY is required")
		}
		if c.Media.Cloudinary.APISecret == "" {
			return fmt.Errorf("API_SECRET is required")
		}
	case ProviderS3:
		if c.Media.Storage.S3Bucket == "" {
			return fmt.Errorf("STORAGE_S3_BUCKET is required")
		}
	case ProviderLocal:
		if c.Media.Storage.LocalBaseDir == "" {
			return fmt.Errorf("STORAGE_LOCAL_BASE_DIR is required")
		}
	default:
		return fmt.Errorf("unsupported MEDIA_PROVIDER: %s", c.Media.Provider)
	}
	return nil
}

// LogValue keeps credentials out of log lines
func (c CloudinaryConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("cloud_name", c.CloudName),
		slog.Bool("api_key_set", c.APIKey != ""),
		slog.Bool("api_secret_set", c.APISecret != ""),
	)
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntOrDefault returns the integer value of an environment variable or a default value
func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolOrDefault returns the boolean value of an environment variable or a default value
func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings
func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
