package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(os.Getenv("APP_ENV")))
}

// LevelForEnvironment maps APP_ENV to the log level used across the service
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "", "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Environment string `json:"environment"`
	Port        int    `json:"port"`
	Host        string `json:"host"`
	SiteURL     string `json:"site_url"`

	// Database configuration
	DatabaseURL string `json:"database_url"`
	DBDriver    string `json:"db_driver"`
	DBHost      string `json:"db_host"`
	DBPort      string `json:"db_port"`
	DBName      string `json:"db_name"`
	DBUser      string `json:"db_user"`
	DBPassword  string `json:"db_password"`
	DBSSLMode   string `json:"db_sslmode"`
	DBPath      string `json:"db_path"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret         string `json:"jwt_secret"`
	OAuthClientID     string `json:"oauth_client_id"`
	OAuthClientSecret string `json:"oauth_client_secret"`
	TokenTTLHours     int    `json:"token_ttl_hours"`

	// Recipe rules
	PageSize            int    `json:"page_size"`
	MaxAmount           int    `json:"max_amount"`
	MaxCookingTime      int    `json:"max_cooking_time"`
	ShoppingAggregation string `json:"shopping_aggregation"`

	// Media storage
	MediaBackend string `json:"media_backend"`
	MediaRoot    string `json:"media_root"`
	MediaURL     string `json:"media_url"`
	S3Bucket     string `json:"s3_bucket"`
	S3Region     string `json:"s3_region"`
	S3Endpoint   string `json:"s3_endpoint"`
	S3AccessKey  string `json:"s3_access_key"`
	S3SecretKey  string `json:"s3_secret_key"`
	S3PublicURL  string `json:"s3_public_url"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %d, Host: %s, SiteURL: %s, DatabaseURL: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBPath: %s, LogLevel: %s, JWTSecret: [REDACTED], OAuthClientID: %s, OAuthClientSecret: [REDACTED], PageSize: %d, ShoppingAggregation: %s, MediaBackend: %s, S3Bucket: %s, S3SecretKey: [REDACTED]}",
		c.Environment, c.Port, c.Host, c.SiteURL, maskDatabaseURL(c.DatabaseURL), c.DBDriver, c.DBHost, c.DBName, c.DBUser,
		c.DBPath, c.LogLevel, c.OAuthClientID, c.PageSize, c.ShoppingAggregation, c.MediaBackend, c.S3Bucket)
}

// maskDatabaseURL masks password in database URL
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		// Replace password with [REDACTED]
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// It also validates formats like DatabaseURL and the numeric recipe limits
// Returns an error if any environment variable is invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")

	ints := map[string]int{}
	for key, def := range map[string]string{
		"APP_PORT":                "8080",
		"PAGE_SIZE":               "6",
		"RECIPE_MAX_AMOUNT":       "32000",
		"RECIPE_MAX_COOKING_TIME": "32000",
		"TOKEN_TTL_HOURS":         "24",
	} {
		value, err := strconv.Atoi(GetEnvWithDefault(key, def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		if value < 1 {
			return nil, fmt.Errorf("invalid %s: must be positive, got %d", key, value)
		}
		ints[key] = value
	}

	dbURL := GetEnvWithDefault("DATABASE_URL", "")
	if dbURL != "" {
		if _, err := url.ParseRequestURI(dbURL); err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL format: %w", err)
		}
	}

	aggregation := strings.ToLower(GetEnvWithDefault("SHOPPING_AGGREGATION", "store"))
	if aggregation != "store" && aggregation != "memory" {
		return nil, fmt.Errorf("invalid SHOPPING_AGGREGATION %q (supported: store, memory)", aggregation)
	}

	mediaBackend := strings.ToLower(GetEnvWithDefault("MEDIA_BACKEND", "local"))
	if mediaBackend != "local" && mediaBackend != "s3" {
		return nil, fmt.Errorf("invalid MEDIA_BACKEND %q (supported: local, s3)", mediaBackend)
	}

	config := &Config{
		Environment: GetEnvWithDefault("APP_ENV", "development"),
		Port:        ints["APP_PORT"],
		Host:        GetEnvWithDefault("APP_HOST", "localhost"),
		SiteURL:     strings.TrimRight(GetEnvWithDefault("SITE_URL", "http://localhost:8080"), "/"),

		DatabaseURL: dbURL,
		DBDriver:    GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBHost:      GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:      GetEnvWithDefault("DB_PORT", "5432"),
		DBName:      GetEnvWithDefault("DB_NAME", "foodgram"),
		DBUser:      GetEnvWithDefault("DB_USER", "foodgram"),
		DBPassword:  GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:   GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:      GetEnvWithDefault("DB_PATH", "foodgram.sqlite"),

		LogLevel: GetEnvWithDefault("LOG_LEVEL", "info"),

		JWTSecret:         GetEnvWithDefault("JWT_SECRET", "secret"),
		OAuthClientID:     GetEnvWithDefault("OAUTH_CLIENT_ID", "foodgram-web"),
		OAuthClientSecret: GetEnvWithDefault("OAUTH_CLIENT_SECRET", "foodgram-web-secret"),
		TokenTTLHours:     ints["TOKEN_TTL_HOURS"],

		PageSize:            ints["PAGE_SIZE"],
		MaxAmount:           ints["RECIPE_MAX_AMOUNT"],
		MaxCookingTime:      ints["RECIPE_MAX_COOKING_TIME"],
		ShoppingAggregation: aggregation,

		MediaBackend: mediaBackend,
		MediaRoot:    GetEnvWithDefault("MEDIA_ROOT", "media"),
		MediaURL:     strings.TrimRight(GetEnvWithDefault("MEDIA_URL", "/media"), "/"),
		S3Bucket:     GetEnvWithDefault("S3_BUCKET", ""),
		S3Region:     GetEnvWithDefault("S3_REGION", "us-east-1"),
		S3Endpoint:   GetEnvWithDefault("S3_ENDPOINT", ""),
		S3AccessKey:  GetEnvWithDefault("S3_ACCESS_KEY", ""),
		S3SecretKey:  GetEnvWithDefault("S3_SECRET_KEY", ""),
		S3PublicURL:  strings.TrimRight(GetEnvWithDefault("S3_PUBLIC_URL", ""), "/"),
	}
	if config.MediaBackend == "s3" && config.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required when MEDIA_BACKEND=s3")
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
