package config

import (
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetEnvWithDefault(t *testing.T) {
	testCases := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "should return env value when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "from_env",
			expected:     "from_env",
		},
		{
			name:         "should return default when env not set",
			key:          "MISSING_KEY",
			defaultValue: "default_value",
			envValue:     "",
			expected:     "default_value",
		},
		{
			name:         "should return empty string default",
			key:          "EMPTY_KEY",
			defaultValue: "",
			envValue:     "",
			expected:     "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			result := GetEnvWithDefault(tt.key, tt.defaultValue)

			if result != tt.expected {
				t.Errorf("GetEnvWithDefault() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestGetEnvAsType(t *testing.T) {
	t.Setenv("TYPED_INT", "42")
	t.Setenv("TYPED_BOOL", "true")
	t.Setenv("TYPED_BAD_INT", "forty-two")

	if got := GetEnvAsType("TYPED_INT", 7); got != 42 {
		t.Errorf("GetEnvAsType(int) = %d, expected 42", got)
	}
	if got := GetEnvAsType("TYPED_BOOL", false); !got {
		t.Error("GetEnvAsType(bool) = false, expected true")
	}
	if got := GetEnvAsType("TYPED_BAD_INT", 7); got != 7 {
		t.Errorf("GetEnvAsType(bad int) = %d, expected default 7", got)
	}
	if got := GetEnvAsType("TYPED_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnvAsType(missing) = %s, expected fallback", got)
	}
}

var configKeys = []string{
	"APP_ENV", "APP_PORT", "APP_HOST", "SITE_URL", "LOG_LEVEL", "JWT_SECRET",
	"DATABASE_URL", "DB_DRIVER", "DB_PATH", "PAGE_SIZE", "RECIPE_MAX_AMOUNT",
	"RECIPE_MAX_COOKING_TIME", "TOKEN_TTL_HOURS", "SHOPPING_AGGREGATION",
	"MEDIA_BACKEND", "S3_BUCKET", "OAUTH_CLIENT_SECRET",
}

func cleanupTestEnv() {
	for _, v := range configKeys {
		os.Unsetenv(v)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("successful config load with all env vars", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("APP_PORT", "9000")
		os.Setenv("APP_HOST", "0.0.0.0")
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("JWT_SECRET", "super_secret_jwt_key")
		os.Setenv("SITE_URL", "https://foodgram.example/")
		os.Setenv("PAGE_SIZE", "10")
		os.Setenv("SHOPPING_AGGREGATION", "memory")

		config, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() returned error: %v", err)
		}

		if config.Port != 9000 {
			t.Errorf("Port = %d, expected 9000", config.Port)
		}
		if config.Host != "0.0.0.0" {
			t.Errorf("Host = %s, expected 0.0.0.0", config.Host)
		}
		if config.LogLevel != "debug" {
			t.Errorf("LogLevel = %s, expected debug", config.LogLevel)
		}
		if config.SiteURL != "https://foodgram.example" {
			t.Errorf("SiteURL = %s, expected trailing slash trimmed", config.SiteURL)
		}
		if config.PageSize != 10 {
			t.Errorf("PageSize = %d, expected 10", config.PageSize)
		}
		if config.ShoppingAggregation != "memory" {
			t.Errorf("ShoppingAggregation = %s, expected memory", config.ShoppingAggregation)
		}
	})

	failures := []struct {
		name  string
		key   string
		value string
	}{
		{"should fail with invalid port", "APP_PORT", "not_a_number"},
		{"should fail with zero page size", "PAGE_SIZE", "0"},
		{"should fail with invalid database url", "DATABASE_URL", "not a url"},
		{"should fail with unknown aggregation", "SHOPPING_AGGREGATION", "cloud"},
		{"should fail with unknown media backend", "MEDIA_BACKEND", "ftp"},
		{"should fail with s3 backend and no bucket", "MEDIA_BACKEND", "s3"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			cleanupTestEnv()
			defer cleanupTestEnv()
			os.Setenv(tt.key, tt.value)

			config, err := LoadConfig()

			if err == nil {
				t.Errorf("LoadConfig() should return error when %s=%q", tt.key, tt.value)
			}
			if config != nil {
				t.Error("Config should be nil when error occurs")
			}
		})
	}

	t.Run("should use defaults when optional env vars not set", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()

		config, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() returned unexpected error: %v", err)
		}

		if config.Port != 8080 {
			t.Errorf("Port = %d, expected default 8080", config.Port)
		}
		if config.Host != "localhost" {
			t.Errorf("Host = %s, expected default localhost", config.Host)
		}
		if config.LogLevel != "info" {
			t.Errorf("LogLevel = %s, expected default info", config.LogLevel)
		}
		if config.DBDriver != "sqlite" {
			t.Errorf("DBDriver = %s, expected default sqlite", config.DBDriver)
		}
		if config.PageSize != 6 {
			t.Errorf("PageSize = %d, expected default 6", config.PageSize)
		}
		if config.MaxAmount != 32000 || config.MaxCookingTime != 32000 {
			t.Errorf("limits = %d/%d, expected 32000/32000", config.MaxAmount, config.MaxCookingTime)
		}
		if config.ShoppingAggregation != "store" {
			t.Errorf("ShoppingAggregation = %s, expected default store", config.ShoppingAggregation)
		}
	})
}

func TestConfigStringMasksSecrets(t *testing.T) {
	c := &Config{
		DatabaseURL:       "postgres://app:hunter2@db:5432/foodgram",
		JWTSecret:         "jwt-secret-value",
		OAuthClientSecret: "client-secret-value",
		S3SecretKey:       "s3-secret-value",
	}

	s := c.String()

	for _, secret := range []string{"hunter2", "jwt-secret-value", "client-secret-value", "s3-secret-value"} {
		if strings.Contains(s, secret) {
			t.Errorf("String() leaked %q: %s", secret, s)
		}
	}
}

func TestLevelForEnvironment(t *testing.T) {
	cases := map[string]logrus.Level{
		"development": logrus.DebugLevel,
		"production":  logrus.ErrorLevel,
		"staging":     logrus.InfoLevel,
	}
	for env, want := range cases {
		if got := LevelForEnvironment(env); got != want {
			t.Errorf("LevelForEnvironment(%q) = %v, expected %v", env, got, want)
		}
	}
}

// Benchmark tests (optional but good practice)
func BenchmarkGetEnvWithDefault(b *testing.B) {
	os.Setenv("BENCH_KEY", "test_value")
	defer os.Unsetenv("BENCH_KEY")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GetEnvWithDefault("BENCH_KEY", "default")
	}
}
