// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	JWTIssuer      string `mapstructure:"JWT_ISSUER"`
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`

	// ReservedHandles is a comma-separated list of handles that profiles may
	// not claim. Empty means use the built-in default set.
	ReservedHandles string `mapstructure:"RESERVED_HANDLES"`

	// AllowedImageHostSuffixes is the fixed allow-list of remote image host
	// suffixes (comma-separated). Not user-configurable at request time.
	AllowedImageHostSuffixes string `mapstructure:"ALLOWED_IMAGE_HOST_SUFFIXES"`

	// AdminProfileIDs is a comma-separated list of profile IDs allowed to hit
	// operational endpoints (counter repair).
	AdminProfileIDs string `mapstructure:"ADMIN_PROFILE_IDS"`

	// Object storage (media uploads).
	StorageEndpoint  string `mapstructure:"STORAGE_ENDPOINT"`
	StorageAccessKey string `mapstructure:"STORAGE_ACCESS_KEY"`
	StorageSecretKey string `mapstructure:"STORAGE_SECRET_KEY"`
	StorageBucket    string `mapstructure:"STORAGE_BUCKET"`
	StorageUseSSL    bool   `mapstructure:"STORAGE_USE_SSL"`
	// MediaMaxUploadSizeMB caps media uploads; the bucket policy mirrors it.
	MediaMaxUploadSizeMB int `mapstructure:"MEDIA_MAX_UPLOAD_SIZE_MB"`

	// Tracing.
	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	TracingOTLPEndpoint string  `mapstructure:"TRACING_OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundErr) {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Set default values for development
	viper.SetDefault("PORT", "8470")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "athlos")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("JWT_ISSUER", "athlos-identity")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("RESERVED_HANDLES", "")
	viper.SetDefault("ALLOWED_IMAGE_HOST_SUFFIXES", ".storage.athlos.dev")
	viper.SetDefault("ADMIN_PROFILE_IDS", "")
	viper.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	viper.SetDefault("STORAGE_ACCESS_KEY", "minioadmin")
	viper.SetDefault("STORAGE_SECRET_KEY", "minioadmin")
	viper.SetDefault("STORAGE_BUCKET", "athlos-media")
	viper.SetDefault("STORAGE_USE_SSL", false)
	viper.SetDefault("MEDIA_MAX_UPLOAD_SIZE_MB", 5)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ReservedHandleList splits the configured reserved-handles value into a
// slice; an empty value yields nil so the caller falls back to defaults.
func (c *Config) ReservedHandleList() []string {
	if strings.TrimSpace(c.ReservedHandles) == "" {
		return nil
	}
	parts := strings.Split(c.ReservedHandles, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ImageHostSuffixes splits the allowed remote image host suffix allow-list.
func (c *Config) ImageHostSuffixes() []string {
	parts := strings.Split(c.AllowedImageHostSuffixes, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsAllowedImageHost reports whether host matches the fixed allow-list of
// remote image hostname suffixes.
func (c *Config) IsAllowedImageHost(host string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return false
	}
	for _, suffix := range c.ImageHostSuffixes() {
		if strings.HasSuffix(host, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

// IsAdminProfile reports whether the given profile ID string is on the
// operational admin allow-list.
func (c *Config) IsAdminProfile(id string) bool {
	if strings.TrimSpace(c.AdminProfileIDs) == "" {
		return false
	}
	for _, admin := range strings.Split(c.AdminProfileIDs, ",") {
		if strings.TrimSpace(admin) == id {
			return true
		}
	}
	return false
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.MediaMaxUploadSizeMB <= 0 {
		return errors.New("MEDIA_MAX_UPLOAD_SIZE_MB must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must not be 'disable' in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else {
		// Development/Test warnings
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}
