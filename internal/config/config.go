package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBSource          string        `mapstructure:"DB_SOURCE"`
	ServerAddress     string        `mapstructure:"SERVER_ADDRESS"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int           `mapstructure:"REDIS_DB"`
	GoogleMapsAPIKey  string        `mapstructure:"GOOGLE_MAPS_API_KEY"`
	GoogleMapsBaseURL string        `mapstructure:"GOOGLE_MAPS_BASE_URL"`
	GatewayTimeout    time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
	MatchThreshold    float64       `mapstructure:"MATCH_THRESHOLD"`
	CacheTTL          time.Duration `mapstructure:"CACHE_TTL"`
	CacheOpTimeout    time.Duration `mapstructure:"CACHE_OP_TIMEOUT"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	LogFormat         string        `mapstructure:"LOG_FORMAT"`
	GinMode           string        `mapstructure:"GIN_MODE"`
}

// LoadConfig reads the API server configuration from app.env in path, overridden by environment variables.
// A .env file in the working directory, if present, is loaded into the environment first.
func LoadConfig(path string) (Config, error) {
	config, err := load(path)
	if err != nil {
		return config, err
	}
	return config, config.Validate()
}

// LoadDatabaseConfig reads the same sources as LoadConfig but only requires the database settings.
func LoadDatabaseConfig(path string) (Config, error) {
	config, err := load(path)
	if err != nil {
		return config, err
	}
	return config, config.ValidateDatabase()
}

func load(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("GOOGLE_MAPS_API_KEY", "")
	v.SetDefault("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com/maps/api")
	v.SetDefault("GATEWAY_TIMEOUT", 10*time.Second)
	v.SetDefault("MATCH_THRESHOLD", 0.3)
	v.SetDefault("CACHE_TTL", time.Hour)
	v.SetDefault("CACHE_OP_TIMEOUT", 500*time.Millisecond)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("GIN_MODE", "release")

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: unmarshal config: %w", err)
	}

	return config, nil
}

// ValidateDatabase checks the settings needed to reach PostgreSQL.
func (c Config) ValidateDatabase() error {
	if c.DBSource == "" {
		return errors.New("config: DB_SOURCE is required")
	}
	return nil
}

// Validate reports the first missing or out-of-range setting of the API server.
func (c Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.GoogleMapsAPIKey == "" {
		return errors.New("config: GOOGLE_MAPS_API_KEY is required")
	}
	// similarity is summed over name and address, so the score ranges over [0, 2]
	if c.MatchThreshold < 0 || c.MatchThreshold >= 2 {
		return fmt.Errorf("config: MATCH_THRESHOLD out of range: %v", c.MatchThreshold)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL must be positive: %v", c.CacheTTL)
	}
	return nil
}
