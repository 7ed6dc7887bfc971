package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
}

// AppConfig holds HTTP server and logging settings.
type AppConfig struct {
	Port        string
	Environment string
	LogLevel    string
}

// DatabaseConfig selects the user store and how to reach it.
type DatabaseConfig struct {
	Driver        string // mongo, postgres, sqlite or memory
	DSN           string // GORM DSN for postgres and sqlite
	MongoURI      string
	MongoDatabase string
}

// JWTConfig holds the token-signing key.
type JWTConfig struct {
	Secret string
}

// RabbitMQConfig holds the broker URL. An empty URL disables user events.
type RabbitMQConfig struct {
	URL string
}

// RedisConfig holds the session cache settings. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	// A missing .env file is not an error; the environment alone is enough.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:boilerplate.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "boilerplate")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_CACHE_TTL", 15*time.Minute)
	v.SetDefault("JWT_SECRET", "")
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Environment: v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Driver:        v.GetString("DB_DRIVER"),
			DSN:           v.GetString("DATABASE_DSN"),
			MongoURI:      v.GetString("MONGO_URI"),
			MongoDatabase: v.GetString("MONGO_DATABASE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		RabbitMQ: RabbitMQConfig{
			URL: v.GetString("RABBITMQ_URL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("SESSION_CACHE_TTL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present and consistent.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Database.Driver {
	case "mongo":
		if c.Database.MongoURI == "" || c.Database.MongoDatabase == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DATABASE are required for the mongo driver")
		}
	case "postgres", "sqlite":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the %s driver", c.Database.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}
