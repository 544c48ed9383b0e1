package config

import (
	"fmt"

	"idl-tracker/logging"
	"idl-tracker/packages/core/rating"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	LogLevel  string
	LogFormat string

	RatingCron     string
	RatingRounding rating.Rounding
	DefaultElo     int

	MetricsAddr string
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "idl_tracker")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RATING_CRON", "0 */15 * * * *")
	v.SetDefault("RATING_ROUNDING", string(rating.RoundHalfAwayFromZero))
	v.SetDefault("DEFAULT_ELO", 1500)
	v.SetDefault("METRICS_ADDR", "")

	rounding, err := rating.ParseRounding(v.GetString("RATING_ROUNDING"))
	if err != nil {
		return Config{}, fmt.Errorf("RATING_ROUNDING: %w", err)
	}

	return Config{
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBSSLMode:      v.GetString("DB_SSLMODE"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		RatingCron:     v.GetString("RATING_CRON"),
		RatingRounding: rounding,
		DefaultElo:     v.GetInt("DEFAULT_ELO"),
		MetricsAddr:    v.GetString("METRICS_ADDR"),
	}, nil
}

// MustLoad loads the configuration and initialises logging, exiting on error.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		_ = logging.Init("info", "json")
		logging.Fatal("Invalid configuration", zap.Error(err))
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		logging.Fatal("Failed to initialise logger", zap.Error(err))
	}
	return cfg
}
