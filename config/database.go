package config

import (
	"idl-tracker/logging"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDatabase(cfg Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}

	DB = db
	logging.Info("Database connected",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)
}
