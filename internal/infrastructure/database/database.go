package database

import (
	"fmt"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/config"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/infrastructure/database/migrations"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/logging"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Timezone usado nas sessões do banco
const Timezone = "Europe/Lisbon"

// SetupDatabase abre a conexão com o Postgres e aplica as migrações
func SetupDatabase(cfg *config.Config) (*gorm.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logger.Error),
	}

	sqlDB, err := OpenPool(cfg.DatabaseURL, Timezone)
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := migrations.AddIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to add indexes: %w", err)
	}

	if err := migrations.OptimizePerformanceIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to add optimized indexes: %w", err)
	}

	logging.L().Info("database ready", zap.String("timezone", Timezone))
	return db, nil
}

// Close fecha o pool de conexões
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
