package database

import (
	"rental-intake/internal/model"
	"rental-intake/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB connects to PostgreSQL with the configured pool settings and
// migrates the intake schema.
func InitDB(cfg *config.Config) error {
	// Connect with DisableAutoPrepare to prevent "prepared statement already
	// exists" errors behind connection poolers
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	var err error
	DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.DB.LogLevel),
	})
	if err != nil {
		return err
	}

	// Configure connection pool
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	// AutoMigrate will automatically create or update the table structure
	return DB.AutoMigrate(
		&model.Application{},
		&model.Vehicle{},
		&model.Profile{},
		&model.Lead{},
		&model.SmsTemplate{},
		&model.EmailTemplate{},
		&model.SystemSettings{},
	)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
