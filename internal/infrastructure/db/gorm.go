package db

import (
	"log/slog"
	"time"

	"collateral-lending/internal/domain/account"
	"collateral-lending/internal/domain/loan"
	"collateral-lending/internal/domain/transfer"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        logger.LogLevel
}

func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxOpenConns:    30,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
		LogLevel:        logger.Warn,
	}
}

func OpenGorm(dsn string, opts PoolOptions) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), opts)
}

// OpenGormWithDialector opens a pool on dial, applies opts and pings once.
func OpenGormWithDialector(dial gorm.Dialector, opts PoolOptions) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:               logger.Default.LogMode(opts.LogLevel),
		DisableAutomaticPing: true,
		TranslateError:       true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	slog.Info("gorm: connected", "dialect", dial.Name())
	return db, nil
}

// Migrate creates or updates the ledger tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&account.BorrowerAccount{}, &loan.Loan{}, &transfer.Transfer{})
}

// ParseLogLevel maps silent|error|warn|info to a gorm log level; anything
// else is warn.
func ParseLogLevel(s string) logger.LogLevel {
	switch s {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
