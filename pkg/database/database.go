package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/shelf/config"
)

// InitDB 打开数据库连接并配置连接池
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database

	var dialector gorm.Dialector
	switch strings.ToLower(dbCfg.Driver) {
	case "", "postgres", "postgresql":
		dialector = postgres.Open(dbCfg.DSN)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dbCfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(logLevel(dbCfg.LogLevel)),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dbCfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	}
	if dbCfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	}
	if dbCfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	}

	if dbCfg.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func logLevel(s string) gormlogger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
