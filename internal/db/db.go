package db

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pizzaservice/internal/model"
)

// Models lists every table owned by the service, in creation order.
var Models = []interface{}{
	&model.User{},
	&model.UserRole{},
	&model.Session{},
}

// Open returns a connected GORM DB instance for the given driver ("mysql" or "postgres").
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, Config())
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

// Config is the GORM configuration shared by every dialect.
// TranslateError lets repositories detect unique-key violations with gorm.ErrDuplicatedKey.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// Migrate creates or updates the schema, optionally dropping existing tables first.
func Migrate(db *gorm.DB, reset bool) error {
	if reset {
		slog.Warn("dropping all tables before migration")
		for i := len(Models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(Models[i]); err != nil {
				slog.Warn("drop table failed (may not exist)", slog.String("error", err.Error()))
			}
		}
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
