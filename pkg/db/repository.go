// pkg/db/repository.go
package db

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/smith3v/lingochat/pkg/config"
	"github.com/smith3v/lingochat/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrUsernameTaken         = errors.New("username is already taken")
	ErrConversationNameTaken = errors.New("conversation name is already taken")
)

// Repository is the Store used by every service; it wraps a gorm handle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

func InitDB(cfg config.DatabaseConfig, logging config.LoggingConfig) (*Repository, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		logger.Error("failed to select database driver", "error", err)
		return nil, err
	}

	gormLogger, gormErr := newGormLogger(logging.GormLevel)
	if gormErr != nil {
		logger.Error("invalid gorm log level", "value", logging.GormLevel, "error", gormErr)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		logger.Error("failed to auto-migrate database", "error", err)
		return nil, err
	}

	return NewRepository(gdb), nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres":
		dsn := "host=" + cfg.Host +
			" user=" + cfg.User +
			" password=" + cfg.Password +
			" dbname=" + cfg.DBName +
			" port=" + strconv.Itoa(cfg.Port) +
			" sslmode=" + cfg.SSLMode
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func Migrate(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return err
	}
	if gdb.Dialector.Name() == "sqlite" {
		// Message deletion does not depend on this, but it keeps ad-hoc deletes consistent.
		if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return err
		}
	}
	return nil
}
