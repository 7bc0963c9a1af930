package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"contact-agenda-go/internal/config"
)

var DB *gorm.DB

var (
	initOnce sync.Once
	initErr  error
)

// Open connects to the configured database without touching the global DB.
func Open(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	gormCfg := &gorm.Config{}
	if log != nil {
		gormCfg.Logger = logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// Initialize performs the process-wide setup every entity operation relies
// on: connect, migrate and publish the handle in DB. Only the first call does
// any work; later calls return the outcome of the first.
func Initialize(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	initOnce.Do(func() {
		db, err := Open(cfg, log)
		if err != nil {
			initErr = err
			return
		}
		if err := Migrate(db, log); err != nil {
			initErr = fmt.Errorf("migrate: %w", err)
			return
		}
		DB = db
		if log != nil {
			log.WithField("driver", cfg.DBDriver).Info("database initialized")
		}
	})
	return DB, initErr
}
