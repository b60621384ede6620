package db

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

// Open connects with the given dialector and migrates every table. Each call returns
// an independent handle, callers pass it to iot.IOT explicitly.
func Open(dialector gorm.Dialector) (*DB, error) {
	logger := common.GetLogger()

	logLevel := gormLogger.Warn
	if common.IsTestEnv() {
		logLevel = gormLogger.Silent
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  gormLogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	// sqlite allows a single writer, serializing here avoids SQLITE_BUSY and keeps
	// shared-cache memory databases alive for the lifetime of the handle
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(models.AllModels()...); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	logger.Info("Database migration completed")

	return &DB{Conn: conn}, nil
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// foreign keys are a per-connection pragma in sqlite, so they are set on the DSN
func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(common.EnvKeyIOTDbPath); !found {
		dbPath = "dashboard.db"
	}
	return sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000", dbPath))
}

// UseMemorySqliteDialector names every memory database uniquely so tests never share rows.
func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()))
}
