package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/database/migrations"
	"github.com/huddle-io/huddle/internal/util"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "github.com/huddle-io/huddle/internal/database/migration_20260312_0000"
	_ "github.com/huddle-io/huddle/internal/database/migration_20260610_0000"
)

const (
	connectRetryDelay = 2 * time.Second
	connectRetries    = 30
)

// Config holds the connection settings of the PostgreSQL (or CockroachDB) database.
type Config struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// NewDatabase connects to the database, retrying while it is not reachable yet.
func NewDatabase(ctx context.Context, logger *zap.SugaredLogger, config Config) (*gorm.DB, error) {
	var db *gorm.DB
	connectDb := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
			Logger:         NewLogger(logger),
			TranslateError: true,
		})
		if err != nil {
			logger.Warnw("database not reachable, retrying", "host", config.Host, "error", err)
			return err
		}
		return nil
	}
	if err := util.RetryOperation(ctx, connectRetryDelay, connectRetries, connectDb); err != nil {
		return nil, err
	}
	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName(config.Name))); err != nil {
		return nil, fmt.Errorf("failed to enable query tracing: %w", err)
	}
	return db, nil
}

// NewSqliteDatabase opens a sqlite database file, or a private in memory database for ":memory:".
func NewSqliteDatabase(logger *zap.SugaredLogger, file string) (*gorm.DB, error) {
	if file == ":memory:" {
		file = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	}
	db, err := gorm.Open(sqlite.Open(file), &gorm.Config{
		Logger:         NewLogger(logger),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// NewTestDatabase returns a migrated in memory database.
func NewTestDatabase() (*gorm.DB, error) {
	db, err := NewSqliteDatabase(zap.NewNop().Sugar(), ":memory:")
	if err != nil {
		return nil, err
	}
	if err := Migrate(context.Background(), db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies every pending schema migration.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return migrations.New().Migrate(ctx, db)
}

// Rollback reverts the most recently applied migration.
func Rollback(ctx context.Context, db *gorm.DB) error {
	return migrations.New().RollbackLast(ctx, db)
}
