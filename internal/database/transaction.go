package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cockroachdb/cockroach-go/v2/crdb/crdbgorm"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type TransactionFunc func(
	ctx context.Context, fn func(tx *gorm.DB) error, opts ...*sql.TxOptions,
) error

func Silent(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{
		Logger: db.Logger.LogMode(logger.Silent),
	})
}

type Dialect int

const (
	DialectSqlLite Dialect = iota
	DialectPostgreSQL
	DialectCockroachDB
)

func (d Dialect) String() string {
	switch d {
	case DialectPostgreSQL:
		return "postgresql"
	case DialectCockroachDB:
		return "cockroachdb"
	}
	return "sqlite"
}

// DetectDialect asks the server for its version, sqlite has no version() function.
func DetectDialect(db *gorm.DB) Dialect {
	version := ""
	_ = Silent(db).Raw("SELECT version()").Scan(&version).Error

	switch {
	case strings.HasPrefix(version, "PostgreSQL"):
		return DialectPostgreSQL
	case strings.HasPrefix(version, "CockroachDB"):
		return DialectCockroachDB
	}
	return DialectSqlLite
}

// GetTransactionFunc returns a function running fn in a transaction. On
// CockroachDB the transaction is retried on serialization failures.
func GetTransactionFunc(db *gorm.DB) (TransactionFunc, Dialect) {
	dialect := DetectDialect(db)
	if dialect == DialectCockroachDB {
		return func(ctx context.Context, fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
			var o *sql.TxOptions
			if len(opts) > 0 {
				o = opts[0]
			}
			return crdbgorm.ExecuteTx(ctx, db, o, fn)
		}, dialect
	}
	return func(ctx context.Context, fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
		var o *sql.TxOptions
		if len(opts) > 0 {
			o = opts[0]
		}
		return db.WithContext(ctx).Transaction(fn, o)
	}, dialect
}
