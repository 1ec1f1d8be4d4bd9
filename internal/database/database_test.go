package database

import (
	"context"
	"testing"

	"github.com/huddle-io/huddle/internal/database/migrations"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func TestMigrateAndRollback(t *testing.T) {
	ctx := context.Background()
	db, err := NewSqliteDatabase(zaptest.NewLogger(t).Sugar(), ":memory:")
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, db))
	for _, table := range []string{"organizations", "seats", "users", "org_courses", "teams", "team_courses", "invitation_codes"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}

	m := migrations.New()
	count, err := m.CountMigrationsApplied(db)
	require.NoError(t, err)
	require.Equal(t, len(m.Migrations), count)

	// applying twice is a no-op
	require.NoError(t, Migrate(ctx, db))

	require.NoError(t, Rollback(ctx, db))
	require.False(t, db.Migrator().HasTable("team_courses"))
	require.True(t, db.Migrator().HasTable("seats"))
}

func TestDetectDialectOnSqlite(t *testing.T) {
	db, err := NewTestDatabase()
	require.NoError(t, err)

	require.Equal(t, DialectSqlLite, DetectDialect(db))
	transaction, dialect := GetTransactionFunc(db)
	require.Equal(t, DialectSqlLite, dialect)
	require.NoError(t, transaction(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec("SELECT 1").Error
	}))
}
