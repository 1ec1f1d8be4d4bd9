package migration_20260610_0000

import (
	"github.com/google/uuid"
	. "github.com/huddle-io/huddle/internal/database/migrations"
)

// TeamCourse links the courses of an organization to its teams.
type TeamCourse struct {
	TeamID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (TeamCourse) TableName() string {
	return "team_courses"
}

func init() {
	migrationId := "20260610-0000"
	CreateMigrationFromActions(migrationId,
		CreateTableAction(&TeamCourse{}),
		ExecActionIf(
			`CREATE INDEX IF NOT EXISTS idx_seats_available ON seats (organization_id) WHERE user_id IS NULL AND deleted_at IS NULL`,
			`DROP INDEX IF EXISTS idx_seats_available`,
			NotOnSqlLite,
		),
	)
}
