package migration_20260312_0000

import (
	"time"

	"github.com/google/uuid"
	. "github.com/huddle-io/huddle/internal/database/migrations"
	"gorm.io/gorm"
)

type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Organization struct {
	Base
	Name        string `gorm:"uniqueIndex"`
	Description string
	Sport       string
}

type Subscription struct {
	Base
	OrganizationID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Plan           string
	Status         string
	SeatLimit      int
	RenewsAt       *time.Time
}

type Profile struct {
	Base
	OrganizationID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	DisplayName    string
	Address        string
	Website        string
	ContactEmail   string
	LogoURL        string
}

type Seat struct {
	Base
	OrganizationID uuid.UUID  `gorm:"type:uuid;index"`
	UserID         *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
}

type User struct {
	Base
	Email          string `gorm:"uniqueIndex"`
	FullName       string
	Role           string
	OrganizationID *uuid.UUID `gorm:"type:uuid;index"`
}

type UserCourse struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (UserCourse) TableName() string {
	return "user_courses"
}

type Course struct {
	Base
	Title       string
	Description string
	Level       string
}

type OrgCourse struct {
	Base
	OrganizationID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_org_courses_pair"`
	CourseID            uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_org_courses_pair"`
	OverrideTitle       string
	OverrideDescription string
}

type Team struct {
	Base
	OrganizationID uuid.UUID `gorm:"type:uuid;index"`
	Name           string
	Category       string
}

type TeamCoach struct {
	TeamID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (TeamCoach) TableName() string {
	return "team_coaches"
}

type Feedback struct {
	Base
	Message string
	Rating  int
	Page    string
	UserID  *uuid.UUID `gorm:"type:uuid"`
}

type InvitationCode struct {
	Base
	Code           string    `gorm:"uniqueIndex"`
	OrganizationID uuid.UUID `gorm:"type:uuid;index"`
	Email          string
	Role           string
	ExpiresAt      time.Time
	ConsumedByID   *uuid.UUID `gorm:"type:uuid"`
	ConsumedAt     *time.Time
}

func init() {
	migrationId := "20260312-0000"
	CreateMigrationFromActions(migrationId,
		CreateTableAction(&Organization{}),
		CreateTableAction(&Subscription{}),
		CreateTableAction(&Profile{}),
		CreateTableAction(&User{}),
		CreateTableAction(&Seat{}),
		CreateTableAction(&Course{}),
		CreateTableAction(&UserCourse{}),
		CreateTableAction(&OrgCourse{}),
		CreateTableAction(&Team{}),
		CreateTableAction(&TeamCoach{}),
		CreateTableAction(&Feedback{}),
		CreateTableAction(&InvitationCode{}),
		ExecActionIf(
			`ALTER TABLE feedbacks ADD CONSTRAINT feedbacks_rating_range CHECK (rating BETWEEN 1 AND 5)`,
			`ALTER TABLE feedbacks DROP CONSTRAINT IF EXISTS feedbacks_rating_range`,
			NotOnSqlLite,
		),
	)
}
