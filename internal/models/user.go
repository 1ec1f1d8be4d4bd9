package models

import (
	"github.com/google/uuid"
)

const (
	RoleMember     = "member"
	RoleCoach      = "coach"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User belongs to an organization and optionally holds one seat.
type User struct {
	Base
	Email          string     `json:"email" gorm:"uniqueIndex" example:"coach@fc-riverside.example.com"`
	FullName       string     `json:"full_name" example:"Jamie Doe"`
	Role           string     `json:"role" example:"member"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid;index"`
	Seat           *Seat      `json:"seat,omitempty" gorm:"foreignKey:UserID"`
	Courses        []*Course  `json:"courses,omitempty" gorm:"many2many:user_courses;"`
}

// IsAdmin reports whether the user may administer its organization.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

type AddUser struct {
	Email          string     `json:"email" example:"coach@fc-riverside.example.com"`
	FullName       string     `json:"full_name" example:"Jamie Doe"`
	Role           string     `json:"role" example:"member"`
	OrganizationID *uuid.UUID `json:"organization_id"`
}

type UpdateUser struct {
	FullName       string      `json:"full_name"`
	Role           string      `json:"role"`
	OrganizationID *uuid.UUID  `json:"organization_id"`
	CourseIDs      []uuid.UUID `json:"course_ids"`
}
