package models

import "github.com/google/uuid"

// Team belongs to an organization and is run by coach users.
type Team struct {
	Base
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;index"`
	Name           string    `json:"name" example:"U12 Blue"`
	Category       string    `json:"category" example:"youth"`
	Coaches        []*User   `json:"coaches,omitempty" gorm:"many2many:team_coaches;"`
	Courses        []*Course `json:"courses,omitempty" gorm:"many2many:team_courses;"`
}

type AddTeam struct {
	OrganizationID uuid.UUID   `json:"organization_id"`
	Name           string      `json:"name"`
	Category       string      `json:"category"`
	CoachIDs       []uuid.UUID `json:"coach_ids"`
}

type UpdateTeam struct {
	Name     string      `json:"name"`
	Category string      `json:"category"`
	CoachIDs []uuid.UUID `json:"coach_ids"`
}
