package models

import "github.com/google/uuid"

// Course is a training program that organizations can offer.
type Course struct {
	Base
	Title       string `json:"title" example:"U12 Goalkeeping"`
	Description string `json:"description"`
	Level       string `json:"level" example:"beginner"`
}

type AddCourse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
}

type UpdateCourse AddCourse

// OrgCourse assigns a course to an organization with optional per-organization texts.
type OrgCourse struct {
	Base
	OrganizationID      uuid.UUID `json:"organization_id" gorm:"type:uuid;uniqueIndex:idx_org_courses_pair"`
	CourseID            uuid.UUID `json:"course_id" gorm:"type:uuid;uniqueIndex:idx_org_courses_pair"`
	Course              *Course   `json:"course,omitempty"`
	OverrideTitle       string    `json:"override_title"`
	OverrideDescription string    `json:"override_description"`
}

// Title returns the organization specific title when one is set.
func (oc OrgCourse) Title() string {
	if oc.OverrideTitle != "" || oc.Course == nil {
		return oc.OverrideTitle
	}
	return oc.Course.Title
}

type AddOrgCourse struct {
	OrganizationID      uuid.UUID `json:"organization_id"`
	CourseID            uuid.UUID `json:"course_id"`
	OverrideTitle       string    `json:"override_title"`
	OverrideDescription string    `json:"override_description"`
}

type UpdateOrgCourse struct {
	OverrideTitle       string `json:"override_title"`
	OverrideDescription string `json:"override_description"`
}
