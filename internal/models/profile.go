package models

import "github.com/google/uuid"

// Profile is the public facing description of an organization.
type Profile struct {
	Base
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;uniqueIndex"`
	DisplayName    string    `json:"display_name" example:"FC Riverside"`
	Address        string    `json:"address" example:"1 Stadium Road"`
	Website        string    `json:"website" example:"https://fc-riverside.example.com"`
	ContactEmail   string    `json:"contact_email" example:"office@fc-riverside.example.com"`
	LogoURL        string    `json:"logo_url"`
}

type AddProfile struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	DisplayName    string    `json:"display_name"`
	Address        string    `json:"address"`
	Website        string    `json:"website"`
	ContactEmail   string    `json:"contact_email"`
	LogoURL        string    `json:"logo_url"`
}

type UpdateProfile struct {
	DisplayName  string `json:"display_name"`
	Address      string `json:"address"`
	Website      string `json:"website"`
	ContactEmail string `json:"contact_email"`
	LogoURL      string `json:"logo_url"`
}
