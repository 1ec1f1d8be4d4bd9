package models

import (
	"gorm.io/gorm"
)

// Organization is the tenant that owns the subscription, seats, teams and users.
type Organization struct {
	Base
	Name         string            `json:"name" gorm:"uniqueIndex" example:"fc-riverside"`
	Description  string            `json:"description" example:"Riverside Football Club"`
	Sport        string            `json:"sport" example:"football"`
	Subscription *Subscription     `json:"subscription,omitempty"`
	Profile      *Profile          `json:"profile,omitempty"`
	Seats        []*Seat           `json:"-"`
	Users        []*User           `json:"-"`
	Teams        []*Team           `json:"-"`
	Invitations  []*InvitationCode `json:"-"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.Seats == nil {
		o.Seats = make([]*Seat, 0)
	}
	if o.Users == nil {
		o.Users = make([]*User, 0)
	}
	return o.Base.BeforeCreate(tx)
}

// AddOrganization is the information needed to add a new Organization.
type AddOrganization struct {
	Name        string `json:"name" example:"fc-riverside"`
	Description string `json:"description" example:"Riverside Football Club"`
	Sport       string `json:"sport" example:"football"`
	// SeatLimit sizes the initial subscription, zero means the free plan.
	SeatLimit int `json:"seat_limit" example:"25"`
}

// UpdateOrganization replaces the mutable fields of an Organization.
type UpdateOrganization struct {
	Name        string `json:"name" example:"fc-riverside"`
	Description string `json:"description" example:"Riverside Football Club"`
	Sport       string `json:"sport" example:"football"`
}
