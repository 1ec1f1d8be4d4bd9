package models

import "github.com/google/uuid"

// Seat is a licensed slot of an organization's subscription. It is held by at most one user.
type Seat struct {
	Base
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;index"`
	UserID         *uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex"`
	User           *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Available reports whether no user holds the seat.
func (s Seat) Available() bool {
	return s.UserID == nil
}

type AddSeat struct {
	OrganizationID uuid.UUID `json:"organization_id"`
}

// UpdateSeat replaces the holder of a seat, a nil UserID releases it.
type UpdateSeat struct {
	UserID *uuid.UUID `json:"user_id"`
}
