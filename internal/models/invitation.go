package models

import (
	"time"

	"github.com/google/uuid"
)

// InvitationCode is a one-time token allowing a prospective user to join an organization.
type InvitationCode struct {
	Base
	Code           string     `json:"code" gorm:"uniqueIndex" example:"RVSD-8K2M-QX4T"`
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;index"`
	Email          string     `json:"email,omitempty"`
	Role           string     `json:"role" example:"member"`
	ExpiresAt      time.Time  `json:"expires_at"`
	ConsumedByID   *uuid.UUID `json:"consumed_by_id" gorm:"type:uuid"`
	ConsumedAt     *time.Time `json:"consumed_at"`
}

// Consumed reports whether a user already redeemed the code.
func (i InvitationCode) Consumed() bool {
	return i.ConsumedByID != nil
}

// Expired reports whether the code can no longer be redeemed at the given time.
func (i InvitationCode) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

type AddInvitationCode struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	// Email is optional, when set the code is sent to this address.
	Email string `json:"email"`
	Role  string `json:"role"`
	// ExpiresIn is a duration like "72h", defaults to one week.
	ExpiresIn string `json:"expires_in"`
}

type UpdateInvitationCode struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedeemInvitationCode is sent by the user consuming a code.
type RedeemInvitationCode struct {
	FullName string `json:"full_name"`
}
