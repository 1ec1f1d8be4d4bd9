package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PlanFree     = "free"
	PlanStandard = "standard"
	PlanPremium  = "premium"

	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"

	FreePlanSeatLimit = 5
)

// Subscription limits how many seats an organization may hold.
type Subscription struct {
	Base
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;uniqueIndex" example:"3f51dda6-06d2-4724-bb73-f09ad3501bcc"`
	Plan           string     `json:"plan" example:"standard"`
	Status         string     `json:"status" example:"active"`
	SeatLimit      int        `json:"seat_limit" example:"25"`
	RenewsAt       *time.Time `json:"renews_at,omitempty"`
}

type AddSubscription struct {
	OrganizationID uuid.UUID  `json:"organization_id"`
	Plan           string     `json:"plan" example:"standard"`
	SeatLimit      int        `json:"seat_limit" example:"25"`
	RenewsAt       *time.Time `json:"renews_at,omitempty"`
}

type UpdateSubscription struct {
	Plan      string     `json:"plan" example:"premium"`
	Status    string     `json:"status" example:"active"`
	SeatLimit int        `json:"seat_limit" example:"50"`
	RenewsAt  *time.Time `json:"renews_at,omitempty"`
}
