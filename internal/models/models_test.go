package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestInvitationCodeState(t *testing.T) {
	now := time.Now()
	code := InvitationCode{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, code.Expired(now))
	assert.True(t, code.Expired(now.Add(2*time.Hour)))
	assert.False(t, InvitationCode{}.Expired(now), "zero expiry never expires")

	assert.False(t, code.Consumed())
	id := uuid.New()
	code.ConsumedByID = &id
	assert.True(t, code.Consumed())
}

func TestOrgCourseTitle(t *testing.T) {
	oc := OrgCourse{Course: &Course{Title: "Goalkeeping"}}
	assert.Equal(t, "Goalkeeping", oc.Title())
	oc.OverrideTitle = "Keepers Club"
	assert.Equal(t, "Keepers Club", oc.Title())
}

func TestSeatAvailable(t *testing.T) {
	seat := Seat{}
	assert.True(t, seat.Available())
	id := uuid.New()
	seat.UserID = &id
	assert.False(t, seat.Available())
}
