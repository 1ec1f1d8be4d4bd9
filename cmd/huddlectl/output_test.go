package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestFieldFormatter(t *testing.T) {
	id := uuid.MustParse("3f51dda6-06d2-4724-bb73-f09ad3501bcc")
	assert.Equal(t, "42", fieldFormatter(reflect.ValueOf(42)))
	assert.Equal(t, "true", fieldFormatter(reflect.ValueOf(true)))
	assert.Equal(t, "fc-riverside", fieldFormatter(reflect.ValueOf("fc-riverside")))
	assert.Equal(t, id.String(), fieldFormatter(reflect.ValueOf(id)))
	assert.Equal(t, id.String(), fieldFormatter(reflect.ValueOf(&id)))
	assert.Equal(t, "", fieldFormatter(reflect.ValueOf((*uuid.UUID)(nil))))
	assert.Equal(t, "", fieldFormatter(reflect.ValueOf(time.Time{})))
	assert.Equal(t, "1 hour ago", fieldFormatter(reflect.ValueOf(time.Now().Add(-time.Hour))))
}

func TestStatusFormatters(t *testing.T) {
	color.NoColor = true

	userID := uuid.New()
	assert.Equal(t, "available", seatStatus(models.Seat{}))
	assert.Equal(t, "occupied", seatStatus(models.Seat{UserID: &userID}))

	now := time.Now()
	assert.Equal(t, "pending", invitationStatus(models.InvitationCode{ExpiresAt: now.Add(time.Hour)}))
	assert.Equal(t, "expired", invitationStatus(models.InvitationCode{ExpiresAt: now.Add(-time.Hour)}))
	assert.Equal(t, "redeemed", invitationStatus(models.InvitationCode{
		ExpiresAt:    now.Add(-time.Hour),
		ConsumedByID: &userID,
		ConsumedAt:   util.Ptr(now),
	}))
}
