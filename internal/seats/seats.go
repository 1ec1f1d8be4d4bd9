// Package seats attaches users to the seats of their organization.
package seats

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/state"
	"github.com/huddle-io/huddle/internal/util"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("github.com/huddle-io/huddle/internal/seats")
}

var (
	ErrNoSeatAvailable = errors.New("no seat available in organization")
	ErrUserHasNoSeat   = errors.New("user does not hold a seat")
)

// Assigner runs the seat workflows against the API. It picks seats on the
// client side, a concurrent claim of the same seat is rejected by the server
// with a conflict that is returned unchanged.
type Assigner struct {
	client  *client.Client
	session *state.Session
	logger  *zap.SugaredLogger
}

func NewAssigner(c *client.Client, session *state.Session, logger *zap.SugaredLogger) *Assigner {
	return &Assigner{
		client:  c,
		session: session,
		logger:  logger,
	}
}

// AssignSeat gives userID the first available seat of orgID and returns it.
func (a *Assigner) AssignSeat(ctx context.Context, orgID uuid.UUID, userID uuid.UUID) (models.Seat, error) {
	ctx, span := tracer.Start(ctx, "AssignSeat", trace.WithAttributes(
		attribute.String("organization_id", orgID.String()),
		attribute.String("user_id", userID.String()),
	))
	defer span.End()
	logger := util.WithTrace(ctx, a.logger)

	page, err := a.client.Seats.List(ctx, client.SeatListParams{
		OrganizationID: util.Ptr(orgID.String()),
		Available:      util.Ptr(true),
	}).Unwrap()
	if err != nil {
		return models.Seat{}, fmt.Errorf("failed to list seats: %w", err)
	}

	var seat *models.Seat
	for i := range page.Items {
		if page.Items[i].Available() {
			seat = &page.Items[i]
			break
		}
	}
	if seat == nil {
		return models.Seat{}, ErrNoSeatAvailable
	}

	updated, err := a.client.Seats.Update(ctx, seat.ID.String(), models.UpdateSeat{UserID: &userID})
	if err != nil {
		return models.Seat{}, err
	}
	logger.Infow("seat assigned", "seat_id", updated.ID, "user_id", userID)

	a.afterMutation(ctx, logger, client.AssignSeat)
	return updated, nil
}

// UnassignSeat releases the seat held by userID.
func (a *Assigner) UnassignSeat(ctx context.Context, userID uuid.UUID) (models.Seat, error) {
	ctx, span := tracer.Start(ctx, "UnassignSeat", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
	))
	defer span.End()
	logger := util.WithTrace(ctx, a.logger)

	user, err := a.client.Users.Get(ctx, userID.String()).Unwrap()
	if err != nil {
		return models.Seat{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Seat == nil {
		return models.Seat{}, ErrUserHasNoSeat
	}

	updated, err := a.client.Seats.Update(ctx, user.Seat.ID.String(), models.UpdateSeat{UserID: nil})
	if err != nil {
		return models.Seat{}, err
	}
	logger.Infow("seat released", "seat_id", updated.ID, "user_id", userID)

	a.afterMutation(ctx, logger, client.UnassignSeat)
	return updated, nil
}

// afterMutation only logs failures, the seat change is already applied.
func (a *Assigner) afterMutation(ctx context.Context, logger *zap.SugaredLogger, mutation string) {
	if err := a.client.Invalidate(ctx, mutation); err != nil {
		logger.Warnw("failed to invalidate queries", "mutation", mutation, "error", err)
	}
	if a.session == nil {
		return
	}
	if _, err := a.session.Users.Refresh(ctx); err != nil {
		logger.Warnw("failed to refresh current user", "error", err)
	}
}
