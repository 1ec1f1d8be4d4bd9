package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/querycache"
)

// Cache keys of the single object queries.
var (
	CurrentUserKey = querycache.EntityKey("users", "me")
	PageConfigKey  = querycache.ResourceKey("config")
	AdminStatsKey  = querycache.ResourceKey("admin-stats")
)

// CurrentUser returns the user the bearer token belongs to.
func (c *Client) CurrentUser(ctx context.Context) QueryResult[models.User] {
	ctx, span := tracer.Start(ctx, "CurrentUser")
	defer span.End()
	return fetch[models.User](ctx, c, CurrentUserKey, func(ctx context.Context) (querycache.Entry, error) {
		return c.do(ctx, http.MethodGet, "/api/users/me", "", nil)
	}, decodeData[models.User])
}

// PageConfig returns the application configuration served to every session.
func (c *Client) PageConfig(ctx context.Context) QueryResult[models.PageConfig] {
	ctx, span := tracer.Start(ctx, "PageConfig")
	defer span.End()
	return fetch[models.PageConfig](ctx, c, PageConfigKey, func(ctx context.Context) (querycache.Entry, error) {
		return c.do(ctx, http.MethodGet, "/api/config", "", nil)
	}, decodeData[models.PageConfig])
}

// AdminStats returns the superadmin console counters.
func (c *Client) AdminStats(ctx context.Context) QueryResult[models.AdminStats] {
	ctx, span := tracer.Start(ctx, "AdminStats")
	defer span.End()
	return fetch[models.AdminStats](ctx, c, AdminStatsKey, func(ctx context.Context) (querycache.Entry, error) {
		return c.do(ctx, http.MethodGet, "/api/admin/stats", "", nil)
	}, decodeData[models.AdminStats])
}

// RedeemInvitationCode consumes code and returns the user it created or
// updated.
func (c *Client) RedeemInvitationCode(ctx context.Context, code string, body models.RedeemInvitationCode) (models.User, error) {
	ctx, span := tracer.Start(ctx, "RedeemInvitationCode")
	defer span.End()

	entry, err := c.do(ctx, http.MethodPost, "/api/invitation-codes/"+url.PathEscape(code)+"/redeem", "", body)
	if err != nil {
		return models.User{}, err
	}
	user, err := decodeData[models.User](entry)
	if err != nil {
		return user, err
	}
	if err := c.Invalidate(ctx, RedeemInvitationCode); err != nil {
		c.logger.Warnw("failed to invalidate queries", "mutation", RedeemInvitationCode, "error", err)
	}
	return user, nil
}
