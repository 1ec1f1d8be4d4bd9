package client

import (
	"context"

	"github.com/huddle-io/huddle/internal/querycache"
)

const (
	AssignSeat           = "assign-seat"
	UnassignSeat         = "unassign-seat"
	RedeemInvitationCode = "redeem-invitation-code"
)

// Invalidations lists, for every mutation, the cached queries it makes stale
// besides the list of the mutated resource itself. Keys are resource names
// or workflow names.
var Invalidations = map[string][]querycache.Key{
	"organizations": {
		querycache.ResourceKey("admin-stats"),
	},
	"subscriptions": {
		querycache.ResourceKey("organizations"),
	},
	"profiles": {
		querycache.ResourceKey("organizations"),
	},
	"seats": {
		querycache.ResourceKey("users"),
		querycache.ResourceKey("filtered-users"),
		querycache.ResourceKey("admin-stats"),
	},
	"users": {
		querycache.ResourceKey("filtered-users"),
		querycache.ResourceKey("seats"),
		querycache.ResourceKey("teams"),
		querycache.ResourceKey("admin-stats"),
	},
	"courses": {
		querycache.ResourceKey("org-courses"),
		querycache.ResourceKey("teams"),
	},
	"org-courses": {
		querycache.ResourceKey("teams"),
	},
	"feedback": {
		querycache.ResourceKey("admin-stats"),
	},
	"invitation-codes": {
		querycache.ResourceKey("admin-stats"),
	},
	AssignSeat: {
		querycache.ResourceKey("users"),
		querycache.ResourceKey("filtered-users"),
		querycache.ResourceKey("seats"),
	},
	UnassignSeat: {
		querycache.ResourceKey("users"),
		querycache.ResourceKey("filtered-users"),
		querycache.ResourceKey("seats"),
	},
	RedeemInvitationCode: {
		querycache.ResourceKey("invitation-codes"),
		querycache.ResourceKey("users"),
		querycache.ResourceKey("filtered-users"),
		querycache.ResourceKey("seats"),
	},
}

// Invalidate marks stale every cached query the named mutation affects.
func (c *Client) Invalidate(ctx context.Context, mutation string) error {
	return c.cache.Invalidate(ctx, Invalidations[mutation]...)
}
