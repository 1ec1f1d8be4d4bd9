package main

import (
	"context"
	"time"

	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/util"
	"github.com/urfave/cli/v3"
)

func subscriptions(c *client.Client) *client.Resource[models.Subscription, models.AddSubscription, models.UpdateSubscription, client.SubscriptionListParams] {
	return c.Subscriptions
}

func profiles(c *client.Client) *client.Resource[models.Profile, models.AddProfile, models.UpdateProfile, client.ProfileListParams] {
	return c.Profiles
}

func createSubscriptionCommand() *cli.Command {
	return &cli.Command{
		Name:  "subscription",
		Usage: "Commands relating to organization subscriptions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List subscriptions",
				Flags: append(paginationFlags(),
					&cli.StringFlag{
						Name: "organization-id",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "active, past_due or canceled",
					},
				),
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := optionalUUIDString(command, "organization-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Subscriptions.List(ctx, client.SubscriptionListParams{
						Pagination:     pagination(command),
						OrganizationID: orgID,
						Status:         optionalString(command, "status"),
					}).Unwrap())
					showPage(command, subscriptionTableFields(), res)
					return nil
				},
			},
			getCommand(func(c *client.Client) *client.Query[models.Subscription, client.SubscriptionListParams] {
				return c.Subscriptions.Query
			}, "subscription-id", subscriptionTableFields),
			{
				Name:  "create",
				Usage: "Create the subscription of an organization",
				Flags: []cli.Flag{
					idFlag("organization-id"),
					&cli.StringFlag{
						Name:  "plan",
						Value: models.PlanStandard,
					},
					&cli.IntFlag{
						Name:     "seat-limit",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "renews-in",
						Usage: "Time until the subscription renews",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := getUUID(command, "organization-id")
					if err != nil {
						return err
					}
					add := models.AddSubscription{
						OrganizationID: orgID,
						Plan:           command.String("plan"),
						SeatLimit:      int(command.Int("seat-limit")),
					}
					if command.IsSet("renews-in") {
						add.RenewsAt = util.Ptr(time.Now().Add(command.Duration("renews-in")))
					}
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Subscriptions.Create(ctx, add))
					show(command, subscriptionTableFields(), res)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Change the plan, status or seat limit of a subscription",
				Flags: []cli.Flag{
					idFlag("subscription-id"),
					&cli.StringFlag{
						Name: "plan",
					},
					&cli.StringFlag{
						Name: "status",
					},
					&cli.IntFlag{
						Name: "seat-limit",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					id, err := getUUID(command, "subscription-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					sub := apiResponse(c.Subscriptions.Get(ctx, id.String()).Unwrap())
					update := models.UpdateSubscription{
						Plan:      sub.Plan,
						Status:    sub.Status,
						SeatLimit: sub.SeatLimit,
						RenewsAt:  sub.RenewsAt,
					}
					if command.IsSet("plan") {
						update.Plan = command.String("plan")
					}
					if command.IsSet("status") {
						update.Status = command.String("status")
					}
					if command.IsSet("seat-limit") {
						update.SeatLimit = int(command.Int("seat-limit"))
					}
					res := apiResponse(c.Subscriptions.Update(ctx, id.String(), update))
					show(command, subscriptionTableFields(), res)
					return nil
				},
			},
			deleteCommand(subscriptions, "subscription-id"),
		},
	}
}

func subscriptionTableFields() []TableField {
	var fields []TableField
	fields = append(fields, TableField{Header: "SUBSCRIPTION ID", Field: "ID"})
	fields = append(fields, TableField{Header: "ORGANIZATION ID", Field: "OrganizationID"})
	fields = append(fields, TableField{Header: "PLAN", Field: "Plan"})
	fields = append(fields, TableField{Header: "STATUS", Field: "Status"})
	fields = append(fields, TableField{Header: "SEAT LIMIT", Field: "SeatLimit"})
	fields = append(fields, TableField{Header: "RENEWS", Field: "RenewsAt"})
	return fields
}

func createProfileCommand() *cli.Command {
	profileFlags := []cli.Flag{
		&cli.StringFlag{Name: "display-name"},
		&cli.StringFlag{Name: "address"},
		&cli.StringFlag{Name: "website"},
		&cli.StringFlag{Name: "contact-email"},
		&cli.StringFlag{Name: "logo-url"},
	}
	return &cli.Command{
		Name:  "profile",
		Usage: "Commands relating to organization profiles",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List profiles",
				Flags: append(paginationFlags(),
					&cli.StringFlag{
						Name: "organization-id",
					},
				),
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := optionalUUIDString(command, "organization-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Profiles.List(ctx, client.ProfileListParams{
						Pagination:     pagination(command),
						OrganizationID: orgID,
					}).Unwrap())
					showPage(command, profileTableFields(), res)
					return nil
				},
			},
			getCommand(func(c *client.Client) *client.Query[models.Profile, client.ProfileListParams] {
				return c.Profiles.Query
			}, "profile-id", profileTableFields),
			{
				Name:  "create",
				Usage: "Create the profile of an organization",
				Flags: append([]cli.Flag{idFlag("organization-id")}, profileFlags...),
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := getUUID(command, "organization-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Profiles.Create(ctx, models.AddProfile{
						OrganizationID: orgID,
						DisplayName:    command.String("display-name"),
						Address:        command.String("address"),
						Website:        command.String("website"),
						ContactEmail:   command.String("contact-email"),
						LogoURL:        command.String("logo-url"),
					}))
					show(command, profileTableFields(), res)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Update the profile of an organization",
				Flags: append([]cli.Flag{idFlag("profile-id")}, profileFlags...),
				Action: func(ctx context.Context, command *cli.Command) error {
					id, err := getUUID(command, "profile-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					profile := apiResponse(c.Profiles.Get(ctx, id.String()).Unwrap())
					update := models.UpdateProfile{
						DisplayName:  profile.DisplayName,
						Address:      profile.Address,
						Website:      profile.Website,
						ContactEmail: profile.ContactEmail,
						LogoURL:      profile.LogoURL,
					}
					for flag, field := range map[string]*string{
						"display-name":  &update.DisplayName,
						"address":       &update.Address,
						"website":       &update.Website,
						"contact-email": &update.ContactEmail,
						"logo-url":      &update.LogoURL,
					} {
						if command.IsSet(flag) {
							*field = command.String(flag)
						}
					}
					res := apiResponse(c.Profiles.Update(ctx, id.String(), update))
					show(command, profileTableFields(), res)
					return nil
				},
			},
			deleteCommand(profiles, "profile-id"),
		},
	}
}

func profileTableFields() []TableField {
	var fields []TableField
	fields = append(fields, TableField{Header: "PROFILE ID", Field: "ID"})
	fields = append(fields, TableField{Header: "ORGANIZATION ID", Field: "OrganizationID"})
	fields = append(fields, TableField{Header: "DISPLAY NAME", Field: "DisplayName"})
	fields = append(fields, TableField{Header: "WEBSITE", Field: "Website"})
	fields = append(fields, TableField{Header: "CONTACT", Field: "ContactEmail"})
	return fields
}
