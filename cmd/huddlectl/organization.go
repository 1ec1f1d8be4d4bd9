package main

import (
	"context"

	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/urfave/cli/v3"
)

func organizations(c *client.Client) *client.Resource[models.Organization, models.AddOrganization, models.UpdateOrganization, client.OrganizationListParams] {
	return c.Organizations
}

func createOrganizationCommand() *cli.Command {
	return &cli.Command{
		Name:  "organization",
		Usage: "Commands relating to organizations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List organizations",
				Flags: append(paginationFlags(),
					&cli.StringFlag{
						Name:  "sport",
						Usage: "Only show organizations of this sport",
					},
				),
				Action: func(ctx context.Context, command *cli.Command) error {
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Organizations.List(ctx, client.OrganizationListParams{
						Pagination: pagination(command),
						Sport:      optionalString(command, "sport"),
					}).Unwrap())
					showPage(command, organizationTableFields(), res)
					return nil
				},
			},
			getCommand(func(c *client.Client) *client.Query[models.Organization, client.OrganizationListParams] {
				return c.Organizations.Query
			}, "organization-id", organizationTableFields),
			{
				Name:  "create",
				Usage: "Create an organization with its subscription and profile",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Required: true,
					},
					&cli.StringFlag{
						Name: "description",
					},
					&cli.StringFlag{
						Name: "sport",
					},
					&cli.IntFlag{
						Name:  "seat-limit",
						Usage: "Seats of the standard plan, 0 starts the organization on the free plan",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Organizations.Create(ctx, models.AddOrganization{
						Name:        command.String("name"),
						Description: command.String("description"),
						Sport:       command.String("sport"),
						SeatLimit:   int(command.Int("seat-limit")),
					}))
					show(command, organizationTableFields(), res)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Update an organization",
				Flags: []cli.Flag{
					idFlag("organization-id"),
					&cli.StringFlag{
						Name: "name",
					},
					&cli.StringFlag{
						Name: "description",
					},
					&cli.StringFlag{
						Name: "sport",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					id, err := getUUID(command, "organization-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					org := apiResponse(c.Organizations.Get(ctx, id.String()).Unwrap())
					update := models.UpdateOrganization{
						Name:        org.Name,
						Description: org.Description,
						Sport:       org.Sport,
					}
					if command.IsSet("name") {
						update.Name = command.String("name")
					}
					if command.IsSet("description") {
						update.Description = command.String("description")
					}
					if command.IsSet("sport") {
						update.Sport = command.String("sport")
					}
					res := apiResponse(c.Organizations.Update(ctx, id.String(), update))
					show(command, organizationTableFields(), res)
					return nil
				},
			},
			deleteCommand(organizations, "organization-id"),
		},
	}
}

func organizationTableFields() []TableField {
	var fields []TableField
	fields = append(fields, TableField{Header: "ORGANIZATION ID", Field: "ID"})
	fields = append(fields, TableField{Header: "NAME", Field: "Name"})
	fields = append(fields, TableField{Header: "SPORT", Field: "Sport"})
	fields = append(fields, TableField{Header: "DESCRIPTION", Field: "Description"})
	fields = append(fields, TableField{Header: "PLAN", Formatter: func(item interface{}) string {
		org := item.(models.Organization)
		if org.Subscription == nil {
			return ""
		}
		return org.Subscription.Plan
	}})
	return fields
}
