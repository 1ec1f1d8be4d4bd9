package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/urfave/cli/v3"
)

func teams(c *client.Client) *client.Resource[models.Team, models.AddTeam, models.UpdateTeam, client.TeamListParams] {
	return c.Teams
}

func createTeamCommand() *cli.Command {
	return &cli.Command{
		Name:  "team",
		Usage: "Commands relating to the teams of an organization",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List teams",
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
					res := apiResponse(c.Teams.List(ctx, client.TeamListParams{
						Pagination:     pagination(command),
						OrganizationID: orgID,
					}).Unwrap())
					showPage(command, teamTableFields(), res)
					return nil
				},
			},
			getCommand(func(c *client.Client) *client.Query[models.Team, client.TeamListParams] {
				return c.Teams.Query
			}, "team-id", teamTableFields),
			{
				Name:  "create",
				Usage: "Create a team",
				Flags: []cli.Flag{
					idFlag("organization-id"),
					&cli.StringFlag{
						Name:     "name",
						Required: true,
					},
					&cli.StringFlag{
						Name: "category",
					},
					&cli.StringSliceFlag{
						Name:  "coach-id",
						Usage: "User id of a coach of the team, may be repeated",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := getUUID(command, "organization-id")
					if err != nil {
						return err
					}
					coachIDs, err := getUUIDs(command, "coach-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Teams.Create(ctx, models.AddTeam{
						OrganizationID: orgID,
						Name:           command.String("name"),
						Category:       command.String("category"),
						CoachIDs:       coachIDs,
					}))
					show(command, teamTableFields(), res)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Update a team",
				Flags: []cli.Flag{
					idFlag("team-id"),
					&cli.StringFlag{
						Name: "name",
					},
					&cli.StringFlag{
						Name: "category",
					},
					&cli.StringSliceFlag{
						Name:  "coach-id",
						Usage: "Coaches of the team, replaces the current coaches",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					id, err := getUUID(command, "team-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					team := apiResponse(c.Teams.Get(ctx, id.String()).Unwrap())
					update := models.UpdateTeam{
						Name:     team.Name,
						Category: team.Category,
					}
					for _, coach := range team.Coaches {
						update.CoachIDs = append(update.CoachIDs, coach.ID)
					}
					if command.IsSet("name") {
						update.Name = command.String("name")
					}
					if command.IsSet("category") {
						update.Category = command.String("category")
					}
					if command.IsSet("coach-id") {
						if update.CoachIDs, err = getUUIDs(command, "coach-id"); err != nil {
							return err
						}
					}
					res := apiResponse(c.Teams.Update(ctx, id.String(), update))
					show(command, teamTableFields(), res)
					return nil
				},
			},
			deleteCommand(teams, "team-id"),
		},
	}
}

func teamTableFields() []TableField {
	var fields []TableField
	fields = append(fields, TableField{Header: "TEAM ID", Field: "ID"})
	fields = append(fields, TableField{Header: "ORGANIZATION ID", Field: "OrganizationID"})
	fields = append(fields, TableField{Header: "NAME", Field: "Name"})
	fields = append(fields, TableField{Header: "CATEGORY", Field: "Category"})
	fields = append(fields, TableField{Header: "COACHES", Formatter: func(item interface{}) string {
		var names []string
		for _, coach := range item.(models.Team).Coaches {
			names = append(names, coach.Email)
		}
		return strings.Join(names, ", ")
	}})
	fields = append(fields, TableField{Header: "COURSES", Formatter: func(item interface{}) string {
		return fmt.Sprintf("%d", len(item.(models.Team).Courses))
	}})
	return fields
}
