package main

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/urfave/cli/v3"
)

func users(c *client.Client) *client.Resource[models.User, models.AddUser, models.UpdateUser, client.UserListParams] {
	return c.Users
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Commands relating to users",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List users",
				Flags: append(paginationFlags(),
					&cli.StringFlag{
						Name: "organization-id",
					},
					&cli.StringFlag{
						Name:  "role",
						Usage: "member, coach, admin or superadmin",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Only show users whose email or name contains this text",
					},
					&cli.BoolFlag{
						Name:  "has-seat",
						Usage: "Only show users holding a seat, --has-seat=false shows users without one",
					},
				),
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := optionalUUIDString(command, "organization-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					var res client.Page[models.User]
					if command.IsSet("role") || command.IsSet("search") || command.IsSet("has-seat") {
						res = apiResponse(c.FilteredUsers.List(ctx, client.FilteredUserListParams{
							Pagination:     pagination(command),
							OrganizationID: orgID,
							Role:           optionalString(command, "role"),
							Search:         optionalString(command, "search"),
							HasSeat:        optionalBool(command, "has-seat"),
						}).Unwrap())
					} else {
						res = apiResponse(c.Users.List(ctx, client.UserListParams{
							Pagination:     pagination(command),
							OrganizationID: orgID,
						}).Unwrap())
					}
					showPage(command, userTableFields(), res)
					return nil
				},
			},
			getCommand(func(c *client.Client) *client.Query[models.User, client.UserListParams] {
				return c.Users.Query
			}, "user-id", userTableFields),
			{
				Name:  "create",
				Usage: "Create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Required: true,
					},
					&cli.StringFlag{
						Name: "full-name",
					},
					&cli.StringFlag{
						Name:  "role",
						Value: models.RoleMember,
					},
					&cli.StringFlag{
						Name:  "organization-id",
						Usage: "Defaults to the organization of the current user",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					add := models.AddUser{
						Email:    command.String("email"),
						FullName: command.String("full-name"),
						Role:     command.String("role"),
					}
					if command.IsSet("organization-id") {
						orgID, err := getUUID(command, "organization-id")
						if err != nil {
							return err
						}
						add.OrganizationID = &orgID
					}
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Users.Create(ctx, add))
					show(command, userTableFields(), res)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Update a user",
				Flags: []cli.Flag{
					idFlag("user-id"),
					&cli.StringFlag{
						Name: "full-name",
					},
					&cli.StringFlag{
						Name: "role",
					},
					&cli.StringFlag{
						Name: "organization-id",
					},
					&cli.StringSliceFlag{
						Name:  "course-id",
						Usage: "Courses the user takes, replaces the current courses",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					id, err := getUUID(command, "user-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					user := apiResponse(c.Users.Get(ctx, id.String()).Unwrap())
					update := models.UpdateUser{
						FullName:       user.FullName,
						Role:           user.Role,
						OrganizationID: user.OrganizationID,
					}
					if command.IsSet("full-name") {
						update.FullName = command.String("full-name")
					}
					if command.IsSet("role") {
						update.Role = command.String("role")
					}
					if command.IsSet("organization-id") {
						orgID, err := getUUID(command, "organization-id")
						if err != nil {
							return err
						}
						update.OrganizationID = &orgID
					}
					if command.IsSet("course-id") {
						update.CourseIDs, err = getUUIDs(command, "course-id")
						if err != nil {
							return err
						}
						if update.CourseIDs == nil {
							update.CourseIDs = []uuid.UUID{}
						}
					}
					res := apiResponse(c.Users.Update(ctx, id.String(), update))
					show(command, userTableFields(), res)
					return nil
				},
			},
			deleteCommand(users, "user-id"),
		},
	}
}

func userTableFields() []TableField {
	var fields []TableField
	fields = append(fields, TableField{Header: "USER ID", Field: "ID"})
	fields = append(fields, TableField{Header: "EMAIL", Field: "Email"})
	fields = append(fields, TableField{Header: "NAME", Field: "FullName"})
	fields = append(fields, TableField{Header: "ROLE", Field: "Role"})
	fields = append(fields, TableField{Header: "ORGANIZATION ID", Formatter: func(item interface{}) string {
		return optionalID(item.(models.User).OrganizationID)
	}})
	fields = append(fields, TableField{Header: "SEAT", Formatter: func(item interface{}) string {
		user := item.(models.User)
		if user.Seat == nil {
			return ""
		}
		return user.Seat.ID.String()
	}})
	fields = append(fields, TableField{Header: "COURSES", Formatter: func(item interface{}) string {
		var titles []string
		for _, course := range item.(models.User).Courses {
			titles = append(titles, course.Title)
		}
		return strings.Join(titles, ", ")
	}})
	return fields
}
