package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/seats"
	"github.com/urfave/cli/v3"
)

func seatResource(c *client.Client) *client.Resource[models.Seat, models.AddSeat, models.UpdateSeat, client.SeatListParams] {
	return c.Seats
}

func createSeatCommand() *cli.Command {
	return &cli.Command{
		Name:  "seat",
		Usage: "Commands relating to the seats of an organization",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List seats",
				Flags: append(paginationFlags(),
					&cli.StringFlag{
						Name: "organization-id",
					},
					&cli.StringFlag{
						Name: "user-id",
					},
					&cli.BoolFlag{
						Name:  "available",
						Usage: "Only show free seats, --available=false only shows occupied seats",
					},
				),
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := optionalUUIDString(command, "organization-id")
					if err != nil {
						return err
					}
					userID, err := optionalUUIDString(command, "user-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Seats.List(ctx, client.SeatListParams{
						Pagination:     pagination(command),
						OrganizationID: orgID,
						UserID:         userID,
						Available:      optionalBool(command, "available"),
					}).Unwrap())
					showPage(command, seatTableFields(), res)
					return nil
				},
			},
			getCommand(func(c *client.Client) *client.Query[models.Seat, client.SeatListParams] {
				return c.Seats.Query
			}, "seat-id", seatTableFields),
			{
				Name:  "create",
				Usage: "Add seats to an organization, up to the limit of its subscription",
				Flags: []cli.Flag{
					idFlag("organization-id"),
					&cli.IntFlag{
						Name:  "count",
						Value: 1,
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := getUUID(command, "organization-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					var created []models.Seat
					for i := int64(0); i < command.Int("count"); i++ {
						seat, err := c.Seats.Create(ctx, models.AddSeat{OrganizationID: orgID})
						if err != nil {
							if len(created) > 0 {
								show(command, seatTableFields(), created)
							}
							return client.Simplify(err)
						}
						created = append(created, seat)
					}
					show(command, seatTableFields(), created)
					return nil
				},
			},
			{
				Name:  "assign",
				Usage: "Give a user the first free seat of an organization",
				Flags: []cli.Flag{
					idFlag("organization-id"),
					idFlag("user-id"),
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := getUUID(command, "organization-id")
					if err != nil {
						return err
					}
					userID, err := getUUID(command, "user-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					session := mustStartSession(ctx, command, c)
					assigner := seats.NewAssigner(c, session, createLogger(command))
					seat, err := assigner.AssignSeat(ctx, orgID, userID)
					if errors.Is(err, seats.ErrNoSeatAvailable) {
						return fmt.Errorf("organization %s has no free seat, add seats with 'huddlectl seat create'", orgID)
					}
					res := apiResponse(seat, err)
					show(command, seatTableFields(), res)
					showSuccessfully(command, "assigned")
					return nil
				},
			},
			{
				Name:  "unassign",
				Usage: "Release the seat held by a user",
				Flags: []cli.Flag{
					idFlag("user-id"),
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					userID, err := getUUID(command, "user-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					session := mustStartSession(ctx, command, c)
					assigner := seats.NewAssigner(c, session, createLogger(command))
					seat, err := assigner.UnassignSeat(ctx, userID)
					if errors.Is(err, seats.ErrUserHasNoSeat) {
						return fmt.Errorf("user %s does not hold a seat", userID)
					}
					res := apiResponse(seat, err)
					show(command, seatTableFields(), res)
					showSuccessfully(command, "released")
					return nil
				},
			},
			deleteCommand(seatResource, "seat-id"),
		},
	}
}

func seatTableFields() []TableField {
	var fields []TableField
	fields = append(fields, TableField{Header: "SEAT ID", Field: "ID"})
	fields = append(fields, TableField{Header: "ORGANIZATION ID", Field: "OrganizationID"})
	fields = append(fields, TableField{Header: "STATUS", Formatter: seatStatus})
	fields = append(fields, TableField{Header: "USER ID", Formatter: func(item interface{}) string {
		return optionalID(item.(models.Seat).UserID)
	}})
	fields = append(fields, TableField{Header: "USER", Formatter: func(item interface{}) string {
		seat := item.(models.Seat)
		if seat.User == nil {
			return ""
		}
		return seat.User.Email
	}})
	return fields
}
