package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/urfave/cli/v3"
)

func invitationCodes(c *client.Client) *client.Resource[models.InvitationCode, models.AddInvitationCode, models.UpdateInvitationCode, client.InvitationCodeListParams] {
	return c.InvitationCodes
}

func createInvitationCommand() *cli.Command {
	return &cli.Command{
		Name:  "invitation",
		Usage: "Commands relating to invitation codes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List invitation codes",
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
					res := apiResponse(c.InvitationCodes.List(ctx, client.InvitationCodeListParams{
						Pagination:     pagination(command),
						OrganizationID: orgID,
					}).Unwrap())
					showPage(command, invitationTableFields(), res)
					return nil
				},
			},
			getCommand(func(c *client.Client) *client.Query[models.InvitationCode, client.InvitationCodeListParams] {
				return c.InvitationCodes.Query
			}, "invitation-id", invitationTableFields),
			{
				Name:  "create",
				Usage: "Create an invitation code for an organization",
				Flags: []cli.Flag{
					idFlag("organization-id"),
					&cli.StringFlag{
						Name:  "email",
						Usage: "Only this address may redeem the code, it is emailed the code when the server sends invitation emails",
					},
					&cli.StringFlag{
						Name:  "role",
						Value: models.RoleMember,
					},
					&cli.DurationFlag{
						Name:  "expires-in",
						Value: 7 * 24 * time.Hour,
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := getUUID(command, "organization-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					session := mustStartSession(ctx, command, c)
					if !session.Config.Enabled("invitations") {
						log.Fatal("invitations are disabled on this server")
					}
					res := apiResponse(c.InvitationCodes.Create(ctx, models.AddInvitationCode{
						OrganizationID: orgID,
						Email:          command.String("email"),
						Role:           command.String("role"),
						ExpiresIn:      command.Duration("expires-in").String(),
					}))
					show(command, invitationTableFields(), res)
					if res.Email != "" && !session.Config.Enabled("invitation-emails") {
						log.Printf("the server does not send emails, pass the code to %s yourself", res.Email)
					}
					return nil
				},
			},
			{
				Name:      "redeem",
				Usage:     "Join the organization of an invitation code",
				ArgsUsage: "CODE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "full-name",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					code := strings.TrimSpace(command.Args().First())
					if code == "" {
						log.Fatal("the invitation code argument is required")
					}
					c := mustCreateClient(ctx, command)
					session := mustStartSession(ctx, command, c)
					res := apiResponse(c.RedeemInvitationCode(ctx, code, models.RedeemInvitationCode{
						FullName: command.String("full-name"),
					}))
					if _, err := session.Users.Refresh(ctx); err != nil {
						log.Printf("failed to refresh the current user: %v", client.Simplify(err))
					}
					show(command, userTableFields(), res)
					showSuccessfully(command, "joined")
					return nil
				},
			},
			deleteCommand(invitationCodes, "invitation-id"),
		},
	}
}

func invitationStatus(item interface{}) string {
	invitation := item.(models.InvitationCode)
	switch {
	case invitation.Consumed():
		return color.CyanString("redeemed")
	case invitation.Expired(time.Now()):
		return color.RedString("expired")
	}
	return color.GreenString("pending")
}

func invitationTableFields() []TableField {
	var fields []TableField
	fields = append(fields, TableField{Header: "INVITATION ID", Field: "ID"})
	fields = append(fields, TableField{Header: "CODE", Field: "Code"})
	fields = append(fields, TableField{Header: "ORGANIZATION ID", Field: "OrganizationID"})
	fields = append(fields, TableField{Header: "EMAIL", Field: "Email"})
	fields = append(fields, TableField{Header: "ROLE", Field: "Role"})
	fields = append(fields, TableField{Header: "STATUS", Formatter: invitationStatus})
	fields = append(fields, TableField{Header: "EXPIRES", Formatter: func(item interface{}) string {
		return humanize.Time(item.(models.InvitationCode).ExpiresAt)
	}})
	return fields
}
