package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/urfave/cli/v3"
)

func createAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Superadmin console",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show the counters of the whole installation",
				Action: func(ctx context.Context, command *cli.Command) error {
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.AdminStats(ctx).Unwrap())
					show(command, statsTableFields(), res)
					return nil
				},
			},
			{
				Name:  "config",
				Usage: "Show the page configuration and feature flags of the server",
				Action: func(ctx context.Context, command *cli.Command) error {
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.PageConfig(ctx).Unwrap())
					output := command.String("output")
					if output != encodeColumn && output != encodeNoHeader {
						show(command, nil, res)
						return nil
					}
					type feature struct {
						Name    string
						Enabled bool
					}
					var features []feature
					for name, enabled := range res.Features {
						features = append(features, feature{Name: name, Enabled: enabled})
					}
					sort.Slice(features, func(i, j int) bool {
						return features[i].Name < features[j].Name
					})
					if output == encodeColumn {
						fmt.Printf("%s %s\n\n", res.AppName, res.Version)
					}
					show(command, []TableField{
						{Header: "FEATURE", Field: "Name"},
						{Header: "ENABLED", Field: "Enabled"},
					}, features)
					return nil
				},
			},
		},
	}
}

func statsTableFields() []TableField {
	count := func(get func(s models.AdminStats) int64) func(item interface{}) string {
		return func(item interface{}) string {
			return humanize.Comma(get(item.(models.AdminStats)))
		}
	}
	var fields []TableField
	fields = append(fields, TableField{Header: "ORGANIZATIONS", Formatter: count(func(s models.AdminStats) int64 { return s.Organizations })})
	fields = append(fields, TableField{Header: "USERS", Formatter: count(func(s models.AdminStats) int64 { return s.Users })})
	fields = append(fields, TableField{Header: "SEATS", Formatter: count(func(s models.AdminStats) int64 { return s.Seats })})
	fields = append(fields, TableField{Header: "OCCUPIED", Formatter: count(func(s models.AdminStats) int64 { return s.OccupiedSeats })})
	fields = append(fields, TableField{Header: "TEAMS", Formatter: count(func(s models.AdminStats) int64 { return s.Teams })})
	fields = append(fields, TableField{Header: "COURSES", Formatter: count(func(s models.AdminStats) int64 { return s.Courses })})
	fields = append(fields, TableField{Header: "PENDING INVITES", Formatter: count(func(s models.AdminStats) int64 { return s.PendingInvites })})
	fields = append(fields, TableField{Header: "FEEDBACK", Formatter: count(func(s models.AdminStats) int64 { return s.FeedbackEntries })})
	return fields
}
