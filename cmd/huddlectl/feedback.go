package main

import (
	"context"

	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/util"
	"github.com/urfave/cli/v3"
)

func feedback(c *client.Client) *client.Resource[models.Feedback, models.AddFeedback, models.UpdateFeedback, client.FeedbackListParams] {
	return c.Feedback
}

func createFeedbackCommand() *cli.Command {
	return &cli.Command{
		Name:  "feedback",
		Usage: "Commands relating to user feedback",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List feedback, newest first",
				Flags: append(paginationFlags(),
					&cli.StringFlag{
						Name:  "source-page",
						Usage: "Only show feedback sent from this page",
					},
					&cli.IntFlag{
						Name: "min-rating",
					},
				),
				Action: func(ctx context.Context, command *cli.Command) error {
					params := client.FeedbackListParams{
						Pagination: pagination(command),
						SourcePage: optionalString(command, "source-page"),
					}
					if command.IsSet("min-rating") {
						params.MinRating = util.Ptr(int(command.Int("min-rating")))
					}
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Feedback.List(ctx, params).Unwrap())
					showPage(command, feedbackTableFields(), res)
					return nil
				},
			},
			getCommand(func(c *client.Client) *client.Query[models.Feedback, client.FeedbackListParams] {
				return c.Feedback.Query
			}, "feedback-id", feedbackTableFields),
			{
				Name:  "send",
				Usage: "Send feedback",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "message",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "rating",
						Usage:    "1 to 5",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "page",
						Value: "huddlectl",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Feedback.Create(ctx, models.AddFeedback{
						Message: command.String("message"),
						Rating:  int(command.Int("rating")),
						Page:    command.String("page"),
					}))
					show(command, feedbackTableFields(), res)
					return nil
				},
			},
			deleteCommand(feedback, "feedback-id"),
		},
	}
}

func feedbackTableFields() []TableField {
	var fields []TableField
	fields = append(fields, TableField{Header: "FEEDBACK ID", Field: "ID"})
	fields = append(fields, TableField{Header: "RATING", Field: "Rating"})
	fields = append(fields, TableField{Header: "PAGE", Field: "Page"})
	fields = append(fields, TableField{Header: "MESSAGE", Field: "Message"})
	fields = append(fields, TableField{Header: "SENT", Field: "CreatedAt"})
	return fields
}
