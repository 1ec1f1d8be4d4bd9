package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/util"
	"github.com/urfave/cli/v3"
)

func paginationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page to show, starting at 1",
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "Number of items per page (max 100)",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Field to sort by, prefix with - for descending order",
		},
	}
}

func pagination(command *cli.Command) client.Pagination {
	p := client.Pagination{}
	if command.IsSet("page") {
		p.Page = util.Ptr(int(command.Int("page")))
	}
	if command.IsSet("page-size") {
		p.PageSize = util.Ptr(int(command.Int("page-size")))
	}
	p.Sort = optionalString(command, "sort")
	return p
}

// optionalString returns nil for flags that were not given.
func optionalString(command *cli.Command, name string) *string {
	if !command.IsSet(name) {
		return nil
	}
	return util.Ptr(command.String(name))
}

func optionalBool(command *cli.Command, name string) *bool {
	if !command.IsSet(name) {
		return nil
	}
	return util.Ptr(command.Bool(name))
}

func getUUID(command *cli.Command, name string) (uuid.UUID, error) {
	value := command.String(name)
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s '%s': %w", name, value, err)
	}
	return id, nil
}

func getUUIDs(command *cli.Command, name string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, value := range command.StringSlice(name) {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s '%s': %w", name, value, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// optionalUUIDString validates the flag and returns it as a list filter.
func optionalUUIDString(command *cli.Command, name string) (*string, error) {
	if !command.IsSet(name) {
		return nil, nil
	}
	id, err := getUUID(command, name)
	if err != nil {
		return nil, err
	}
	return util.Ptr(id.String()), nil
}

func idFlag(name string) cli.Flag {
	return &cli.StringFlag{
		Name:     name,
		Required: true,
	}
}

// getCommand shows a single entity of the query's resource.
func getCommand[T any, P any](query func(c *client.Client) *client.Query[T, P], idName string, fields func() []TableField) *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "Show one item",
		Flags: []cli.Flag{idFlag(idName)},
		Action: func(ctx context.Context, command *cli.Command) error {
			id, err := getUUID(command, idName)
			if err != nil {
				return err
			}
			c := mustCreateClient(ctx, command)
			res := apiResponse(query(c).Get(ctx, id.String()).Unwrap())
			show(command, fields(), res)
			return nil
		},
	}
}

func deleteCommand[T any, A any, U any, P any](resource func(c *client.Client) *client.Resource[T, A, U, P], idName string) *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete one item",
		Flags: []cli.Flag{idFlag(idName)},
		Action: func(ctx context.Context, command *cli.Command) error {
			id, err := getUUID(command, idName)
			if err != nil {
				return err
			}
			c := mustCreateClient(ctx, command)
			_ = apiResponse(struct{}{}, resource(c).Delete(ctx, id.String()))
			showSuccessfully(command, "deleted")
			return nil
		},
	}
}
