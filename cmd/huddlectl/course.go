package main

import (
	"context"
	"errors"
	"log"

	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/urfave/cli/v3"
)

func courses(c *client.Client) *client.Resource[models.Course, models.AddCourse, models.UpdateCourse, client.CourseListParams] {
	return c.Courses
}

func orgCourses(c *client.Client) *client.Resource[models.OrgCourse, models.AddOrgCourse, models.UpdateOrgCourse, client.OrgCourseListParams] {
	return c.OrgCourses
}

func createCourseCommand() *cli.Command {
	courseFlags := []cli.Flag{
		&cli.StringFlag{Name: "title"},
		&cli.StringFlag{Name: "description"},
		&cli.StringFlag{Name: "level", Usage: "beginner, intermediate or advanced"},
	}
	return &cli.Command{
		Name:  "course",
		Usage: "Commands relating to the course catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List courses",
				Flags: append(paginationFlags(),
					&cli.StringFlag{
						Name:  "search",
						Usage: "Only show courses whose title or description contains this text",
					},
					&cli.StringFlag{
						Name: "level",
					},
				),
				Action: func(ctx context.Context, command *cli.Command) error {
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Courses.List(ctx, client.CourseListParams{
						Pagination: pagination(command),
						Search:     optionalString(command, "search"),
						Level:      optionalString(command, "level"),
					}).Unwrap())
					showPage(command, courseTableFields(), res)
					return nil
				},
			},
			getCommand(func(c *client.Client) *client.Query[models.Course, client.CourseListParams] {
				return c.Courses.Query
			}, "course-id", courseTableFields),
			{
				Name:  "create",
				Usage: "Add a course to the catalog",
				Flags: courseFlags,
				Action: func(ctx context.Context, command *cli.Command) error {
					if command.String("title") == "" {
						return errors.New("--title is required")
					}
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.Courses.Create(ctx, models.AddCourse{
						Title:       command.String("title"),
						Description: command.String("description"),
						Level:       command.String("level"),
					}))
					show(command, courseTableFields(), res)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Update a course",
				Flags: append([]cli.Flag{idFlag("course-id")}, courseFlags...),
				Action: func(ctx context.Context, command *cli.Command) error {
					id, err := getUUID(command, "course-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					course := apiResponse(c.Courses.Get(ctx, id.String()).Unwrap())
					update := models.UpdateCourse{
						Title:       course.Title,
						Description: course.Description,
						Level:       course.Level,
					}
					if command.IsSet("title") {
						update.Title = command.String("title")
					}
					if command.IsSet("description") {
						update.Description = command.String("description")
					}
					if command.IsSet("level") {
						update.Level = command.String("level")
					}
					res := apiResponse(c.Courses.Update(ctx, id.String(), update))
					show(command, courseTableFields(), res)
					return nil
				},
			},
			deleteCommand(courses, "course-id"),
		},
	}
}

func courseTableFields() []TableField {
	var fields []TableField
	fields = append(fields, TableField{Header: "COURSE ID", Field: "ID"})
	fields = append(fields, TableField{Header: "TITLE", Field: "Title"})
	fields = append(fields, TableField{Header: "LEVEL", Field: "Level"})
	fields = append(fields, TableField{Header: "DESCRIPTION", Field: "Description"})
	return fields
}

func createOrgCourseCommand() *cli.Command {
	return &cli.Command{
		Name:  "org-course",
		Usage: "Commands relating to the courses assigned to organizations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List course assignments",
				Flags: append(paginationFlags(),
					&cli.StringFlag{
						Name: "organization-id",
					},
					&cli.StringFlag{
						Name: "course-id",
					},
				),
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := optionalUUIDString(command, "organization-id")
					if err != nil {
						return err
					}
					courseID, err := optionalUUIDString(command, "course-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					res := apiResponse(c.OrgCourses.List(ctx, client.OrgCourseListParams{
						Pagination:     pagination(command),
						OrganizationID: orgID,
						CourseID:       courseID,
					}).Unwrap())
					showPage(command, orgCourseTableFields(), res)
					return nil
				},
			},
			getCommand(func(c *client.Client) *client.Query[models.OrgCourse, client.OrgCourseListParams] {
				return c.OrgCourses.Query
			}, "org-course-id", orgCourseTableFields),
			{
				Name:  "assign",
				Usage: "Assign a catalog course to an organization",
				Flags: []cli.Flag{
					idFlag("organization-id"),
					idFlag("course-id"),
					&cli.StringFlag{
						Name:  "override-title",
						Usage: "Title shown to the organization instead of the catalog title",
					},
					&cli.StringFlag{
						Name: "override-description",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					orgID, err := getUUID(command, "organization-id")
					if err != nil {
						return err
					}
					courseID, err := getUUID(command, "course-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					if command.IsSet("override-title") || command.IsSet("override-description") {
						session := mustStartSession(ctx, command, c)
						if !session.Config.Enabled("course-overrides") {
							log.Fatal("course overrides are disabled on this server")
						}
					}
					res := apiResponse(c.OrgCourses.Create(ctx, models.AddOrgCourse{
						OrganizationID:      orgID,
						CourseID:            courseID,
						OverrideTitle:       command.String("override-title"),
						OverrideDescription: command.String("override-description"),
					}))
					show(command, orgCourseTableFields(), res)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Change the overrides of a course assignment",
				Flags: []cli.Flag{
					idFlag("org-course-id"),
					&cli.StringFlag{
						Name: "override-title",
					},
					&cli.StringFlag{
						Name: "override-description",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					id, err := getUUID(command, "org-course-id")
					if err != nil {
						return err
					}
					c := mustCreateClient(ctx, command)
					orgCourse := apiResponse(c.OrgCourses.Get(ctx, id.String()).Unwrap())
					update := models.UpdateOrgCourse{
						OverrideTitle:       orgCourse.OverrideTitle,
						OverrideDescription: orgCourse.OverrideDescription,
					}
					if command.IsSet("override-title") {
						update.OverrideTitle = command.String("override-title")
					}
					if command.IsSet("override-description") {
						update.OverrideDescription = command.String("override-description")
					}
					res := apiResponse(c.OrgCourses.Update(ctx, id.String(), update))
					show(command, orgCourseTableFields(), res)
					return nil
				},
			},
			deleteCommand(orgCourses, "org-course-id"),
		},
	}
}

func orgCourseTableFields() []TableField {
	var fields []TableField
	fields = append(fields, TableField{Header: "ORG COURSE ID", Field: "ID"})
	fields = append(fields, TableField{Header: "ORGANIZATION ID", Field: "OrganizationID"})
	fields = append(fields, TableField{Header: "COURSE ID", Field: "CourseID"})
	fields = append(fields, TableField{Header: "TITLE", Formatter: func(item interface{}) string {
		return item.(models.OrgCourse).Title()
	}})
	return fields
}
