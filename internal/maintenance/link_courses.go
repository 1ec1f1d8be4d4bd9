// Package maintenance holds one-off data repair jobs run against the api
// server database.
package maintenance

import (
	"context"

	"github.com/huddle-io/huddle/internal/database"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("github.com/huddle-io/huddle/internal/maintenance")
}

// LinkResult counts what LinkCoursesToTeams looked at and what it added.
type LinkResult struct {
	Teams      int64
	OrgCourses int64
	Linked     int64
}

const linkCoursesSQL = `
INSERT INTO team_courses (team_id, course_id)
SELECT teams.id, org_courses.course_id
FROM teams
JOIN org_courses ON org_courses.organization_id = teams.organization_id
WHERE teams.deleted_at IS NULL
  AND org_courses.deleted_at IS NULL
  AND NOT EXISTS (
    SELECT 1 FROM team_courses
    WHERE team_courses.team_id = teams.id
      AND team_courses.course_id = org_courses.course_id
  )`

// LinkCoursesToTeams links every course assigned to an organization to
// every team of that organization. Existing links are kept.
func LinkCoursesToTeams(ctx context.Context, db *gorm.DB) (LinkResult, error) {
	ctx, span := tracer.Start(ctx, "LinkCoursesToTeams")
	defer span.End()

	var result LinkResult
	transaction, _ := database.GetTransactionFunc(db)
	err := transaction(ctx, func(tx *gorm.DB) error {
		if res := tx.Table("teams").Where("deleted_at IS NULL").Count(&result.Teams); res.Error != nil {
			return errors.Wrap(res.Error, "failed to count teams")
		}
		if res := tx.Table("org_courses").Where("deleted_at IS NULL").Count(&result.OrgCourses); res.Error != nil {
			return errors.Wrap(res.Error, "failed to count organization courses")
		}
		res := tx.Exec(linkCoursesSQL)
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to link courses to teams")
		}
		result.Linked = res.RowsAffected
		return nil
	})
	if err != nil {
		return LinkResult{}, err
	}

	span.SetAttributes(
		attribute.Int64("teams", result.Teams),
		attribute.Int64("linked", result.Linked),
	)
	return result, nil
}
