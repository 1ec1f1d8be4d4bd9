package client

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/go-querystring/query"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Pagination is embedded by every list params struct.
type Pagination struct {
	Page     *int    `url:"page,omitempty" validate:"omitempty,min=1"`
	PageSize *int    `url:"page_size,omitempty" validate:"omitempty,min=1,max=100"`
	Sort     *string `url:"sort,omitempty"`
}

type NoParams struct{}

type OrganizationListParams struct {
	Pagination
	Sport *string `url:"sport,omitempty"`
}

type SubscriptionListParams struct {
	Pagination
	OrganizationID *string `url:"organization_id,omitempty" validate:"omitempty,uuid"`
	Status         *string `url:"status,omitempty" validate:"omitempty,oneof=active past_due canceled"`
}

type ProfileListParams struct {
	Pagination
	OrganizationID *string `url:"organization_id,omitempty" validate:"omitempty,uuid"`
}

type SeatListParams struct {
	Pagination
	OrganizationID *string `url:"organization_id,omitempty" validate:"omitempty,uuid"`
	UserID         *string `url:"user_id,omitempty" validate:"omitempty,uuid"`
	Available      *bool   `url:"available,omitempty"`
}

type UserListParams struct {
	Pagination
	OrganizationID *string `url:"organization_id,omitempty" validate:"omitempty,uuid"`
}

type FilteredUserListParams struct {
	Pagination
	OrganizationID *string `url:"organization_id,omitempty" validate:"omitempty,uuid"`
	Role           *string `url:"role,omitempty" validate:"omitempty,oneof=member coach admin superadmin"`
	Search         *string `url:"search,omitempty"`
	HasSeat        *bool   `url:"has_seat,omitempty"`
}

type CourseListParams struct {
	Pagination
	Search *string `url:"search,omitempty"`
	Level  *string `url:"level,omitempty"`
}

type OrgCourseListParams struct {
	Pagination
	OrganizationID *string `url:"organization_id,omitempty" validate:"omitempty,uuid"`
	CourseID       *string `url:"course_id,omitempty" validate:"omitempty,uuid"`
}

type TeamListParams struct {
	Pagination
	OrganizationID *string `url:"organization_id,omitempty" validate:"omitempty,uuid"`
}

type FeedbackListParams struct {
	Pagination
	SourcePage *string `url:"source_page,omitempty"`
	MinRating  *int    `url:"min_rating,omitempty" validate:"omitempty,min=1,max=5"`
}

type InvitationCodeListParams struct {
	Pagination
	OrganizationID *string `url:"organization_id,omitempty" validate:"omitempty,uuid"`
}

// EncodeParams validates params and encodes its set fields as a query
// string. Nil fields are left out.
func EncodeParams(params any) (string, error) {
	if params == nil {
		return "", nil
	}
	if err := validate.Struct(params); err != nil {
		return "", err
	}
	values, err := query.Values(params)
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}
