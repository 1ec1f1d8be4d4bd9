package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/database"
	"github.com/huddle-io/huddle/internal/models"
	"gorm.io/gorm"
)

const (
	TotalCountHeader = "X-Total-Count"
	DefaultPageSize  = 25
	MaxPageSize      = 100
)

// Query holds the pagination parameters shared by every list endpoint.
type Query struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Sort     string `form:"sort"`
}

// GetSort turns "field" or "-field" into an order clause. Only the listed
// columns may be sorted on.
func (q *Query) GetSort(sortable ...string) (string, error) {
	if q.Sort == "" {
		return "", nil
	}
	column, direction := q.Sort, "ASC"
	if strings.HasPrefix(column, "-") {
		column, direction = column[1:], "DESC"
	}
	for _, s := range sortable {
		if s == column {
			return column + " " + direction, nil
		}
	}
	return "", fmt.Errorf("cannot sort by %q", column)
}

// GetRange returns the page size and the offset of the requested page.
func (q *Query) GetRange() (int, int, error) {
	page, pageSize := q.Page, q.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		return 0, 0, fmt.Errorf("page must be at least 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return 0, 0, fmt.Errorf("page_size must be between 1 and %d", MaxPageSize)
	}
	return pageSize, (page - 1) * pageSize, nil
}

// listOptions configures sendList.
type listOptions struct {
	defaultOrder string
	sortable     []string
	scopes       []func(db *gorm.DB) *gorm.DB
	preloads     []string
}

// sendList writes one page of T filtered by the scopes. The total is sent
// in meta.total and in the X-Total-Count header.
func sendList[T any](api *API, c *gin.Context, db *gorm.DB, o listOptions) {
	var query Query
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadQueryParameterError("page"))
		return
	}
	pageSize, offset, err := query.GetRange()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("page_size", err.Error()))
		return
	}
	order, err := query.GetSort(append([]string{"created_at", "updated_at"}, o.sortable...)...)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("sort", err.Error()))
		return
	}
	if order == "" {
		order = o.defaultOrder
	}

	var model T
	db = db.Model(&model)
	for _, scope := range o.scopes {
		db = scope(db)
	}

	var total int64
	if res := db.Session(&gorm.Session{}).Count(&total); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}

	for _, p := range o.preloads {
		db = db.Preload(p)
	}
	if order != "" {
		db = db.Order(order)
	}
	items := make([]T, 0)
	if res := db.Offset(offset).Limit(pageSize).Find(&items); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}

	c.Header("Access-Control-Expose-Headers", TotalCountHeader)
	c.Header(TotalCountHeader, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, models.NewListResponse(items, models.Meta{
		Total:    total,
		Page:     offset/pageSize + 1,
		PageSize: pageSize,
	}))
}

// parseID parses the :id path parameter, writing a 400 response when invalid.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return uuid.Nil, false
	}
	return id, true
}

// findByID loads the row named by the :id path parameter, writing the
// error response and returning false when it cannot.
func findByID[T any](api *API, c *gin.Context, db *gorm.DB, resource string, out *T) bool {
	id, ok := parseID(c)
	if !ok {
		return false
	}
	res := db.First(out, "id = ?", id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewNotFoundError(resource))
		} else {
			api.SendInternalServerError(c, res.Error)
		}
		return false
	}
	return true
}

// bindJSON binds the request body, writing a 400 response when invalid.
func bindJSON(c *gin.Context, request any) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return false
	}
	return true
}

// sendWriteError maps errors of a create or update to a response.
func (api *API) sendWriteError(c *gin.Context, err error, id uuid.UUID) {
	var apiErr *ApiResponseError
	switch {
	case database.IsDuplicateError(err):
		c.JSON(http.StatusConflict, models.NewConflictsError(id.String()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, models.NewApiError(err))
	case errors.As(err, &apiErr):
		c.JSON(apiErr.Status, apiErr.Body)
	default:
		api.SendInternalServerError(c, err)
	}
}

// uuidFilter adds "column = value" when the query parameter is set,
// writing a 400 response when the value is not a uuid.
func uuidFilter(c *gin.Context, param string, column string) (func(db *gorm.DB) *gorm.DB, bool) {
	value := c.Query(param)
	if value == "" {
		return func(db *gorm.DB) *gorm.DB { return db }, true
	}
	id, err := uuid.Parse(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadQueryParameterError(param))
		return nil, false
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", id)
	}, true
}

// boolFilter parses an optional boolean query parameter.
func boolFilter(c *gin.Context, param string) (*bool, bool) {
	value := c.Query(param)
	if value == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadQueryParameterError(param))
		return nil, false
	}
	return &b, true
}

// searchFilter matches any of the columns case insensitively.
func searchFilter(search string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		pattern := "%" + strings.ToLower(search) + "%"
		clauses := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, column := range columns {
			clauses = append(clauses, "LOWER("+column+") LIKE ?")
			args = append(args, pattern)
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}
