package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budgetron/internal/errors"
	"budgetron/internal/pagination"
	"budgetron/internal/services"
	"budgetron/internal/validation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// principal builds the service principal from the values RequireAuth stored.
func principal(c echo.Context) services.Principal {
	userID, _ := c.Get("user_id").(uuid.UUID)
	isAdmin, _ := c.Get("is_admin").(bool)

	return services.Principal{
		UserID:  userID,
		IsAdmin: isAdmin,
		RequestMeta: services.RequestMeta{
			IPAddress: c.RealIP(),
			UserAgent: c.Request().UserAgent(),
		},
	}
}

func requestMeta(c echo.Context) services.RequestMeta {
	return services.RequestMeta{IPAddress: c.RealIP(), UserAgent: c.Request().UserAgent()}
}

// loaded returns the record the ownership guard placed in the context.
func loaded[T any](c echo.Context) (T, bool) {
	v, ok := c.Get("resource").(T)
	return v, ok
}

// normalizer is implemented by requests that clean their input before validation
type normalizer interface {
	Normalize()
}

// bindRequest decodes the body into req, normalizes and validates it. Both
// failures are returned as errors for the global error handler to render.
func bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if n, ok := req.(normalizer); ok {
		n.Normalize()
	}
	return c.Validate(req)
}

func pathID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

// PageLimits bounds the per_page query parameter of list endpoints.
type PageLimits struct {
	DefaultPerPage int
	MaxPerPage     int
}

// DefaultPageLimits matches the pagination package defaults.
var DefaultPageLimits = PageLimits{DefaultPerPage: pagination.DefaultPerPage, MaxPerPage: pagination.MaxPerPage}

// params reads page and per_page (or its alias limit). Values that are not
// integers fall back to the defaults.
func (l PageLimits) params(c echo.Context) pagination.Params {
	perPage := getIntParam(c, "per_page", 0)
	if perPage == 0 {
		perPage = getIntParam(c, "limit", 0)
	}
	if l.DefaultPerPage < 1 || l.MaxPerPage < 1 {
		l = DefaultPageLimits
	}
	return pagination.NewParamsWithLimits(getIntParam(c, "page", pagination.DefaultPage), perPage, l.DefaultPerPage, l.MaxPerPage)
}

func getIntParam(c echo.Context, name string, defaultValue int) int {
	param := c.QueryParam(name)
	if param == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(param)
	if err != nil {
		return defaultValue
	}
	return value
}

func sendPage[T any](c echo.Context, page *pagination.Page[T]) error {
	return c.JSON(http.StatusOK, SuccessResponse{Data: page.WithLinks(c.Request().URL)})
}

// queryParser collects malformed filter parameters so that every bad
// parameter is reported in one REQUEST_001 response.
type queryParser struct {
	c      echo.Context
	fields map[string]string
}

func newQueryParser(c echo.Context) *queryParser {
	return &queryParser{c: c, fields: map[string]string{}}
}

func (q *queryParser) fail(name, message string) {
	if _, exists := q.fields[name]; !exists {
		q.fields[name] = message
	}
}

func (q *queryParser) String(name string) string {
	return strings.TrimSpace(q.c.QueryParam(name))
}

func (q *queryParser) OneOf(name string, allowed ...string) string {
	value := strings.ToLower(q.String(name))
	if value == "" {
		return ""
	}
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	q.fail(name, "must be one of: "+strings.Join(allowed, ", "))
	return ""
}

func (q *queryParser) UUID(name string) *uuid.UUID {
	raw := q.String(name)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		q.fail(name, "must be a valid UUID")
		return nil
	}
	return &id
}

// Date parses YYYY-MM-DD in UTC. With endOfDay the bound covers the whole day.
func (q *queryParser) Date(name string, endOfDay bool) *time.Time {
	raw := q.String(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		q.fail(name, "must be a date in YYYY-MM-DD format")
		return nil
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t
}

func (q *queryParser) Decimal(name string) *decimal.Decimal {
	raw := q.String(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		q.fail(name, "must be a decimal number")
		return nil
	}
	return &d
}

func (q *queryParser) Month(name string) string {
	raw := q.String(name)
	if raw != "" && !validation.IsMonth(raw) {
		q.fail(name, "must be a month in YYYY-MM format")
		return ""
	}
	return raw
}

func (q *queryParser) DateRange(startName, endName string) (*time.Time, *time.Time) {
	start := q.Date(startName, false)
	end := q.Date(endName, true)
	if start != nil && end != nil && end.Before(*start) {
		q.fail(endName, fmt.Sprintf("must not be before %s", startName))
	}
	return start, end
}

func (q *queryParser) DecimalRange(minName, maxName string) (*decimal.Decimal, *decimal.Decimal) {
	lo := q.Decimal(minName)
	hi := q.Decimal(maxName)
	if lo != nil && hi != nil && hi.LessThan(*lo) {
		q.fail(maxName, fmt.Sprintf("must not be less than %s", minName))
	}
	return lo, hi
}

func (q *queryParser) Invalid() bool {
	return len(q.fields) > 0
}

// Respond writes the 422 response listing every malformed parameter.
func (q *queryParser) Respond() error {
	return SendError(q.c, errors.RequestInvalidFilter, errors.WithFields(q.fields))
}
