// Package handler contains the HTTP handlers behind /api. Handlers bind
// and validate request bodies, delegate to the repositories, and translate
// repository sentinel errors into the {success, data, error} envelope.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/repository"
	"github.com/rovenna/vessel-audit/internal/utils"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
// Handlers call c.Validate after binding; tag failures surface as 400s.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// pageMeta is the pagination block returned beside list payloads.
type pageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func respondOK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

func respondCreated(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": data})
}

func respondPage(c echo.Context, items any, pg utils.Pagination, total int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    items,
		"meta":    pageMeta{Page: pg.Page, Limit: pg.Limit, Total: total},
	})
}

func respondErr(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg})
}

// repoErr maps repository sentinel errors onto HTTP statuses. Unknown
// errors become a generic 500; the raw error never reaches the response
// body.
func repoErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return respondErr(c, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrDuplicateName):
		return respondErr(c, http.StatusConflict, "name already exists")
	case errors.Is(err, repository.ErrEmailExists):
		return respondErr(c, http.StatusConflict, "email already exists")
	case errors.Is(err, repository.ErrInUse):
		return respondErr(c, http.StatusConflict, "record is in use and cannot be deleted")
	case errors.Is(err, repository.ErrAlreadyDeleted):
		return respondErr(c, http.StatusConflict, "record is already deleted")
	case errors.Is(err, repository.ErrNotDeleted):
		return respondErr(c, http.StatusConflict, "record is not deleted")
	default:
		return respondErr(c, http.StatusInternalServerError, "internal error")
	}
}

// getUserID extracts the user_id claim from context and converts it to
// uint64. JWT numeric claims arrive as float64 after JSON decoding.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID parses the :id (or named) path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// pagination reads the page/limit query parameters with clamping.
func pagination(c echo.Context) utils.Pagination {
	return utils.PaginationParams(c.QueryParam("page"), c.QueryParam("limit"))
}

// dateLayout is the wire format for all date-only fields.
const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// includeDeleted reports whether the caller opted in to seeing
// soft-deleted rows.
func includeDeleted(c echo.Context) bool {
	v := c.QueryParam("include_deleted")
	return v == "true" || v == "1"
}
