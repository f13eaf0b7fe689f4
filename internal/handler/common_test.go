package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovenna/vessel-audit/internal/repository"
)

func newCtx(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRepoErrMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{repository.ErrDuplicateName, http.StatusConflict},
		{repository.ErrEmailExists, http.StatusConflict},
		{repository.ErrInUse, http.StatusConflict},
		{repository.ErrAlreadyDeleted, http.StatusConflict},
		{repository.ErrNotDeleted, http.StatusConflict},
		{errors.New("driver: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newCtx(t, "/")
		require.NoError(t, repoErr(c, tc.err))
		assert.Equal(t, tc.code, rec.Code, "for %v", tc.err)
		assert.Contains(t, rec.Body.String(), `"success":false`)
	}

	// The raw error text must never leak.
	c, rec := newCtx(t, "/")
	require.NoError(t, repoErr(c, errors.New("secret dsn detail")))
	assert.NotContains(t, rec.Body.String(), "secret dsn detail")
}

func TestGetUserIDTypes(t *testing.T) {
	for _, v := range []any{uint64(9), int(9), int64(9), float64(9), "9"} {
		c, _ := newCtx(t, "/")
		c.Set("user_id", v)
		id, err := getUserID(c)
		require.NoError(t, err, "for %T", v)
		assert.Equal(t, uint64(9), id)
	}

	c, _ := newCtx(t, "/")
	c.Set("user_id", "not-a-number")
	_, err := getUserID(c)
	assert.Error(t, err)

	c, _ = newCtx(t, "/")
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestIncludeDeleted(t *testing.T) {
	c, _ := newCtx(t, "/?include_deleted=true")
	assert.True(t, includeDeleted(c))

	c, _ = newCtx(t, "/?include_deleted=1")
	assert.True(t, includeDeleted(c))

	c, _ = newCtx(t, "/?include_deleted=false")
	assert.False(t, includeDeleted(c))

	c, _ = newCtx(t, "/")
	assert.False(t, includeDeleted(c))
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 31, d.Day())

	_, err = parseDate("31/08/2026")
	assert.Error(t, err)

	_, err = parseDate("")
	assert.Error(t, err)
}
