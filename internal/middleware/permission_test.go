package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovenna/vessel-audit/internal/model"
)

type fakeGrants struct {
	allow map[string]bool
	err   error
}

func (f *fakeGrants) HasGrant(_ context.Context, roleName, page, permission string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.allow[roleName+"/"+page+"/"+permission], nil
}

func runPermission(t *testing.T, src GrantSource, role any, page, perm string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := RequirePermission(src, page, perm)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequirePermissionGranted(t *testing.T) {
	src := &fakeGrants{allow: map[string]bool{"Encoder/findings/update": true}}
	rec := runPermission(t, src, "Encoder", "findings", PermUpdate)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermissionDenied(t *testing.T) {
	src := &fakeGrants{allow: map[string]bool{}}
	rec := runPermission(t, src, "Viewer", "findings", PermDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermissionAdminShortCircuit(t *testing.T) {
	// The grant source always errors; Admin must never consult it.
	src := &fakeGrants{err: errors.New("boom")}
	rec := runPermission(t, src, model.RoleAdmin, "roles", PermDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermissionMissingRole(t *testing.T) {
	src := &fakeGrants{}
	rec := runPermission(t, src, nil, "findings", PermView)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermissionLookupError(t *testing.T) {
	src := &fakeGrants{err: errors.New("db down")}
	rec := runPermission(t, src, "Viewer", "findings", PermView)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
