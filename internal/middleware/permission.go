package middleware // middleware provides shared request processing for handlers

// permission.go implements the authorization gate. Route guards consult the
// Role->Page->Permission matrix through a GrantSource; the matrix is the
// single source of truth for access control. There are no parallel
// hardcoded role allow-lists: the Admin role is the one short-circuit,
// granted everything without a lookup.

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/model"
)

// Permission action names used by the route guards. They mirror the rows
// seeded into the permissions table.
const (
	PermView   = "view"
	PermCreate = "create"
	PermUpdate = "update"
	PermDelete = "delete"
)

// GrantSource answers whether a role holds a (page, permission) pair. The
// role repository implements it; tests substitute a fake.
type GrantSource interface {
	HasGrant(ctx context.Context, roleName, page, permission string) (bool, error)
}

// RequirePermission returns a middleware that enforces the (page,
// permission) pair against the caller's role from the JWT. It assumes
// JWTAuth ran earlier and stored the role claim under "role". A missing or
// non-string role is treated as unauthorized rather than forbidden, since
// it means the token was malformed.
func RequirePermission(src GrantSource, page, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "missing role claim"})
			}
			if role == model.RoleAdmin {
				return next(c)
			}
			allowed, err := src.HasGrant(c.Request().Context(), role, page, permission)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "authorization check failed"})
			}
			if !allowed {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "forbidden"})
			}
			return next(c)
		}
	}
}
