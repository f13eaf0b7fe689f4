package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/repository"
)

// RoleHandler serves the access-control matrix endpoints: roles, pages,
// permissions and the per-role grant set.
type RoleHandler struct {
	Roles *repository.RoleRepo
}

func NewRoleHandler(roles *repository.RoleRepo) *RoleHandler {
	return &RoleHandler{Roles: roles}
}

func (h *RoleHandler) ListRoles(c echo.Context) error {
	items, err := h.Roles.ListRoles(c.Request().Context())
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, items)
}

type roleReq struct {
	Name string `json:"name" validate:"required"`
}

func (h *RoleHandler) CreateRole(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	role := &model.Role{Name: strings.TrimSpace(req.Name)}
	if err := h.Roles.CreateRole(c.Request().Context(), role); err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, role)
}

func (h *RoleHandler) DeleteRole(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Roles.DeleteRole(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": id})
}

func (h *RoleHandler) ListPages(c echo.Context) error {
	items, err := h.Roles.ListPages(c.Request().Context())
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, items)
}

func (h *RoleHandler) ListPermissions(c echo.Context) error {
	items, err := h.Roles.ListPermissions(c.Request().Context())
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, items)
}

// GetGrants returns the resolved (page, permission) pairs of one role.
func (h *RoleHandler) GetGrants(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if _, err := h.Roles.GetRole(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	grants, err := h.Roles.GrantsForRole(c.Request().Context(), id)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, grants)
}

type grantReq struct {
	PageID       uint64 `json:"page_id" validate:"required"`
	PermissionID uint64 `json:"permission_id" validate:"required"`
}

type replaceGrantsReq struct {
	Permissions []grantReq `json:"permissions" validate:"dive"`
}

// ReplaceGrants swaps a role's entire grant set in one transaction. An
// empty list revokes everything.
func (h *RoleHandler) ReplaceGrants(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req replaceGrantsReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := h.Roles.GetRole(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	grants := make([]model.RolePermission, 0, len(req.Permissions))
	for _, g := range req.Permissions {
		grants = append(grants, model.RolePermission{RoleID: id, PageID: g.PageID, PermissionID: g.PermissionID})
	}
	if err := h.Roles.ReplacePermissions(c.Request().Context(), id, grants); err != nil {
		return repoErr(c, err)
	}
	out, err := h.Roles.GrantsForRole(c.Request().Context(), id)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, out)
}
