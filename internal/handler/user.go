package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/config"
	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/repository"
	"github.com/rovenna/vessel-audit/internal/utils"
)

// UserHandler serves /api/users. Passwords are hashed here; the
// repository only ever sees the hash.
type UserHandler struct {
	Cfg   *config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg *config.Config, users *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users}
}

type userCreateReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   uint64 `json:"role_id" validate:"required"`
	IsActive *bool  `json:"is_active"`
}

func (h *UserHandler) Create(c echo.Context) error {
	var req userCreateReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "internal error")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	u := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		RoleID:       req.RoleID,
		IsActive:     active,
	}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, u)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	u, err := h.Users.GetByID(c.Request().Context(), id, includeDeleted(c))
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, u)
}

func (h *UserHandler) List(c echo.Context) error {
	pg := pagination(c)
	items, total, err := h.Users.List(c.Request().Context(), pg.Limit, pg.Offset, includeDeleted(c))
	if err != nil {
		return repoErr(c, err)
	}
	return respondPage(c, items, pg, total)
}

type userUpdateReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	RoleID   *uint64 `json:"role_id"`
	IsActive *bool   `json:"is_active"`
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	upd := repository.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		RoleID:   req.RoleID,
		IsActive: req.IsActive,
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return respondErr(c, http.StatusInternalServerError, "internal error")
		}
		upd.PasswordHash = &hash
	}
	u, err := h.Users.Update(c.Request().Context(), id, upd)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, u)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "unauthorized")
	}
	if id == uid {
		return respondErr(c, http.StatusConflict, "cannot delete your own account")
	}
	if err := h.Users.SoftDelete(c.Request().Context(), id, uid); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": id})
}

func (h *UserHandler) Restore(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Users.Restore(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	u, err := h.Users.GetByID(c.Request().Context(), id, false)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, u)
}
