package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/config"
	"github.com/rovenna/vessel-audit/internal/repository"
	"github.com/rovenna/vessel-audit/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResp struct {
	User   userPart  `json:"user"`
	Access tokenPart `json:"access"`
}

// Login verifies credentials and returns a signed access token. Inactive
// and soft-deleted accounts fail with the same message as a wrong
// password, so the endpoint does not leak which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "invalid credentials")
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondErr(c, http.StatusUnauthorized, "invalid credentials")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Name, u.RoleName, h.Cfg.AccessTTLMin)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "issue access failed")
	}

	return respondOK(c, authResp{
		User:   userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.RoleName},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me returns the authenticated user's profile from the database, so a
// deactivated account stops resolving even while its token is still valid.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "unauthorized")
	}
	u, err := h.Users.GetByID(c.Request().Context(), uid, false)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.RoleName})
}
