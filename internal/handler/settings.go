package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/repository"
)

// SettingsHandler serves the singleton company profile.
type SettingsHandler struct {
	Settings *repository.SettingsRepo
}

func NewSettingsHandler(repo *repository.SettingsRepo) *SettingsHandler {
	return &SettingsHandler{Settings: repo}
}

func (h *SettingsHandler) Get(c echo.Context) error {
	s, err := h.Settings.GetOrCreate(c.Request().Context())
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, s)
}

type settingsReq struct {
	CompanyName string `json:"company_name" validate:"required"`
	Address     string `json:"address"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	LogoPath    string `json:"logo_path"`
}

func (h *SettingsHandler) Update(c echo.Context) error {
	var req settingsReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cur, err := h.Settings.GetOrCreate(c.Request().Context())
	if err != nil {
		return repoErr(c, err)
	}
	s := &model.CompanySettings{
		ID:          cur.ID,
		CompanyName: strings.TrimSpace(req.CompanyName),
		Address:     req.Address,
		Email:       req.Email,
		Phone:       req.Phone,
		LogoPath:    req.LogoPath,
	}
	if err := h.Settings.Update(c.Request().Context(), s); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, s)
}
