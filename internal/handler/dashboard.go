package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/config"
	"github.com/rovenna/vessel-audit/internal/repository"
	"github.com/rovenna/vessel-audit/internal/utils"
)

// DashboardHandler serves the aggregate counters behind the landing page.
// Responses are cached by the redis middleware when it is enabled.
type DashboardHandler struct {
	Cfg       *config.Config
	Dashboard *repository.DashboardRepo
}

func NewDashboardHandler(cfg *config.Config, repo *repository.DashboardRepo) *DashboardHandler {
	return &DashboardHandler{Cfg: cfg, Dashboard: repo}
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	window := time.Duration(h.Cfg.AuditDueSoonDays) * 24 * time.Hour
	stats, err := h.Dashboard.Stats(c.Request().Context(), utils.Today(), window)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, stats)
}
