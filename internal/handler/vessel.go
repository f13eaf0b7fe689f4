package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/repository"
)

// VesselHandler serves /api/vessels.
type VesselHandler struct {
	Vessels *repository.VesselRepo
}

func NewVesselHandler(v *repository.VesselRepo) *VesselHandler {
	return &VesselHandler{Vessels: v}
}

type vesselReq struct {
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code" validate:"required"`
	Registration string `json:"registration_number"`
	Status       string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// Create handles POST /api/vessels.
func (h *VesselHandler) Create(c echo.Context) error {
	var req vesselReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Status == "" {
		req.Status = model.VesselActive
	}
	v := &model.Vessel{
		Name:         strings.TrimSpace(req.Name),
		Code:         strings.TrimSpace(req.Code),
		Registration: strings.TrimSpace(req.Registration),
		Status:       req.Status,
	}
	if err := h.Vessels.Create(c.Request().Context(), v); err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, v)
}

// Get handles GET /api/vessels/:id.
func (h *VesselHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	v, err := h.Vessels.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, v)
}

// List handles GET /api/vessels.
func (h *VesselHandler) List(c echo.Context) error {
	pg := pagination(c)
	items, total, err := h.Vessels.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return repoErr(c, err)
	}
	return respondPage(c, items, pg, total)
}

// Update handles PUT /api/vessels/:id. Vessel updates are whole-record;
// the mutable field set is small enough that partial semantics buy nothing.
func (h *VesselHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req vesselReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Status == "" {
		req.Status = model.VesselActive
	}
	v := &model.Vessel{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		Code:         strings.TrimSpace(req.Code),
		Registration: strings.TrimSpace(req.Registration),
		Status:       req.Status,
	}
	if err := h.Vessels.Update(c.Request().Context(), v); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, v)
}

// Delete handles DELETE /api/vessels/:id. Refused with 409 while any audit
// references the vessel.
func (h *VesselHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Vessels.Delete(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": id})
}
