package handler

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/repository"
	"github.com/rovenna/vessel-audit/internal/utils"
)

// FindingHandler serves /api/findings. Status never moves through the
// generic update endpoint; it changes only via Close, Reopen and the
// overdue sweep.
type FindingHandler struct {
	Findings *repository.FindingRepo
	Audits   *repository.AuditRepo
}

func NewFindingHandler(findings *repository.FindingRepo, audits *repository.AuditRepo) *FindingHandler {
	return &FindingHandler{Findings: findings, Audits: audits}
}

type findingCreateReq struct {
	AuditID           uint64 `json:"audit_id" validate:"required"`
	Category          string `json:"category" validate:"required"`
	Description       string `json:"description" validate:"required,min=10"`
	RootCause         string `json:"root_cause"`
	CorrectiveAction  string `json:"corrective_action"`
	ResponsiblePerson string `json:"responsible_person"`
	TargetDate        string `json:"target_date" validate:"required"`
	Status            string `json:"status"`
}

func (h *FindingHandler) Create(c echo.Context) error {
	var req findingCreateReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !model.ValidFindingCategory(req.Category) {
		return respondErr(c, http.StatusBadRequest, "category must be Major, Minor or Observation")
	}
	switch req.Status {
	case "", model.FindingOpen, model.FindingInProgress, model.FindingSubmitted:
	default:
		return respondErr(c, http.StatusBadRequest, "status must be Open, In Progress or Submitted")
	}
	uid, err := getUserID(c)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "unauthorized")
	}
	target, err := parseDate(req.TargetDate)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "target_date must be YYYY-MM-DD")
	}

	// Findings hang off a live audit.
	if _, err := h.Audits.GetByID(c.Request().Context(), req.AuditID, false); err != nil {
		return repoErr(c, err)
	}

	status := req.Status
	if status == "" {
		status = model.FindingOpen
	}
	f := &model.Finding{
		AuditID:           req.AuditID,
		Category:          req.Category,
		Description:       req.Description,
		RootCause:         req.RootCause,
		CorrectiveAction:  req.CorrectiveAction,
		ResponsiblePerson: req.ResponsiblePerson,
		TargetDate:        target,
		Status:            model.EffectiveStatus(status, target, utils.Today()),
		CreatedBy:         uid,
	}
	if err := h.Findings.Create(c.Request().Context(), f); err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, f)
}

func (h *FindingHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	f, err := h.Findings.GetByID(c.Request().Context(), id, includeDeleted(c))
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, f)
}

func (h *FindingHandler) List(c echo.Context) error {
	pg := pagination(c)
	flt := repository.FindingFilter{
		Status:         c.QueryParam("status"),
		Category:       c.QueryParam("category"),
		IncludeDeleted: includeDeleted(c),
	}
	if v := c.QueryParam("audit_id"); v != "" {
		id, err := parseUint(v)
		if err != nil {
			return respondErr(c, http.StatusBadRequest, "invalid audit_id")
		}
		flt.AuditID = id
	}
	if flt.Status != "" && !model.ValidFindingStatus(flt.Status) {
		return respondErr(c, http.StatusBadRequest, "invalid status filter")
	}
	if flt.Category != "" && !model.ValidFindingCategory(flt.Category) {
		return respondErr(c, http.StatusBadRequest, "invalid category filter")
	}
	items, total, err := h.Findings.List(c.Request().Context(), flt, pg.Limit, pg.Offset)
	if err != nil {
		return repoErr(c, err)
	}
	return respondPage(c, items, pg, total)
}

type findingUpdateReq struct {
	Category          *string `json:"category"`
	Description       *string `json:"description"`
	RootCause         *string `json:"root_cause"`
	CorrectiveAction  *string `json:"corrective_action"`
	ResponsiblePerson *string `json:"responsible_person"`
	TargetDate        *string `json:"target_date"`
	Status            *string `json:"status"`
}

func (h *FindingHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req findingUpdateReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if req.Status != nil {
		return respondErr(c, http.StatusBadRequest, "status cannot be set directly; use close or reopen")
	}
	if req.Category != nil && !model.ValidFindingCategory(*req.Category) {
		return respondErr(c, http.StatusBadRequest, "category must be Major, Minor or Observation")
	}
	if req.Description != nil && utf8.RuneCountInString(strings.TrimSpace(*req.Description)) < 10 {
		return respondErr(c, http.StatusBadRequest, "description must be at least 10 characters")
	}
	var target *time.Time
	if req.TargetDate != nil {
		d, err := parseDate(*req.TargetDate)
		if err != nil {
			return respondErr(c, http.StatusBadRequest, "target_date must be YYYY-MM-DD")
		}
		target = &d
	}

	f, err := h.Findings.Update(c.Request().Context(), id, repository.FindingUpdate{
		Category:          req.Category,
		Description:       req.Description,
		RootCause:         req.RootCause,
		CorrectiveAction:  req.CorrectiveAction,
		ResponsiblePerson: req.ResponsiblePerson,
		TargetDate:        target,
	})
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, f)
}

func (h *FindingHandler) Close(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	f, err := h.Findings.Close(c.Request().Context(), id)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, f)
}

func (h *FindingHandler) Reopen(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	f, err := h.Findings.Reopen(c.Request().Context(), id)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, f)
}

func (h *FindingHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := h.Findings.SoftDelete(c.Request().Context(), id, uid); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": id})
}

func (h *FindingHandler) Restore(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Findings.Restore(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	f, err := h.Findings.GetByID(c.Request().Context(), id, false)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, f)
}
