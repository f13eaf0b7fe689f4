package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/repository"
)

// AuditHandler serves /api/audits, including the nested auditor
// assignment endpoints.
type AuditHandler struct {
	Audits *repository.AuditRepo
}

func NewAuditHandler(repo *repository.AuditRepo) *AuditHandler {
	return &AuditHandler{Audits: repo}
}

type auditCreateReq struct {
	Reference   string  `json:"audit_reference"`
	VesselID    uint64  `json:"vessel_id" validate:"required"`
	TypeID      uint64  `json:"audit_type_id" validate:"required"`
	PartyID     uint64  `json:"audit_party_id" validate:"required"`
	CompanyID   *uint64 `json:"audit_company_id"`
	StartDate   string  `json:"audit_start_date" validate:"required"`
	EndDate     string  `json:"audit_end_date"`
	NextDueDate string  `json:"next_due_date"`
	Status      string  `json:"status" validate:"omitempty,oneof=Planned Ongoing Completed Closed"`
	ResultID    *uint64 `json:"result_id"`
	Remarks     string  `json:"remarks"`
}

func (h *AuditHandler) Create(c echo.Context) error {
	var req auditCreateReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	uid, err := getUserID(c)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "unauthorized")
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "audit_start_date must be YYYY-MM-DD")
	}
	a := &model.Audit{
		Reference: req.Reference,
		VesselID:  req.VesselID,
		TypeID:    req.TypeID,
		PartyID:   req.PartyID,
		CompanyID: req.CompanyID,
		StartDate: start,
		Status:    req.Status,
		ResultID:  req.ResultID,
		Remarks:   req.Remarks,
		CreatedBy: uid,
	}
	if a.Status == "" {
		a.Status = model.AuditPlanned
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			return respondErr(c, http.StatusBadRequest, "audit_end_date must be YYYY-MM-DD")
		}
		if end.Before(start) {
			return respondErr(c, http.StatusBadRequest, "audit_end_date cannot precede audit_start_date")
		}
		a.EndDate = &end
	}
	if req.NextDueDate != "" {
		due, err := parseDate(req.NextDueDate)
		if err != nil {
			return respondErr(c, http.StatusBadRequest, "next_due_date must be YYYY-MM-DD")
		}
		a.NextDueDate = &due
	}

	if err := h.Audits.Create(c.Request().Context(), a); err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, a)
}

func (h *AuditHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	a, err := h.Audits.GetByID(c.Request().Context(), id, includeDeleted(c))
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, a)
}

func (h *AuditHandler) List(c echo.Context) error {
	pg := pagination(c)
	f := repository.AuditFilter{
		Status:         c.QueryParam("status"),
		IncludeDeleted: includeDeleted(c),
	}
	if v := c.QueryParam("vessel_id"); v != "" {
		id, err := parseUint(v)
		if err != nil {
			return respondErr(c, http.StatusBadRequest, "invalid vessel_id")
		}
		f.VesselID = id
	}
	if f.Status != "" && !model.ValidAuditStatus(f.Status) {
		return respondErr(c, http.StatusBadRequest, "invalid status filter")
	}
	items, total, err := h.Audits.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return repoErr(c, err)
	}
	return respondPage(c, items, pg, total)
}

type auditUpdateReq struct {
	VesselID    *uint64 `json:"vessel_id"`
	TypeID      *uint64 `json:"audit_type_id"`
	PartyID     *uint64 `json:"audit_party_id"`
	CompanyID   *uint64 `json:"audit_company_id"`
	StartDate   *string `json:"audit_start_date"`
	EndDate     *string `json:"audit_end_date"`
	NextDueDate *string `json:"next_due_date"`
	Status      *string `json:"status" validate:"omitempty,oneof=Planned Ongoing Completed Closed"`
	ResultID    *uint64 `json:"result_id"`
	Remarks     *string `json:"remarks"`
}

func (h *AuditHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req auditUpdateReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u := repository.AuditUpdate{
		VesselID:  req.VesselID,
		TypeID:    req.TypeID,
		PartyID:   req.PartyID,
		CompanyID: req.CompanyID,
		Status:    req.Status,
		ResultID:  req.ResultID,
		Remarks:   req.Remarks,
	}
	toDate := func(raw *string) (*time.Time, error) {
		if raw == nil {
			return nil, nil
		}
		d, err := parseDate(*raw)
		if err != nil {
			return nil, err
		}
		return &d, nil
	}
	if u.StartDate, err = toDate(req.StartDate); err != nil {
		return respondErr(c, http.StatusBadRequest, "audit_start_date must be YYYY-MM-DD")
	}
	if u.EndDate, err = toDate(req.EndDate); err != nil {
		return respondErr(c, http.StatusBadRequest, "audit_end_date must be YYYY-MM-DD")
	}
	if u.NextDueDate, err = toDate(req.NextDueDate); err != nil {
		return respondErr(c, http.StatusBadRequest, "next_due_date must be YYYY-MM-DD")
	}
	if u.StartDate != nil && u.EndDate != nil && u.EndDate.Before(*u.StartDate) {
		return respondErr(c, http.StatusBadRequest, "audit_end_date cannot precede audit_start_date")
	}

	a, err := h.Audits.Update(c.Request().Context(), id, u)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, a)
}

func (h *AuditHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := h.Audits.SoftDelete(c.Request().Context(), id, uid); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": id})
}

func (h *AuditHandler) Restore(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Audits.Restore(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	a, err := h.Audits.GetByID(c.Request().Context(), id, false)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, a)
}

type assignAuditorReq struct {
	AuditorID uint64 `json:"auditor_id" validate:"required"`
}

func (h *AuditHandler) AssignAuditor(c echo.Context) error {
	auditID, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req assignAuditorReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	aa, err := h.Audits.AssignAuditor(c.Request().Context(), auditID, req.AuditorID)
	if err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, aa)
}

func (h *AuditHandler) ListAuditors(c echo.Context) error {
	auditID, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	// Resolve the audit first so a missing id yields 404 instead of an
	// empty list.
	if _, err := h.Audits.GetByID(c.Request().Context(), auditID, false); err != nil {
		return repoErr(c, err)
	}
	items, err := h.Audits.ListAuditors(c.Request().Context(), auditID)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, items)
}

func (h *AuditHandler) UnassignAuditor(c echo.Context) error {
	auditID, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	assignmentID, err := parseID(c, "assignment_id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid assignment id")
	}
	if err := h.Audits.UnassignAuditor(c.Request().Context(), auditID, assignmentID); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": assignmentID})
}
