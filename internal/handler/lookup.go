package handler

// lookup.go serves the taxonomy endpoints: audit types, parties, companies,
// auditors and results. These are thin CRUD surfaces over the lookup
// repositories; parties additionally expose soft delete and restore.

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/repository"
)

// LookupHandler bundles the lookup repositories.
type LookupHandler struct {
	Types     *repository.AuditTypeRepo
	Parties   *repository.AuditPartyRepo
	Companies *repository.AuditCompanyRepo
	Auditors  *repository.AuditorRepo
	Results   *repository.AuditResultRepo
}

func NewLookupHandler(t *repository.AuditTypeRepo, p *repository.AuditPartyRepo,
	co *repository.AuditCompanyRepo, a *repository.AuditorRepo, res *repository.AuditResultRepo) *LookupHandler {
	return &LookupHandler{Types: t, Parties: p, Companies: co, Auditors: a, Results: res}
}

type namedReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ----- audit types -----

func (h *LookupHandler) CreateAuditType(c echo.Context) error {
	var req namedReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t := &model.AuditType{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := h.Types.Create(c.Request().Context(), t); err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, t)
}

func (h *LookupHandler) ListAuditTypes(c echo.Context) error {
	pg := pagination(c)
	items, total, err := h.Types.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return repoErr(c, err)
	}
	return respondPage(c, items, pg, total)
}

func (h *LookupHandler) UpdateAuditType(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req namedReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t := &model.AuditType{ID: id, Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := h.Types.Update(c.Request().Context(), t); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, t)
}

func (h *LookupHandler) DeleteAuditType(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Types.Delete(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": id})
}

// ----- audit parties (soft delete) -----

func (h *LookupHandler) CreateAuditParty(c echo.Context) error {
	var req namedReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p := &model.AuditParty{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := h.Parties.Create(c.Request().Context(), p); err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, p)
}

func (h *LookupHandler) ListAuditParties(c echo.Context) error {
	pg := pagination(c)
	items, total, err := h.Parties.List(c.Request().Context(), pg.Limit, pg.Offset, includeDeleted(c))
	if err != nil {
		return repoErr(c, err)
	}
	return respondPage(c, items, pg, total)
}

func (h *LookupHandler) UpdateAuditParty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req namedReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p := &model.AuditParty{ID: id, Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := h.Parties.Update(c.Request().Context(), p); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, p)
}

func (h *LookupHandler) DeleteAuditParty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := h.Parties.SoftDelete(c.Request().Context(), id, uid); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": id})
}

func (h *LookupHandler) RestoreAuditParty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Parties.Restore(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	p, err := h.Parties.GetByID(c.Request().Context(), id, false)
	if err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, p)
}

// ----- audit companies -----

type companyReq struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
}

func (h *LookupHandler) CreateAuditCompany(c echo.Context) error {
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	co := &model.AuditCompany{Name: strings.TrimSpace(req.Name), Address: req.Address, Email: req.Email, Phone: req.Phone}
	if err := h.Companies.Create(c.Request().Context(), co); err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, co)
}

func (h *LookupHandler) ListAuditCompanies(c echo.Context) error {
	pg := pagination(c)
	items, total, err := h.Companies.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return repoErr(c, err)
	}
	return respondPage(c, items, pg, total)
}

func (h *LookupHandler) UpdateAuditCompany(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	co := &model.AuditCompany{ID: id, Name: strings.TrimSpace(req.Name), Address: req.Address, Email: req.Email, Phone: req.Phone}
	if err := h.Companies.Update(c.Request().Context(), co); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, co)
}

func (h *LookupHandler) DeleteAuditCompany(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Companies.Delete(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": id})
}

// ----- auditors -----

type auditorReq struct {
	Name      string  `json:"name" validate:"required"`
	Email     string  `json:"email" validate:"omitempty,email"`
	CompanyID *uint64 `json:"company_id"`
}

func (h *LookupHandler) CreateAuditor(c echo.Context) error {
	var req auditorReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	a := &model.Auditor{Name: strings.TrimSpace(req.Name), Email: req.Email, CompanyID: req.CompanyID}
	if err := h.Auditors.Create(c.Request().Context(), a); err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, a)
}

func (h *LookupHandler) ListAuditors(c echo.Context) error {
	pg := pagination(c)
	items, total, err := h.Auditors.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return repoErr(c, err)
	}
	return respondPage(c, items, pg, total)
}

func (h *LookupHandler) UpdateAuditor(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req auditorReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	a := &model.Auditor{ID: id, Name: strings.TrimSpace(req.Name), Email: req.Email, CompanyID: req.CompanyID}
	if err := h.Auditors.Update(c.Request().Context(), a); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, a)
}

func (h *LookupHandler) DeleteAuditor(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Auditors.Delete(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": id})
}

// ----- audit results -----

func (h *LookupHandler) CreateAuditResult(c echo.Context) error {
	var req namedReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	res := &model.AuditResult{Name: strings.TrimSpace(req.Name)}
	if err := h.Results.Create(c.Request().Context(), res); err != nil {
		return repoErr(c, err)
	}
	return respondCreated(c, res)
}

func (h *LookupHandler) ListAuditResults(c echo.Context) error {
	pg := pagination(c)
	items, total, err := h.Results.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return repoErr(c, err)
	}
	return respondPage(c, items, pg, total)
}

func (h *LookupHandler) UpdateAuditResult(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req namedReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	res := &model.AuditResult{ID: id, Name: strings.TrimSpace(req.Name)}
	if err := h.Results.Update(c.Request().Context(), res); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, res)
}

func (h *LookupHandler) DeleteAuditResult(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Results.Delete(c.Request().Context(), id); err != nil {
		return repoErr(c, err)
	}
	return respondOK(c, echo.Map{"deleted": id})
}
