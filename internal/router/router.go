package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/rovenna/vessel-audit/internal/config"
	"github.com/rovenna/vessel-audit/internal/handler"
	"github.com/rovenna/vessel-audit/internal/middleware"
)

// Page names used by the route guards. They mirror the rows seeded into
// the pages table; the permission matrix is keyed on them.
const (
	PageVessels        = "vessels"
	PageAuditTypes     = "audit_types"
	PageAuditParties   = "audit_parties"
	PageAuditCompanies = "audit_companies"
	PageAuditors       = "auditors"
	PageAuditResults   = "audit_results"
	PageAudits         = "audits"
	PageFindings       = "findings"
	PageUsers          = "users"
	PageRoles          = "roles"
	PageSettings       = "settings"
	PageDashboard      = "dashboard"
)

// Deps carries everything the route table needs. Cache is optional; when
// nil the dashboard is served uncached.
type Deps struct {
	Cfg         *config.Config
	Auth        *handler.AuthHandler
	Vessels     *handler.VesselHandler
	Lookups     *handler.LookupHandler
	Audits      *handler.AuditHandler
	Findings    *handler.FindingHandler
	Attachments *handler.AttachmentHandler
	Users       *handler.UserHandler
	Roles       *handler.RoleHandler
	Settings    *handler.SettingsHandler
	Dashboard   *handler.DashboardHandler
	Grants      middleware.GrantSource
	Cache       echo.MiddlewareFunc
}

// Register wires every route of the service onto e: the public health and
// login endpoints, the uploaded-file tree, and the guarded /api surface.
func Register(e *echo.Echo, d Deps) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Stored attachment files are served straight from disk.
	e.Static("/uploads", d.Cfg.UploadDir)

	// Login is the only unauthenticated API endpoint.
	e.POST("/api/auth/login", d.Auth.Login)

	api := e.Group("/api")
	api.Use(middleware.JWTAuth(d.Cfg.JWTSecret))

	api.GET("/auth/me", d.Auth.Me)

	// perm builds the guard for one (page, action) pair against the matrix.
	perm := func(page, action string) echo.MiddlewareFunc {
		return middleware.RequirePermission(d.Grants, page, action)
	}

	// Vessels.
	api.POST("/vessels", d.Vessels.Create, perm(PageVessels, middleware.PermCreate))
	api.GET("/vessels", d.Vessels.List, perm(PageVessels, middleware.PermView))
	api.GET("/vessels/:id", d.Vessels.Get, perm(PageVessels, middleware.PermView))
	api.PUT("/vessels/:id", d.Vessels.Update, perm(PageVessels, middleware.PermUpdate))
	api.DELETE("/vessels/:id", d.Vessels.Delete, perm(PageVessels, middleware.PermDelete))

	// Audit types.
	api.POST("/audit-types", d.Lookups.CreateAuditType, perm(PageAuditTypes, middleware.PermCreate))
	api.GET("/audit-types", d.Lookups.ListAuditTypes, perm(PageAuditTypes, middleware.PermView))
	api.PUT("/audit-types/:id", d.Lookups.UpdateAuditType, perm(PageAuditTypes, middleware.PermUpdate))
	api.DELETE("/audit-types/:id", d.Lookups.DeleteAuditType, perm(PageAuditTypes, middleware.PermDelete))

	// Audit parties follow the soft-delete convention.
	api.POST("/audit-parties", d.Lookups.CreateAuditParty, perm(PageAuditParties, middleware.PermCreate))
	api.GET("/audit-parties", d.Lookups.ListAuditParties, perm(PageAuditParties, middleware.PermView))
	api.PUT("/audit-parties/:id", d.Lookups.UpdateAuditParty, perm(PageAuditParties, middleware.PermUpdate))
	api.DELETE("/audit-parties/:id", d.Lookups.DeleteAuditParty, perm(PageAuditParties, middleware.PermDelete))
	api.POST("/audit-parties/:id/restore", d.Lookups.RestoreAuditParty, perm(PageAuditParties, middleware.PermDelete))

	// Audit companies.
	api.POST("/audit-companies", d.Lookups.CreateAuditCompany, perm(PageAuditCompanies, middleware.PermCreate))
	api.GET("/audit-companies", d.Lookups.ListAuditCompanies, perm(PageAuditCompanies, middleware.PermView))
	api.PUT("/audit-companies/:id", d.Lookups.UpdateAuditCompany, perm(PageAuditCompanies, middleware.PermUpdate))
	api.DELETE("/audit-companies/:id", d.Lookups.DeleteAuditCompany, perm(PageAuditCompanies, middleware.PermDelete))

	// Auditors.
	api.POST("/auditors", d.Lookups.CreateAuditor, perm(PageAuditors, middleware.PermCreate))
	api.GET("/auditors", d.Lookups.ListAuditors, perm(PageAuditors, middleware.PermView))
	api.PUT("/auditors/:id", d.Lookups.UpdateAuditor, perm(PageAuditors, middleware.PermUpdate))
	api.DELETE("/auditors/:id", d.Lookups.DeleteAuditor, perm(PageAuditors, middleware.PermDelete))

	// Audit results.
	api.POST("/audit-results", d.Lookups.CreateAuditResult, perm(PageAuditResults, middleware.PermCreate))
	api.GET("/audit-results", d.Lookups.ListAuditResults, perm(PageAuditResults, middleware.PermView))
	api.PUT("/audit-results/:id", d.Lookups.UpdateAuditResult, perm(PageAuditResults, middleware.PermUpdate))
	api.DELETE("/audit-results/:id", d.Lookups.DeleteAuditResult, perm(PageAuditResults, middleware.PermDelete))

	// Audits, with nested auditor assignments and report files.
	api.POST("/audits", d.Audits.Create, perm(PageAudits, middleware.PermCreate))
	api.GET("/audits", d.Audits.List, perm(PageAudits, middleware.PermView))
	api.GET("/audits/:id", d.Audits.Get, perm(PageAudits, middleware.PermView))
	api.PUT("/audits/:id", d.Audits.Update, perm(PageAudits, middleware.PermUpdate))
	api.DELETE("/audits/:id", d.Audits.Delete, perm(PageAudits, middleware.PermDelete))
	api.POST("/audits/:id/restore", d.Audits.Restore, perm(PageAudits, middleware.PermDelete))
	api.POST("/audits/:id/auditors", d.Audits.AssignAuditor, perm(PageAudits, middleware.PermUpdate))
	api.GET("/audits/:id/auditors", d.Audits.ListAuditors, perm(PageAudits, middleware.PermView))
	api.DELETE("/audits/:id/auditors/:assignment_id", d.Audits.UnassignAuditor, perm(PageAudits, middleware.PermUpdate))
	api.POST("/audits/:id/attachments", d.Attachments.UploadAuditFile, perm(PageAudits, middleware.PermUpdate))
	api.GET("/audits/:id/attachments", d.Attachments.ListAuditFiles, perm(PageAudits, middleware.PermView))
	api.DELETE("/audits/:id/attachments/:attachment_id", d.Attachments.DeleteAuditFile, perm(PageAudits, middleware.PermUpdate))

	// Findings, with the close/reopen lifecycle and evidence files.
	api.POST("/findings", d.Findings.Create, perm(PageFindings, middleware.PermCreate))
	api.GET("/findings", d.Findings.List, perm(PageFindings, middleware.PermView))
	api.GET("/findings/:id", d.Findings.Get, perm(PageFindings, middleware.PermView))
	api.PUT("/findings/:id", d.Findings.Update, perm(PageFindings, middleware.PermUpdate))
	api.DELETE("/findings/:id", d.Findings.Delete, perm(PageFindings, middleware.PermDelete))
	api.POST("/findings/:id/restore", d.Findings.Restore, perm(PageFindings, middleware.PermDelete))
	api.POST("/findings/:id/close", d.Findings.Close, perm(PageFindings, middleware.PermUpdate))
	api.POST("/findings/:id/reopen", d.Findings.Reopen, perm(PageFindings, middleware.PermUpdate))
	api.POST("/findings/:id/evidence", d.Attachments.UploadEvidence, perm(PageFindings, middleware.PermUpdate))
	api.GET("/findings/:id/evidence", d.Attachments.ListEvidence, perm(PageFindings, middleware.PermView))
	api.DELETE("/findings/:id/evidence/:attachment_id", d.Attachments.DeleteEvidence, perm(PageFindings, middleware.PermUpdate))

	// Users.
	api.POST("/users", d.Users.Create, perm(PageUsers, middleware.PermCreate))
	api.GET("/users", d.Users.List, perm(PageUsers, middleware.PermView))
	api.GET("/users/:id", d.Users.Get, perm(PageUsers, middleware.PermView))
	api.PUT("/users/:id", d.Users.Update, perm(PageUsers, middleware.PermUpdate))
	api.DELETE("/users/:id", d.Users.Delete, perm(PageUsers, middleware.PermDelete))
	api.POST("/users/:id/restore", d.Users.Restore, perm(PageUsers, middleware.PermDelete))

	// Roles and the permission matrix.
	api.GET("/roles", d.Roles.ListRoles, perm(PageRoles, middleware.PermView))
	api.POST("/roles", d.Roles.CreateRole, perm(PageRoles, middleware.PermCreate))
	api.DELETE("/roles/:id", d.Roles.DeleteRole, perm(PageRoles, middleware.PermDelete))
	api.GET("/roles/:id/permissions", d.Roles.GetGrants, perm(PageRoles, middleware.PermView))
	api.PUT("/roles/:id/permissions", d.Roles.ReplaceGrants, perm(PageRoles, middleware.PermUpdate))
	api.GET("/pages", d.Roles.ListPages, perm(PageRoles, middleware.PermView))
	api.GET("/permissions", d.Roles.ListPermissions, perm(PageRoles, middleware.PermView))

	// Company settings.
	api.GET("/settings", d.Settings.Get, perm(PageSettings, middleware.PermView))
	api.PUT("/settings", d.Settings.Update, perm(PageSettings, middleware.PermUpdate))

	// Dashboard, cached when redis is available.
	dash := []echo.MiddlewareFunc{perm(PageDashboard, middleware.PermView)}
	if d.Cache != nil {
		dash = append(dash, d.Cache)
	}
	api.GET("/dashboard", d.Dashboard.Stats, dash...)
}
