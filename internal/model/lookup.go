package model

import "time"

// Lookup entities describe the taxonomy of who audits a vessel and how.
// AuditType, AuditCompany, Auditor and AuditResult are hard-deleted and the
// delete is blocked while any audit references them. AuditParty follows the
// soft-delete convention instead (deleted_at/deleted_by pair).

// AuditType is a row in the `audit_types` table (e.g. Internal, Flag State).
type AuditType struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuditParty is a row in the `audit_parties` table. Parties support soft
// delete so historical audits keep resolving their party name.
type AuditParty struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	DeletedBy   *uint64    `json:"deleted_by,omitempty"`
}

// AuditCompany is a row in the `audit_companies` table.
type AuditCompany struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Auditor is a row in the `auditors` table. Auditors belong to an audit
// company and are assigned to audits through the audit_auditors table.
type Auditor struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CompanyID *uint64   `json:"company_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditResult is a row in the `audit_results` table (e.g. Passed, Failed,
// Conditional). Referenced optionally by audits.
type AuditResult struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
