package model

import (
	"fmt"
	"time"
)

// Audit statuses accepted by the API.
const (
	AuditPlanned   = "Planned"
	AuditOngoing   = "Ongoing"
	AuditCompleted = "Completed"
	AuditClosed    = "Closed"
)

// ValidAuditStatus reports whether s is one of the accepted audit statuses.
func ValidAuditStatus(s string) bool {
	switch s {
	case AuditPlanned, AuditOngoing, AuditCompleted, AuditClosed:
		return true
	}
	return false
}

// Audit is the central record of the system: one external inspection of a
// vessel by a party/company. It corresponds to a row in the `audits` table
// and follows the soft-delete convention.
//
// Fields:
//
//	ID         – primary key identifier.
//	Reference  – unique human-readable code (AUD-YY-00007). Auto-generated
//	             from the row id when the caller does not supply one.
//	VesselID   – vessel under audit.
//	TypeID     – audit type.
//	PartyID    – auditing party.
//	CompanyID  – auditing company (optional).
//	StartDate  – first day of the audit.
//	EndDate    – last day of the audit (optional while Planned/Ongoing).
//	NextDueDate – when the next audit of this kind falls due (optional).
//	Status     – Planned, Ongoing, Completed or Closed.
//	ResultID   – outcome reference into audit_results (optional).
//	ReportPath – stored path of an uploaded report file (optional).
//	Remarks    – free text.
//	CreatedBy  – user who created the record.
type Audit struct {
	ID          uint64     `json:"id"`
	Reference   string     `json:"audit_reference"`
	VesselID    uint64     `json:"vessel_id"`
	TypeID      uint64     `json:"audit_type_id"`
	PartyID     uint64     `json:"audit_party_id"`
	CompanyID   *uint64    `json:"audit_company_id,omitempty"`
	StartDate   time.Time  `json:"audit_start_date"`
	EndDate     *time.Time `json:"audit_end_date,omitempty"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
	Status      string     `json:"status"`
	ResultID    *uint64    `json:"result_id,omitempty"`
	ReportPath  *string    `json:"report_path,omitempty"`
	Remarks     string     `json:"remarks,omitempty"`
	CreatedBy   uint64     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	DeletedBy   *uint64    `json:"deleted_by,omitempty"`
}

// AuditReference derives the human-readable code for an audit from its row
// id and the year it was created in: AUD-<2-digit year>-<id padded to 5>.
// Example: id 7 created in 2026 -> AUD-26-00007.
func AuditReference(id uint64, createdAt time.Time) string {
	return fmt.Sprintf("AUD-%02d-%05d", createdAt.Year()%100, id)
}

// AuditAuditor assigns an auditor to an audit. Rows live in the
// `audit_auditors` table; the id doubles as the assignment id exposed by
// the nested /auditors endpoints.
type AuditAuditor struct {
	ID        uint64    `json:"id"`
	AuditID   uint64    `json:"audit_id"`
	AuditorID uint64    `json:"auditor_id"`
	CreatedAt time.Time `json:"created_at"`
}
