package model

import "time"

// Finding statuses. Overdue is a derived side-state: a finding is Overdue
// exactly when its target date has passed and it is not Closed. The value
// is still stored so list queries and the dashboard can filter on it
// without recomputing per row.
const (
	FindingOpen       = "Open"
	FindingInProgress = "In Progress"
	FindingSubmitted  = "Submitted"
	FindingClosed     = "Closed"
	FindingOverdue    = "Overdue"
)

// Finding categories.
const (
	CategoryMajor       = "Major"
	CategoryMinor       = "Minor"
	CategoryObservation = "Observation"
)

// ValidFindingStatus reports whether s is one of the accepted statuses.
func ValidFindingStatus(s string) bool {
	switch s {
	case FindingOpen, FindingInProgress, FindingSubmitted, FindingClosed, FindingOverdue:
		return true
	}
	return false
}

// ValidFindingCategory reports whether s is one of the accepted categories.
func ValidFindingCategory(s string) bool {
	switch s {
	case CategoryMajor, CategoryMinor, CategoryObservation:
		return true
	}
	return false
}

// Finding is a non-conformity raised by an audit. It corresponds to a row
// in the `findings` table and follows the soft-delete convention.
type Finding struct {
	ID                uint64     `json:"id"`
	AuditID           uint64     `json:"audit_id"`
	Category          string     `json:"category"`
	Description       string     `json:"description"`
	RootCause         string     `json:"root_cause,omitempty"`
	CorrectiveAction  string     `json:"corrective_action,omitempty"`
	ResponsiblePerson string     `json:"responsible_person,omitempty"`
	TargetDate        time.Time  `json:"target_date"`
	Status            string     `json:"status"`
	ClosureDate       *time.Time `json:"closure_date,omitempty"`
	CreatedBy         uint64     `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
	DeletedBy         *uint64    `json:"deleted_by,omitempty"`
}

// IsOverdue reports whether a finding with the given target date and status
// should be in the Overdue state on the given day. Closed findings are
// never overdue. Comparison is by calendar day, not instant.
func IsOverdue(target time.Time, status string, today time.Time) bool {
	if status == FindingClosed {
		return false
	}
	ty, tm, td := target.Date()
	ny, nm, nd := today.Date()
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	n := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return t.Before(n)
}

// EffectiveStatus resolves the status a finding should carry after a write.
// A requested status is kept unless the target date is already in the past,
// in which case any non-Closed status is forced to Overdue.
func EffectiveStatus(requested string, target time.Time, today time.Time) string {
	if IsOverdue(target, requested, today) {
		return FindingOverdue
	}
	return requested
}

// ReopenStatus is the status a closed finding returns to when reopened:
// Open when the target date is still ahead (or today), otherwise Overdue.
func ReopenStatus(target time.Time, today time.Time) string {
	if IsOverdue(target, FindingOpen, today) {
		return FindingOverdue
	}
	return FindingOpen
}
