// This file implements persistence for findings and the status lifecycle
// around them. Status writes funnel through Close, Reopen and SweepOverdue;
// the generic Update path deliberately has no status column so the
// transition rules cannot be bypassed.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/utils"
)

// FindingRepo encapsulates all database queries related to findings.
type FindingRepo struct {
	db *sql.DB
}

// NewFindingRepo constructs a FindingRepo with the provided DB handle.
func NewFindingRepo(db *sql.DB) *FindingRepo {
	return &FindingRepo{db: db}
}

const findingColumns = `id, audit_id, category, description, root_cause, corrective_action,
	responsible_person, target_date, status, closure_date, created_by, created_at, updated_at,
	deleted_at, deleted_by`

func scanFinding(row interface{ Scan(...any) error }, f *model.Finding) error {
	return row.Scan(&f.ID, &f.AuditID, &f.Category, &f.Description, &f.RootCause, &f.CorrectiveAction,
		&f.ResponsiblePerson, &f.TargetDate, &f.Status, &f.ClosureDate, &f.CreatedBy, &f.CreatedAt,
		&f.UpdatedAt, &f.DeletedAt, &f.DeletedBy)
}

// Create inserts a new finding. The caller resolves the effective status
// (past target dates force Overdue) before insert.
func (r *FindingRepo) Create(ctx context.Context, f *model.Finding) error {
	const q = `INSERT INTO findings
		(audit_id, category, description, root_cause, corrective_action, responsible_person,
		 target_date, status, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.AuditID, f.Category, f.Description, f.RootCause,
		f.CorrectiveAction, f.ResponsiblePerson, f.TargetDate, f.Status, f.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM findings WHERE id = ?`, f.ID).
		Scan(&f.CreatedAt, &f.UpdatedAt)
}

// GetByID fetches a finding. On read the stored status is lazily
// reconciled: a live, non-closed finding whose target date has passed is
// promoted to Overdue before being returned, so callers never observe a
// stale Open state between bulk sweeps.
func (r *FindingRepo) GetByID(ctx context.Context, id uint64, includeDeleted bool) (*model.Finding, error) {
	q := `SELECT ` + findingColumns + ` FROM findings WHERE id = ?`
	if !includeDeleted {
		q += ` AND deleted_at IS NULL`
	}
	var f model.Finding
	if err := scanFinding(r.db.QueryRowContext(ctx, q, id), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if f.DeletedAt == nil && f.Status != model.FindingOverdue &&
		model.IsOverdue(f.TargetDate, f.Status, utils.Today()) {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE findings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			model.FindingOverdue, f.ID); err != nil {
			return nil, err
		}
		f.Status = model.FindingOverdue
	}
	return &f, nil
}

// FindingFilter narrows List results. Zero values mean "no filter".
type FindingFilter struct {
	AuditID        uint64
	Status         string
	Category       string
	IncludeDeleted bool
}

// List returns a page of findings (newest first) and the total match count.
func (r *FindingRepo) List(ctx context.Context, flt FindingFilter, limit, offset int) ([]*model.Finding, int, error) {
	var conds []string
	var args []any
	if !flt.IncludeDeleted {
		conds = append(conds, "deleted_at IS NULL")
	}
	if flt.AuditID != 0 {
		conds = append(conds, "audit_id = ?")
		args = append(args, flt.AuditID)
	}
	if flt.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, flt.Status)
	}
	if flt.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, flt.Category)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM findings`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + findingColumns + ` FROM findings` + where + ` ORDER BY id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Finding
	for rows.Next() {
		f := new(model.Finding)
		if err := scanFinding(rows, f); err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FindingUpdate carries the optional fields of a partial update. Status is
// deliberately absent: status moves only through Close, Reopen and the
// overdue sweep.
type FindingUpdate struct {
	Category          *string
	Description       *string
	RootCause         *string
	CorrectiveAction  *string
	ResponsiblePerson *string
	TargetDate        *time.Time
}

// Update applies a partial update to a live finding. When the target date
// moves, the stored status is reconciled against it: a non-closed finding
// is pushed to Overdue for a past date, and an Overdue finding whose date
// moved into the future falls back to Open.
func (r *FindingRepo) Update(ctx context.Context, id uint64, u FindingUpdate) (*model.Finding, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Category != nil {
		set("category", *u.Category)
	}
	if u.Description != nil {
		set("description", *u.Description)
	}
	if u.RootCause != nil {
		set("root_cause", *u.RootCause)
	}
	if u.CorrectiveAction != nil {
		set("corrective_action", *u.CorrectiveAction)
	}
	if u.ResponsiblePerson != nil {
		set("responsible_person", *u.ResponsiblePerson)
	}
	if u.TargetDate != nil {
		set("target_date", *u.TargetDate)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		q := `UPDATE findings SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND deleted_at IS NULL`
		if _, err := r.db.ExecContext(ctx, q, append(args, id)...); err != nil {
			return nil, err
		}
	}

	f, err := r.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if u.TargetDate != nil && f.Status == model.FindingOverdue &&
		!model.IsOverdue(f.TargetDate, f.Status, utils.Today()) {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE findings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			model.FindingOpen, f.ID); err != nil {
			return nil, err
		}
		f.Status = model.FindingOpen
	}
	return f, nil
}

// Close moves a finding to Closed and stamps today's date as the closure
// date. Closing an already-closed finding is a no-op: the original closure
// date is preserved.
func (r *FindingRepo) Close(ctx context.Context, id uint64) (*model.Finding, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE findings SET status = ?, closure_date = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL AND status <> ?`,
		model.FindingClosed, utils.Today(), id, model.FindingClosed)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either missing or already closed; GetByID distinguishes the two.
		f, err := r.getStored(ctx, id)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return r.getStored(ctx, id)
}

// Reopen clears the closure date and returns the finding to Open, or to
// Overdue when its target date has already passed.
func (r *FindingRepo) Reopen(ctx context.Context, id uint64) (*model.Finding, error) {
	f, err := r.getStored(ctx, id)
	if err != nil {
		return nil, err
	}
	status := model.ReopenStatus(f.TargetDate, utils.Today())
	if _, err := r.db.ExecContext(ctx,
		`UPDATE findings SET status = ?, closure_date = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`, status, id); err != nil {
		return nil, err
	}
	f.Status = status
	f.ClosureDate = nil
	return f, nil
}

// getStored fetches a live finding without the lazy overdue reconciliation;
// used by the lifecycle methods that set status themselves.
func (r *FindingRepo) getStored(ctx context.Context, id uint64) (*model.Finding, error) {
	var f model.Finding
	err := scanFinding(r.db.QueryRowContext(ctx,
		`SELECT `+findingColumns+` FROM findings WHERE id = ? AND deleted_at IS NULL`, id), &f)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// SweepOverdue is the bulk path of the overdue rule: every live finding
// whose target date is before today and whose status is neither Closed nor
// Overdue is forced to Overdue. The sweep is idempotent; re-running it on
// the same day affects zero rows.
func (r *FindingRepo) SweepOverdue(ctx context.Context, today time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE findings SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE deleted_at IS NULL AND target_date < ? AND status NOT IN (?, ?)`,
		model.FindingOverdue, today, model.FindingClosed, model.FindingOverdue)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete stamps the deleted_at/deleted_by pair on a live finding.
func (r *FindingRepo) SoftDelete(ctx context.Context, id, by uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE findings SET deleted_at = CURRENT_TIMESTAMP, deleted_by = ?
		 WHERE id = ? AND deleted_at IS NULL`, by, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id, true); err != nil {
			return err
		}
		return ErrAlreadyDeleted
	}
	return nil
}

// Restore clears the soft-delete pair on a deleted finding.
func (r *FindingRepo) Restore(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE findings SET deleted_at = NULL, deleted_by = NULL
		 WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id, true); err != nil {
			return err
		}
		return ErrNotDeleted
	}
	return nil
}

// DueFinding is a reminder projection: a finding approaching (or past) its
// target date together with its audit reference and the email of the user
// who created the parent audit.
type DueFinding struct {
	ID             uint64
	AuditReference string
	Description    string
	TargetDate     time.Time
	CreatorEmail   string
}

// ListTargetOn returns live findings whose target date is exactly day and
// whose status is neither Closed nor Overdue; used for the lead-time
// reminder to the parent audit's creator.
func (r *FindingRepo) ListTargetOn(ctx context.Context, day time.Time) ([]DueFinding, error) {
	const q = `SELECT f.id, a.audit_reference, f.description, f.target_date, u.email
	           FROM findings f
	           JOIN audits a ON a.id = f.audit_id
	           JOIN users u ON u.id = a.created_by
	           WHERE f.deleted_at IS NULL
	             AND f.target_date = ?
	             AND f.status NOT IN (?, ?)
	           ORDER BY f.id`
	rows, err := r.db.QueryContext(ctx, q, day, model.FindingClosed, model.FindingOverdue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DueFinding
	for rows.Next() {
		var d DueFinding
		if err := rows.Scan(&d.ID, &d.AuditReference, &d.Description, &d.TargetDate, &d.CreatorEmail); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListOverdue returns live findings sitting in the Overdue state; used for
// the escalation alert to the admin address.
func (r *FindingRepo) ListOverdue(ctx context.Context, today time.Time) ([]DueFinding, error) {
	const q = `SELECT f.id, a.audit_reference, f.description, f.target_date, u.email
	           FROM findings f
	           JOIN audits a ON a.id = f.audit_id
	           JOIN users u ON u.id = a.created_by
	           WHERE f.deleted_at IS NULL
	             AND f.target_date < ?
	             AND f.status = ?
	           ORDER BY f.target_date, f.id`
	rows, err := r.db.QueryContext(ctx, q, today, model.FindingOverdue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DueFinding
	for rows.Next() {
		var d DueFinding
		if err := rows.Scan(&d.ID, &d.AuditReference, &d.Description, &d.TargetDate, &d.CreatorEmail); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
