// This file implements persistence for audits, the central record of the
// system. Creation is the one multi-statement write in the schema: the
// reference code embeds the auto-increment id, so the row is inserted and
// then stamped with its generated reference inside a single transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rovenna/vessel-audit/internal/model"
)

// AuditRepo encapsulates all database queries related to audits and their
// auditor assignments.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo constructs an AuditRepo with the provided DB handle.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

const auditColumns = `id, audit_reference, vessel_id, audit_type_id, audit_party_id, audit_company_id,
	audit_start_date, audit_end_date, next_due_date, status, result_id, report_path, remarks,
	created_by, created_at, updated_at, deleted_at, deleted_by`

func scanAudit(row interface{ Scan(...any) error }, a *model.Audit) error {
	return row.Scan(&a.ID, &a.Reference, &a.VesselID, &a.TypeID, &a.PartyID, &a.CompanyID,
		&a.StartDate, &a.EndDate, &a.NextDueDate, &a.Status, &a.ResultID, &a.ReportPath, &a.Remarks,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt, &a.DeletedBy)
}

// Create inserts a new audit. When the caller does not supply a reference,
// one is derived from the generated id (AUD-YY-00007) and written in the
// same transaction, so a crash between the two statements never leaves an
// audit without a reference.
func (r *AuditRepo) Create(ctx context.Context, a *model.Audit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	const qInsert = `INSERT INTO audits
		(audit_reference, vessel_id, audit_type_id, audit_party_id, audit_company_id,
		 audit_start_date, audit_end_date, next_due_date, status, result_id, report_path, remarks, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	ref := sql.NullString{String: a.Reference, Valid: a.Reference != ""}
	var res sql.Result
	res, err = tx.ExecContext(ctx, qInsert, ref, a.VesselID, a.TypeID, a.PartyID, a.CompanyID,
		a.StartDate, a.EndDate, a.NextDueDate, a.Status, a.ResultID, a.ReportPath, a.Remarks, a.CreatedBy)
	if err != nil {
		if isDuplicate(err) {
			err = ErrDuplicateName
		}
		return err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	if a.Reference == "" {
		a.Reference = model.AuditReference(a.ID, time.Now().UTC())
		if _, err = tx.ExecContext(ctx,
			`UPDATE audits SET audit_reference = ? WHERE id = ?`, a.Reference, a.ID); err != nil {
			return err
		}
	}

	err = tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM audits WHERE id = ?`, a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	return err
}

// GetByID fetches an audit by id. Soft-deleted rows are excluded unless
// includeDeleted is set.
func (r *AuditRepo) GetByID(ctx context.Context, id uint64, includeDeleted bool) (*model.Audit, error) {
	q := `SELECT ` + auditColumns + ` FROM audits WHERE id = ?`
	if !includeDeleted {
		q += ` AND deleted_at IS NULL`
	}
	var a model.Audit
	if err := scanAudit(r.db.QueryRowContext(ctx, q, id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// AuditFilter narrows List results. Zero values mean "no filter".
type AuditFilter struct {
	VesselID       uint64
	Status         string
	IncludeDeleted bool
}

// List returns a page of audits (newest first) and the total matching count.
func (r *AuditRepo) List(ctx context.Context, f AuditFilter, limit, offset int) ([]*model.Audit, int, error) {
	var conds []string
	var args []any
	if !f.IncludeDeleted {
		conds = append(conds, "deleted_at IS NULL")
	}
	if f.VesselID != 0 {
		conds = append(conds, "vessel_id = ?")
		args = append(args, f.VesselID)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audits`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + auditColumns + ` FROM audits` + where + ` ORDER BY id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Audit
	for rows.Next() {
		a := new(model.Audit)
		if err := scanAudit(rows, a); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// AuditUpdate carries the optional fields of a partial update. Nil fields
// are left untouched. The reference itself is immutable after creation.
type AuditUpdate struct {
	VesselID    *uint64
	TypeID      *uint64
	PartyID     *uint64
	CompanyID   *uint64
	StartDate   *time.Time
	EndDate     *time.Time
	NextDueDate *time.Time
	Status      *string
	ResultID    *uint64
	ReportPath  *string
	Remarks     *string
}

// Update applies a partial update to a live audit and returns the fresh row.
func (r *AuditRepo) Update(ctx context.Context, id uint64, u AuditUpdate) (*model.Audit, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.VesselID != nil {
		set("vessel_id", *u.VesselID)
	}
	if u.TypeID != nil {
		set("audit_type_id", *u.TypeID)
	}
	if u.PartyID != nil {
		set("audit_party_id", *u.PartyID)
	}
	if u.CompanyID != nil {
		set("audit_company_id", *u.CompanyID)
	}
	if u.StartDate != nil {
		set("audit_start_date", *u.StartDate)
	}
	if u.EndDate != nil {
		set("audit_end_date", *u.EndDate)
	}
	if u.NextDueDate != nil {
		set("next_due_date", *u.NextDueDate)
	}
	if u.Status != nil {
		set("status", *u.Status)
	}
	if u.ResultID != nil {
		set("result_id", *u.ResultID)
	}
	if u.ReportPath != nil {
		set("report_path", *u.ReportPath)
	}
	if u.Remarks != nil {
		set("remarks", *u.Remarks)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id, false)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	q := `UPDATE audits SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, append(args, id)...)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Row may exist unchanged; GetByID sorts out not-found vs no-op.
		return r.GetByID(ctx, id, false)
	}
	return r.GetByID(ctx, id, false)
}

// SoftDelete stamps the deleted_at/deleted_by pair on a live audit.
func (r *AuditRepo) SoftDelete(ctx context.Context, id, by uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE audits SET deleted_at = CURRENT_TIMESTAMP, deleted_by = ?
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

// Restore clears the soft-delete pair on a deleted audit.
func (r *AuditRepo) Restore(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE audits SET deleted_at = NULL, deleted_by = NULL
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

// AssignAuditor links an auditor to an audit and returns the assignment.
func (r *AuditRepo) AssignAuditor(ctx context.Context, auditID, auditorID uint64) (*model.AuditAuditor, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_auditors (audit_id, auditor_id) VALUES (?, ?)`, auditID, auditorID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var aa model.AuditAuditor
	err = r.db.QueryRowContext(ctx,
		`SELECT id, audit_id, auditor_id, created_at FROM audit_auditors WHERE id = ?`, id).
		Scan(&aa.ID, &aa.AuditID, &aa.AuditorID, &aa.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &aa, nil
}

// ListAuditors returns the assignments for one audit ordered by id.
func (r *AuditRepo) ListAuditors(ctx context.Context, auditID uint64) ([]*model.AuditAuditor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, audit_id, auditor_id, created_at FROM audit_auditors WHERE audit_id = ? ORDER BY id`,
		auditID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.AuditAuditor
	for rows.Next() {
		aa := new(model.AuditAuditor)
		if err := rows.Scan(&aa.ID, &aa.AuditID, &aa.AuditorID, &aa.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, aa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UnassignAuditor removes one assignment row identified by its id, scoped
// to the audit so a stray assignment id cannot cross audits.
func (r *AuditRepo) UnassignAuditor(ctx context.Context, auditID, assignmentID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM audit_auditors WHERE id = ? AND audit_id = ?`, assignmentID, auditID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DueSoonAudit is a reminder projection: an audit whose next_due_date is
// inside the reminder window, joined with its vessel name.
type DueSoonAudit struct {
	ID          uint64
	Reference   string
	VesselName  string
	NextDueDate time.Time
}

// ListDueSoon returns live audits whose next_due_date falls within
// [from, to] and whose status is neither Completed nor Closed.
func (r *AuditRepo) ListDueSoon(ctx context.Context, from, to time.Time) ([]DueSoonAudit, error) {
	const q = `SELECT a.id, a.audit_reference, v.name, a.next_due_date
	           FROM audits a
	           JOIN vessels v ON v.id = a.vessel_id
	           WHERE a.deleted_at IS NULL
	             AND a.next_due_date IS NOT NULL
	             AND a.next_due_date BETWEEN ? AND ?
	             AND a.status NOT IN (?, ?)
	           ORDER BY a.next_due_date, a.id`
	rows, err := r.db.QueryContext(ctx, q, from, to, model.AuditCompleted, model.AuditClosed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DueSoonAudit
	for rows.Next() {
		var d DueSoonAudit
		if err := rows.Scan(&d.ID, &d.Reference, &d.VesselName, &d.NextDueDate); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
