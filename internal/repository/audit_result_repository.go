package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rovenna/vessel-audit/internal/model"
)

// AuditResultRepo manages the audit_results lookup table.
type AuditResultRepo struct {
	db *sql.DB
}

func NewAuditResultRepo(db *sql.DB) *AuditResultRepo { return &AuditResultRepo{db: db} }

func (r *AuditResultRepo) Create(ctx context.Context, res *model.AuditResult) error {
	ins, err := r.db.ExecContext(ctx, `INSERT INTO audit_results (name) VALUES (?)`, res.Name)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateName
		}
		return err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM audit_results WHERE id = ?`, res.ID).
		Scan(&res.CreatedAt, &res.UpdatedAt)
}

func (r *AuditResultRepo) GetByID(ctx context.Context, id uint64) (*model.AuditResult, error) {
	var res model.AuditResult
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM audit_results WHERE id = ?`, id).
		Scan(&res.ID, &res.Name, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *AuditResultRepo) List(ctx context.Context, limit, offset int) ([]*model.AuditResult, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_results`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM audit_results ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []*model.AuditResult
	for rows.Next() {
		res := new(model.AuditResult)
		if err := rows.Scan(&res.ID, &res.Name, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *AuditResultRepo) Update(ctx context.Context, res *model.AuditResult) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE audit_results SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, res.Name, res.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateName
		}
		return err
	}
	err = r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM audit_results WHERE id = ?`, res.ID).
		Scan(&res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete hard-deletes a result unless an audit references it.
func (r *AuditResultRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audits WHERE result_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_results WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
