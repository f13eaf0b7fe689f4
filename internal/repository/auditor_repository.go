package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rovenna/vessel-audit/internal/model"
)

// AuditorRepo manages the auditors lookup table.
type AuditorRepo struct {
	db *sql.DB
}

func NewAuditorRepo(db *sql.DB) *AuditorRepo { return &AuditorRepo{db: db} }

func (r *AuditorRepo) Create(ctx context.Context, a *model.Auditor) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO auditors (name, email, company_id) VALUES (?, ?, ?)`,
		a.Name, a.Email, a.CompanyID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateName
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM auditors WHERE id = ?`, a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *AuditorRepo) GetByID(ctx context.Context, id uint64) (*model.Auditor, error) {
	var a model.Auditor
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, company_id, created_at, updated_at FROM auditors WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Email, &a.CompanyID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AuditorRepo) List(ctx context.Context, limit, offset int) ([]*model.Auditor, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM auditors`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, company_id, created_at, updated_at
		 FROM auditors ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []*model.Auditor
	for rows.Next() {
		a := new(model.Auditor)
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.CompanyID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *AuditorRepo) Update(ctx context.Context, a *model.Auditor) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE auditors SET name = ?, email = ?, company_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		a.Name, a.Email, a.CompanyID, a.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateName
		}
		return err
	}
	err = r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM auditors WHERE id = ?`, a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete hard-deletes an auditor unless an audit assignment references it.
func (r *AuditorRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_auditors WHERE auditor_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM auditors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
