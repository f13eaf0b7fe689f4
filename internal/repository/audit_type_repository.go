package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rovenna/vessel-audit/internal/model"
)

// AuditTypeRepo manages the audit_types lookup table.
type AuditTypeRepo struct {
	db *sql.DB
}

func NewAuditTypeRepo(db *sql.DB) *AuditTypeRepo { return &AuditTypeRepo{db: db} }

func (r *AuditTypeRepo) Create(ctx context.Context, t *model.AuditType) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_types (name, description) VALUES (?, ?)`, t.Name, t.Description)
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
	t.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM audit_types WHERE id = ?`, t.ID).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *AuditTypeRepo) GetByID(ctx context.Context, id uint64) (*model.AuditType, error) {
	var t model.AuditType
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM audit_types WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *AuditTypeRepo) List(ctx context.Context, limit, offset int) ([]*model.AuditType, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_types`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM audit_types ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []*model.AuditType
	for rows.Next() {
		t := new(model.AuditType)
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *AuditTypeRepo) Update(ctx context.Context, t *model.AuditType) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE audit_types SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		t.Name, t.Description, t.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateName
		}
		return err
	}
	err = r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM audit_types WHERE id = ?`, t.ID).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete hard-deletes an audit type unless an audit references it.
func (r *AuditTypeRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audits WHERE audit_type_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_types WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
