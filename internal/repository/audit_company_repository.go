package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rovenna/vessel-audit/internal/model"
)

// AuditCompanyRepo manages the audit_companies lookup table.
type AuditCompanyRepo struct {
	db *sql.DB
}

func NewAuditCompanyRepo(db *sql.DB) *AuditCompanyRepo { return &AuditCompanyRepo{db: db} }

func (r *AuditCompanyRepo) Create(ctx context.Context, c *model.AuditCompany) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_companies (name, address, email, phone) VALUES (?, ?, ?, ?)`,
		c.Name, c.Address, c.Email, c.Phone)
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
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM audit_companies WHERE id = ?`, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *AuditCompanyRepo) GetByID(ctx context.Context, id uint64) (*model.AuditCompany, error) {
	var c model.AuditCompany
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, address, email, phone, created_at, updated_at
		 FROM audit_companies WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AuditCompanyRepo) List(ctx context.Context, limit, offset int) ([]*model.AuditCompany, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_companies`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, address, email, phone, created_at, updated_at
		 FROM audit_companies ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []*model.AuditCompany
	for rows.Next() {
		c := new(model.AuditCompany)
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *AuditCompanyRepo) Update(ctx context.Context, c *model.AuditCompany) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE audit_companies SET name = ?, address = ?, email = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		c.Name, c.Address, c.Email, c.Phone, c.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateName
		}
		return err
	}
	err = r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM audit_companies WHERE id = ?`, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete hard-deletes a company unless an audit or an auditor references it.
func (r *AuditCompanyRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM audits WHERE audit_company_id = ?) +
		        (SELECT COUNT(*) FROM auditors WHERE company_id = ?)`, id, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_companies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
