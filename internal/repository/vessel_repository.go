// Package repository contains data access logic separated from HTTP
// handlers. This file defines repository methods for vessels. Vessels are
// hard-deleted; the delete is blocked while any audit references the row.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rovenna/vessel-audit/internal/model"
)

// VesselRepo encapsulates all database queries related to vessels.
type VesselRepo struct {
	db *sql.DB
}

// NewVesselRepo constructs a VesselRepo with the provided DB handle.
func NewVesselRepo(db *sql.DB) *VesselRepo {
	return &VesselRepo{db: db}
}

// Create inserts a new vessel. On success the ID and timestamp fields are
// populated via a follow-up SELECT.
func (r *VesselRepo) Create(ctx context.Context, v *model.Vessel) error {
	const qInsert = `INSERT INTO vessels (name, code, registration_number, status) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, v.Name, v.Code, v.Registration, v.Status)
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
	v.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM vessels WHERE id = ?`, v.ID).
		Scan(&v.CreatedAt, &v.UpdatedAt)
}

// GetByID fetches a vessel by its ID. Returns ErrNotFound when no row exists.
func (r *VesselRepo) GetByID(ctx context.Context, id uint64) (*model.Vessel, error) {
	const q = `SELECT id, name, code, registration_number, status, created_at, updated_at
	           FROM vessels WHERE id = ?`
	var v model.Vessel
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&v.ID, &v.Name, &v.Code, &v.Registration, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List returns a page of vessels ordered by id plus the total row count.
func (r *VesselRepo) List(ctx context.Context, limit, offset int) ([]*model.Vessel, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vessels`).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT id, name, code, registration_number, status, created_at, updated_at
	           FROM vessels ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Vessel
	for rows.Next() {
		v := new(model.Vessel)
		if err := rows.Scan(&v.ID, &v.Name, &v.Code, &v.Registration, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update overwrites the mutable vessel fields. Returns ErrNotFound when the
// row does not exist and ErrDuplicateName on a unique violation.
func (r *VesselRepo) Update(ctx context.Context, v *model.Vessel) error {
	const q = `UPDATE vessels
	           SET name = ?, code = ?, registration_number = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Code, v.Registration, v.Status, v.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateName
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "no such row" from "no change": RowsAffected is 0 for
		// both under MySQL unless CLIENT_FOUND_ROWS is set.
		if _, err := r.GetByID(ctx, v.ID); err != nil {
			return err
		}
	}
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM vessels WHERE id = ?`, v.ID).
		Scan(&v.CreatedAt, &v.UpdatedAt)
}

// Delete removes a vessel permanently. The delete is refused with ErrInUse
// while any audit references the vessel, deleted audits included, so that
// history keeps resolving.
func (r *VesselRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audits WHERE vessel_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM vessels WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
