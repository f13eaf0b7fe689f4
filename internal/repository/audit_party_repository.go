package repository

// Audit parties are the one lookup entity that follows the soft-delete
// convention: deleting a party only stamps deleted_at/deleted_by so that
// historical audits keep resolving the party name, and a restore clears
// the pair again. Default reads filter deleted rows out; pass
// includeDeleted to opt back in.

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rovenna/vessel-audit/internal/model"
)

// AuditPartyRepo manages the audit_parties table.
type AuditPartyRepo struct {
	db *sql.DB
}

func NewAuditPartyRepo(db *sql.DB) *AuditPartyRepo { return &AuditPartyRepo{db: db} }

func (r *AuditPartyRepo) Create(ctx context.Context, p *model.AuditParty) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_parties (name, description) VALUES (?, ?)`, p.Name, p.Description)
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
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM audit_parties WHERE id = ?`, p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *AuditPartyRepo) GetByID(ctx context.Context, id uint64, includeDeleted bool) (*model.AuditParty, error) {
	q := `SELECT id, name, description, created_at, updated_at, deleted_at, deleted_by
	      FROM audit_parties WHERE id = ?`
	if !includeDeleted {
		q += ` AND deleted_at IS NULL`
	}
	var p model.AuditParty
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt, &p.DeletedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AuditPartyRepo) List(ctx context.Context, limit, offset int, includeDeleted bool) ([]*model.AuditParty, int, error) {
	where := ` WHERE deleted_at IS NULL`
	if includeDeleted {
		where = ``
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_parties`+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at, deleted_at, deleted_by
		 FROM audit_parties`+where+` ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []*model.AuditParty
	for rows.Next() {
		p := new(model.AuditParty)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt, &p.DeletedBy); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *AuditPartyRepo) Update(ctx context.Context, p *model.AuditParty) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE audit_parties SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		p.Name, p.Description, p.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateName
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID, false); err != nil {
			return err
		}
	}
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM audit_parties WHERE id = ?`, p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// SoftDelete stamps deleted_at/deleted_by. ErrAlreadyDeleted when the row
// is already gone, ErrNotFound when it never existed.
func (r *AuditPartyRepo) SoftDelete(ctx context.Context, id, by uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE audit_parties SET deleted_at = CURRENT_TIMESTAMP, deleted_by = ?
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

// Restore clears the soft-delete pair. ErrNotDeleted when the row is live.
func (r *AuditPartyRepo) Restore(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE audit_parties SET deleted_at = NULL, deleted_by = NULL
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
