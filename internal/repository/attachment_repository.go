package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rovenna/vessel-audit/internal/model"
)

// AttachmentRepo manages file metadata rows. The same shape backs finding
// evidence (`attachments`, keyed by finding_id) and audit report files
// (`audit_attachments`, keyed by audit_id), so the repo is parameterized
// over the table and owner column and constructed once per flavor.
type AttachmentRepo struct {
	db       *sql.DB
	table    string
	ownerCol string
}

// NewFindingAttachmentRepo manages evidence rows attached to findings.
func NewFindingAttachmentRepo(db *sql.DB) *AttachmentRepo {
	return &AttachmentRepo{db: db, table: "attachments", ownerCol: "finding_id"}
}

// NewAuditAttachmentRepo manages report rows attached to audits.
func NewAuditAttachmentRepo(db *sql.DB) *AttachmentRepo {
	return &AttachmentRepo{db: db, table: "audit_attachments", ownerCol: "audit_id"}
}

// Create inserts one metadata row for an already-stored file.
func (r *AttachmentRepo) Create(ctx context.Context, a *model.Attachment) error {
	q := fmt.Sprintf(`INSERT INTO %s (%s, file_path, file_name, file_type, file_size, uploaded_by)
		VALUES (?, ?, ?, ?, ?, ?)`, r.table, r.ownerCol)
	res, err := r.db.ExecContext(ctx, q, a.OwnerID, a.Path, a.Name, a.MimeType, a.Size, a.UploadedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT created_at FROM %s WHERE id = ?`, r.table), a.ID).Scan(&a.CreatedAt)
}

// GetByID fetches one attachment row.
func (r *AttachmentRepo) GetByID(ctx context.Context, id uint64) (*model.Attachment, error) {
	q := fmt.Sprintf(`SELECT id, %s, file_path, file_name, file_type, file_size, uploaded_by, created_at
		FROM %s WHERE id = ?`, r.ownerCol, r.table)
	var a model.Attachment
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&a.ID, &a.OwnerID, &a.Path, &a.Name, &a.MimeType, &a.Size, &a.UploadedBy, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByOwner returns all attachments of one finding or audit.
func (r *AttachmentRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Attachment, error) {
	q := fmt.Sprintf(`SELECT id, %s, file_path, file_name, file_type, file_size, uploaded_by, created_at
		FROM %s WHERE %s = ? ORDER BY id`, r.ownerCol, r.table, r.ownerCol)
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Attachment
	for rows.Next() {
		a := new(model.Attachment)
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Path, &a.Name, &a.MimeType, &a.Size, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes the metadata row. The caller is responsible for removing
// the file on disk afterwards; the two are not transactionally linked.
func (r *AttachmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
