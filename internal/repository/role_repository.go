// This file implements the access-control matrix: roles, pages,
// permissions and the role_permissions join table. The matrix is the only
// source of truth for authorization; the permission middleware resolves a
// request's (page, action) pair against the caller's role through
// HasGrant, and the full grant set for a role is replaced atomically when
// administered.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rovenna/vessel-audit/internal/model"
)

// RoleRepo manages roles, pages, permissions and the grants between them.
type RoleRepo struct {
	db *sql.DB
}

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{db: db} }

// ListRoles returns all roles ordered by id.
func (r *RoleRepo) ListRoles(ctx context.Context) ([]*model.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Role
	for rows.Next() {
		role := new(model.Role)
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// GetRole fetches one role by id.
func (r *RoleRepo) GetRole(ctx context.Context, id uint64) (*model.Role, error) {
	var role model.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM roles WHERE id = ?`, id).
		Scan(&role.ID, &role.Name, &role.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRole inserts a new role.
func (r *RoleRepo) CreateRole(ctx context.Context, role *model.Role) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO roles (name) VALUES (?)`, role.Name)
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
	role.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM roles WHERE id = ?`, role.ID).Scan(&role.CreatedAt)
}

// DeleteRole hard-deletes a role unless a user references it. Grants are
// removed in the same transaction.
func (r *RoleRepo) DeleteRole(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = ?`, id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}

// ListPages returns all pages ordered by id.
func (r *RoleRepo) ListPages(ctx context.Context) ([]*model.Page, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM pages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Page
	for rows.Next() {
		p := new(model.Page)
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListPermissions returns all permissions ordered by id.
func (r *RoleRepo) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM permissions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Permission
	for rows.Next() {
		p := new(model.Permission)
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GrantsForRole resolves the full set of (page, permission) names granted
// to a role.
func (r *RoleRepo) GrantsForRole(ctx context.Context, roleID uint64) ([]model.PageGrant, error) {
	const q = `SELECT pg.name, pm.name
	           FROM role_permissions rp
	           JOIN pages pg ON pg.id = rp.page_id
	           JOIN permissions pm ON pm.id = rp.permission_id
	           WHERE rp.role_id = ?
	           ORDER BY pg.id, pm.id`
	rows, err := r.db.QueryContext(ctx, q, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.PageGrant
	for rows.Next() {
		var g model.PageGrant
		if err := rows.Scan(&g.Page, &g.Permission); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// HasGrant reports whether the named role holds the (page, permission)
// pair. Role/page/permission names are matched exactly.
func (r *RoleRepo) HasGrant(ctx context.Context, roleName, page, permission string) (bool, error) {
	const q = `SELECT COUNT(*)
	           FROM role_permissions rp
	           JOIN roles ro ON ro.id = rp.role_id
	           JOIN pages pg ON pg.id = rp.page_id
	           JOIN permissions pm ON pm.id = rp.permission_id
	           WHERE ro.name = ? AND pg.name = ? AND pm.name = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, roleName, page, permission).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReplacePermissions swaps a role's entire grant set for the given pairs
// inside one transaction, so a crash mid-replace never leaves the role
// with a half-written matrix.
func (r *RoleRepo) ReplacePermissions(ctx context.Context, roleID uint64, grants []model.RolePermission) error {
	if _, err := r.GetRole(ctx, roleID); err != nil {
		return err
	}
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = ?`, roleID); err != nil {
		return err
	}
	for _, g := range grants {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO role_permissions (role_id, page_id, permission_id) VALUES (?, ?, ?)`,
			roleID, g.PageID, g.PermissionID); err != nil {
			return err
		}
	}
	return nil
}
