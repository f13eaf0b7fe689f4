package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rovenna/vessel-audit/internal/model"
)

// UserRepo manages the users table. Users follow the soft-delete
// convention and carry an is_active flag that blocks login separately.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role_id, r.name, u.is_active,
	u.created_at, u.updated_at, u.deleted_at, u.deleted_by`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.RoleName, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt, &u.DeletedBy)
}

// Create inserts a user with an already-hashed password and returns the
// row joined with its role name.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role_id, is_active) VALUES (?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, u.RoleID, u.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	got, err := r.GetByID(ctx, u.ID, false)
	if err != nil {
		return err
	}
	*u = *got
	return nil
}

// GetByEmail fetches a live user by normalized email, deleted rows
// excluded. Used by login.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u JOIN roles r ON r.id = u.role_id
		 WHERE u.email = ? AND u.deleted_at IS NULL LIMIT 1`, email), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64, includeDeleted bool) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id = ?`
	if !includeDeleted {
		q += ` AND u.deleted_at IS NULL`
	}
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx, q, id), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns a page of users ordered by id plus the total row count.
func (r *UserRepo) List(ctx context.Context, limit, offset int, includeDeleted bool) ([]*model.User, int, error) {
	where := ` WHERE u.deleted_at IS NULL`
	if includeDeleted {
		where = ``
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users u JOIN roles r ON r.id = u.role_id`+where+
			` ORDER BY u.id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []*model.User
	for rows.Next() {
		u := new(model.User)
		if err := scanUser(rows, u); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UserUpdate carries the optional fields of a partial user update. A nil
// PasswordHash leaves the stored hash untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	RoleID       *uint64
	IsActive     *bool
}

// Update applies a partial update to a live user.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) (*model.User, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Email != nil {
		set("email", strings.ToLower(strings.TrimSpace(*upd.Email)))
	}
	if upd.PasswordHash != nil {
		set("password_hash", *upd.PasswordHash)
	}
	if upd.RoleID != nil {
		set("role_id", *upd.RoleID)
	}
	if upd.IsActive != nil {
		set("is_active", *upd.IsActive)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id, false)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, q, append(args, id)...); err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return r.GetByID(ctx, id, false)
}

// SoftDelete stamps the deleted_at/deleted_by pair on a live user.
func (r *UserRepo) SoftDelete(ctx context.Context, id, by uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP, deleted_by = ?
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

// Restore clears the soft-delete pair on a deleted user.
func (r *UserRepo) Restore(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = NULL, deleted_by = NULL
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
