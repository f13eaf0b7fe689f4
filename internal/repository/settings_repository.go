package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rovenna/vessel-audit/internal/model"
)

// SettingsRepo manages the singleton company_settings row.
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// GetOrCreate returns the settings row, inserting an empty one on first
// read (first-or-create).
func (r *SettingsRepo) GetOrCreate(ctx context.Context) (*model.CompanySettings, error) {
	s, err := r.get(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	// The fixed id makes concurrent first reads collide on the primary key
	// instead of inserting a second row.
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO company_settings (id, company_name) VALUES (1, '')`); err != nil {
		if !isDuplicate(err) {
			return nil, err
		}
	}
	return r.get(ctx)
}

// Update overwrites the profile fields of the singleton row.
func (r *SettingsRepo) Update(ctx context.Context, s *model.CompanySettings) error {
	cur, err := r.GetOrCreate(ctx)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE company_settings
		 SET company_name = ?, address = ?, email = ?, phone = ?, logo_path = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.CompanyName, s.Address, s.Email, s.Phone, s.LogoPath, cur.ID)
	if err != nil {
		return err
	}
	s.ID = cur.ID
	return r.db.QueryRowContext(ctx,
		`SELECT updated_at FROM company_settings WHERE id = ?`, s.ID).Scan(&s.UpdatedAt)
}

func (r *SettingsRepo) get(ctx context.Context) (*model.CompanySettings, error) {
	var s model.CompanySettings
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_name, address, email, phone, logo_path, updated_at
		 FROM company_settings ORDER BY id LIMIT 1`).
		Scan(&s.ID, &s.CompanyName, &s.Address, &s.Email, &s.Phone, &s.LogoPath, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
