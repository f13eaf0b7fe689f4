package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsRepo(t *testing.T) (*SettingsRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSettingsRepo(db), mock
}

func settingsRow(name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "company_name", "address", "email", "phone", "logo_path", "updated_at",
	}).AddRow(1, name, "", "", "", "", time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
}

func TestGetOrCreateInsertsSingletonRow(t *testing.T) {
	repo, mock := newSettingsRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM company_settings ORDER BY id LIMIT 1`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO company_settings \(id, company_name\) VALUES \(1, ''\)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT (.+) FROM company_settings ORDER BY id LIMIT 1`).
		WillReturnRows(settingsRow(""))

	s, err := repo.GetOrCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateToleratesRacingFirstRead(t *testing.T) {
	repo, mock := newSettingsRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM company_settings ORDER BY id LIMIT 1`).
		WillReturnError(sql.ErrNoRows)
	// A concurrent first read inserted the row between our SELECT and INSERT.
	mock.ExpectExec(`INSERT INTO company_settings \(id, company_name\) VALUES \(1, ''\)`).
		WillReturnError(errors.New("Error 1062: Duplicate entry '1' for key 'PRIMARY'"))
	mock.ExpectQuery(`SELECT (.+) FROM company_settings ORDER BY id LIMIT 1`).
		WillReturnRows(settingsRow("Rovenna Marine"))

	s, err := repo.GetOrCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Rovenna Marine", s.CompanyName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
