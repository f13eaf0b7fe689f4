package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/utils"
)

func newFindingRepo(t *testing.T) (*FindingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFindingRepo(db), mock
}

// findingRow builds a full result row for the finding column set.
func findingRow(id uint64, status string, target time.Time, closure any) *sqlmock.Rows {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "audit_id", "category", "description", "root_cause", "corrective_action",
		"responsible_person", "target_date", "status", "closure_date", "created_by",
		"created_at", "updated_at", "deleted_at", "deleted_by",
	}).AddRow(id, 1, model.CategoryMinor, "worn mooring lines on the aft deck", "", "", "",
		target, status, closure, 2, now, now, nil, nil)
}

func TestGetByIDPromotesPastTargetToOverdue(t *testing.T) {
	repo, mock := newFindingRepo(t)
	past := utils.Today().AddDate(0, 0, -3)

	mock.ExpectQuery(`SELECT (.+) FROM findings WHERE id = \? AND deleted_at IS NULL`).
		WithArgs(5).
		WillReturnRows(findingRow(5, model.FindingOpen, past, nil))
	mock.ExpectExec(`UPDATE findings SET status = \?, updated_at = CURRENT_TIMESTAMP WHERE id = \?`).
		WithArgs(model.FindingOverdue, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	f, err := repo.GetByID(context.Background(), 5, false)
	require.NoError(t, err)
	assert.Equal(t, model.FindingOverdue, f.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDLeavesFutureTargetAlone(t *testing.T) {
	repo, mock := newFindingRepo(t)
	future := utils.Today().AddDate(0, 0, 5)

	mock.ExpectQuery(`SELECT (.+) FROM findings WHERE id = \? AND deleted_at IS NULL`).
		WithArgs(6).
		WillReturnRows(findingRow(6, model.FindingOpen, future, nil))

	f, err := repo.GetByID(context.Background(), 6, false)
	require.NoError(t, err)
	assert.Equal(t, model.FindingOpen, f.Status)
	assert.NoError(t, mock.ExpectationsWereMet(), "no status write for a live finding")
}

func TestCloseStampsClosureDate(t *testing.T) {
	repo, mock := newFindingRepo(t)
	today := utils.Today()

	mock.ExpectExec(`UPDATE findings SET status = \?, closure_date = \?`).
		WithArgs(model.FindingClosed, today, 7, model.FindingClosed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM findings WHERE id = \? AND deleted_at IS NULL`).
		WithArgs(7).
		WillReturnRows(findingRow(7, model.FindingClosed, today.AddDate(0, 0, 10), today))

	f, err := repo.Close(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, model.FindingClosed, f.Status)
	require.NotNil(t, f.ClosureDate)
	assert.Equal(t, today, *f.ClosureDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseIsIdempotent(t *testing.T) {
	repo, mock := newFindingRepo(t)
	today := utils.Today()
	original := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	// The guarded UPDATE matches nothing for an already-closed finding.
	mock.ExpectExec(`UPDATE findings SET status = \?, closure_date = \?`).
		WithArgs(model.FindingClosed, today, 8, model.FindingClosed).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM findings WHERE id = \? AND deleted_at IS NULL`).
		WithArgs(8).
		WillReturnRows(findingRow(8, model.FindingClosed, original.AddDate(0, 0, -5), original))

	f, err := repo.Close(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, model.FindingClosed, f.Status)
	require.NotNil(t, f.ClosureDate)
	assert.Equal(t, original, *f.ClosureDate, "re-closing must keep the original closure date")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReopenClearsClosureDate(t *testing.T) {
	repo, mock := newFindingRepo(t)
	future := utils.Today().AddDate(0, 0, 14)
	closure := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM findings WHERE id = \? AND deleted_at IS NULL`).
		WithArgs(9).
		WillReturnRows(findingRow(9, model.FindingClosed, future, closure))
	mock.ExpectExec(`UPDATE findings SET status = \?, closure_date = NULL`).
		WithArgs(model.FindingOpen, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))

	f, err := repo.Reopen(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, model.FindingOpen, f.Status)
	assert.Nil(t, f.ClosureDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReopenPastTargetGoesOverdue(t *testing.T) {
	repo, mock := newFindingRepo(t)
	past := utils.Today().AddDate(0, 0, -1)
	closure := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM findings WHERE id = \? AND deleted_at IS NULL`).
		WithArgs(10).
		WillReturnRows(findingRow(10, model.FindingClosed, past, closure))
	mock.ExpectExec(`UPDATE findings SET status = \?, closure_date = NULL`).
		WithArgs(model.FindingOverdue, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	f, err := repo.Reopen(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, model.FindingOverdue, f.Status)
	assert.Nil(t, f.ClosureDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseMissingFindingReturnsNotFound(t *testing.T) {
	repo, mock := newFindingRepo(t)

	mock.ExpectExec(`UPDATE findings SET status = \?, closure_date = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM findings WHERE id = \? AND deleted_at IS NULL`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Close(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
