package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rovenna/vessel-audit/internal/model"
)

// DashboardStats is the aggregate snapshot served by /api/dashboard.
type DashboardStats struct {
	TotalVessels       int            `json:"total_vessels"`
	TotalAudits        int            `json:"total_audits"`
	AuditsByStatus     map[string]int `json:"audits_by_status"`
	TotalFindings      int            `json:"total_findings"`
	FindingsByStatus   map[string]int `json:"findings_by_status"`
	FindingsByCategory map[string]int `json:"findings_by_category"`
	OverdueFindings    int            `json:"overdue_findings"`
	AuditsDueSoon      int            `json:"audits_due_soon"`
}

// DashboardRepo aggregates counts across the live (non-deleted) rows.
type DashboardRepo struct {
	db *sql.DB
}

func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{db: db} }

// Stats collects the dashboard aggregates in one pass of grouped queries.
// dueWithin bounds the "audits due soon" count.
func (r *DashboardRepo) Stats(ctx context.Context, today time.Time, dueWithin time.Duration) (*DashboardStats, error) {
	s := &DashboardStats{
		AuditsByStatus:     map[string]int{},
		FindingsByStatus:   map[string]int{},
		FindingsByCategory: map[string]int{},
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vessels`).Scan(&s.TotalVessels); err != nil {
		return nil, err
	}

	if err := r.groupCount(ctx,
		`SELECT status, COUNT(*) FROM audits WHERE deleted_at IS NULL GROUP BY status`,
		s.AuditsByStatus, &s.TotalAudits); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx,
		`SELECT status, COUNT(*) FROM findings WHERE deleted_at IS NULL GROUP BY status`,
		s.FindingsByStatus, &s.TotalFindings); err != nil {
		return nil, err
	}
	var discard int
	if err := r.groupCount(ctx,
		`SELECT category, COUNT(*) FROM findings WHERE deleted_at IS NULL GROUP BY category`,
		s.FindingsByCategory, &discard); err != nil {
		return nil, err
	}
	s.OverdueFindings = s.FindingsByStatus[model.FindingOverdue]

	until := today.Add(dueWithin)
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audits
		 WHERE deleted_at IS NULL AND next_due_date IS NOT NULL
		   AND next_due_date BETWEEN ? AND ? AND status NOT IN (?, ?)`,
		today, until, model.AuditCompleted, model.AuditClosed).Scan(&s.AuditsDueSoon); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *DashboardRepo) groupCount(ctx context.Context, q string, into map[string]int, total *int) error {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
		*total += n
	}
	return rows.Err()
}
