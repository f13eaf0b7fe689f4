// Package reminder implements the daily notification run. It is executed
// by a separate binary (one run per invocation, driven by cron) and talks
// to the same database, redis and broker as the server.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rovenna/vessel-audit/internal/config"
	"github.com/rovenna/vessel-audit/internal/notify"
	"github.com/rovenna/vessel-audit/internal/queue"
	"github.com/rovenna/vessel-audit/internal/repository"
	"github.com/rovenna/vessel-audit/internal/utils"
)

// Job is one reminder run. Redis is optional: without it the run loses
// the run lock and per-recipient dedup but still executes, so a missing
// cache never silences notifications entirely.
type Job struct {
	Cfg      config.Config
	Findings *repository.FindingRepo
	Audits   *repository.AuditRepo
	Rdb      *redis.Client
	Pub      *notify.Publisher
	Log      *zap.Logger
}

const (
	runLockTTL = 23 * time.Hour
	dedupTTL   = 48 * time.Hour
)

// Run executes the four phases of the daily job: the overdue sweep,
// audit due-soon reminders, finding target-date reminders and overdue
// finding reminders. A phase failure is logged and the next phase still
// runs. Run is idempotent within a day: the run lock stops concurrent
// executions and dedup markers stop repeat email for the same subject.
func (j *Job) Run(ctx context.Context) error {
	today := utils.Today()
	day := today.Format("2006-01-02")

	if j.Rdb != nil {
		ok, err := j.Rdb.SetNX(ctx, "reminder:run:"+day, 1, runLockTTL).Result()
		if err != nil {
			j.Log.Warn("run lock unavailable, continuing without it", zap.Error(err))
		} else if !ok {
			j.Log.Info("reminder run already executed today, skipping", zap.String("day", day))
			return nil
		}
	}

	n, err := j.Findings.SweepOverdue(ctx, today)
	if err != nil {
		j.Log.Error("overdue sweep failed", zap.Error(err))
	} else if n > 0 {
		j.Log.Info("findings marked overdue", zap.Int64("count", n))
	}

	j.auditsDueSoon(ctx, today, day)
	j.findingsDueSoon(ctx, today, day)
	j.findingsOverdue(ctx, today, day)
	return nil
}

// shouldNotify claims the dedup marker for one notification subject.
// Redis errors fail open: better a duplicate mail than none.
func (j *Job) shouldNotify(ctx context.Context, kind string, id uint64, day string) bool {
	if j.Rdb == nil {
		return true
	}
	key := fmt.Sprintf("notified:%s:%d:%s", kind, id, day)
	ok, err := j.Rdb.SetNX(ctx, key, 1, dedupTTL).Result()
	if err != nil {
		j.Log.Warn("dedup marker unavailable", zap.String("key", key), zap.Error(err))
		return true
	}
	return ok
}

func (j *Job) auditsDueSoon(ctx context.Context, today time.Time, day string) {
	to := today.AddDate(0, 0, j.Cfg.AuditDueSoonDays)
	audits, err := j.Audits.ListDueSoon(ctx, today, to)
	if err != nil {
		j.Log.Error("due-soon audit query failed", zap.Error(err))
		return
	}
	for _, a := range audits {
		if !j.shouldNotify(ctx, queue.TypeAuditDueSoon, a.ID, day) {
			continue
		}
		ev := queue.NotificationEvent{
			Type:        queue.TypeAuditDueSoon,
			Recipient:   j.Cfg.AdminEmail,
			Reference:   a.Reference,
			VesselName:  a.VesselName,
			DueDate:     a.NextDueDate.Format("2006-01-02"),
			GeneratedAt: day,
		}
		if err := j.Pub.Publish(ctx, ev); err != nil {
			j.Log.Error("due-soon audit publish failed", zap.Uint64("audit_id", a.ID), zap.Error(err))
		}
	}
	j.Log.Info("audit due-soon phase done", zap.Int("candidates", len(audits)))
}

func (j *Job) findingsDueSoon(ctx context.Context, today time.Time, day string) {
	target := today.AddDate(0, 0, j.Cfg.FindingLeadDays)
	findings, err := j.Findings.ListTargetOn(ctx, target)
	if err != nil {
		j.Log.Error("due-soon finding query failed", zap.Error(err))
		return
	}
	for _, f := range findings {
		if !j.shouldNotify(ctx, queue.TypeFindingDueSoon, f.ID, day) {
			continue
		}
		ev := queue.NotificationEvent{
			Type:        queue.TypeFindingDueSoon,
			Recipient:   f.CreatorEmail,
			Reference:   f.AuditReference,
			Description: f.Description,
			DueDate:     f.TargetDate.Format("2006-01-02"),
			GeneratedAt: day,
		}
		if err := j.Pub.Publish(ctx, ev); err != nil {
			j.Log.Error("due-soon finding publish failed", zap.Uint64("finding_id", f.ID), zap.Error(err))
		}
	}
	j.Log.Info("finding due-soon phase done", zap.Int("candidates", len(findings)))
}

func (j *Job) findingsOverdue(ctx context.Context, today time.Time, day string) {
	findings, err := j.Findings.ListOverdue(ctx, today)
	if err != nil {
		j.Log.Error("overdue finding query failed", zap.Error(err))
		return
	}
	for _, f := range findings {
		if !j.shouldNotify(ctx, queue.TypeFindingOverdue, f.ID, day) {
			continue
		}
		ev := queue.NotificationEvent{
			Type:        queue.TypeFindingOverdue,
			Recipient:   j.Cfg.AdminEmail,
			Reference:   f.AuditReference,
			Description: f.Description,
			DueDate:     f.TargetDate.Format("2006-01-02"),
			GeneratedAt: day,
		}
		if err := j.Pub.Publish(ctx, ev); err != nil {
			j.Log.Error("overdue finding publish failed", zap.Uint64("finding_id", f.ID), zap.Error(err))
		}
	}
	j.Log.Info("finding overdue phase done", zap.Int("candidates", len(findings)))
}
