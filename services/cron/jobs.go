package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/mamosta-app/api/database"
	"github.com/mamosta-app/api/model"
	"github.com/mamosta-app/api/utils/auth"
	"gorm.io/gorm"
)

// ReconcileTeacherAggregates recomputes every teacher's avg_rating and
// total_reviews from the review rows. Aggregates are maintained inside each
// review transaction, so this normally changes nothing; it exists to repair
// drift after manual database surgery or a failed migration.
func (m *CronManager) ReconcileTeacherAggregates() {
	jobName := "reconcile_teacher_aggregates"

	var teacherIDs []uint
	if err := m.db.Model(&model.Teacher{}).Pluck("id", &teacherIDs).Error; err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to list teachers: %w", err))
		return
	}

	repaired := 0
	for _, id := range teacherIDs {
		err := m.db.Transaction(func(tx *gorm.DB) error {
			return database.RecomputeTeacherAggregates(tx, id)
		})
		if err != nil {
			m.logJobError(jobName, fmt.Errorf("teacher %d: %w", id, err))
			return
		}
		repaired++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Reconciled aggregates for %d teachers", repaired))
}

// CleanupTokenBlacklist removes blacklist entries whose tokens have expired
// anyway
func (m *CronManager) CleanupTokenBlacklist() {
	jobName := "cleanup_token_blacklist"

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	blacklist := auth.NewBlacklistService(m.db)
	if err := blacklist.CleanupExpiredTokens(ctx); err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, "Expired blacklist entries removed")
}

// TrimOldLogs enforces retention on audit and cron logs
func (m *CronManager) TrimOldLogs() {
	jobName := "trim_old_logs"

	auditCutoff := time.Now().AddDate(0, -6, 0)
	if err := m.db.Unscoped().
		Where("created_at < ?", auditCutoff).
		Delete(&model.AdminAuditLog{}).Error; err != nil {
		m.logJobError(jobName, fmt.Errorf("trim audit logs: %w", err))
		return
	}

	cronCutoff := time.Now().AddDate(0, -1, 0)
	if err := m.db.Unscoped().
		Where("created_at < ?", cronCutoff).
		Delete(&model.CronJobLog{}).Error; err != nil {
		m.logJobError(jobName, fmt.Errorf("trim cron logs: %w", err))
		return
	}

	m.logJobComplete(jobName, "Old audit and cron logs trimmed")
}
