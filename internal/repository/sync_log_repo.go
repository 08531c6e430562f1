package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/jobnest/internal/domain"
	"gorm.io/gorm"
)

// SyncLogRepository persists one audit record per (user, source) sync run.
type SyncLogRepository struct {
	db *gorm.DB
}

// NewSyncLogRepository creates a new SyncLogRepository.
func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// Open inserts a log entry in status success with zero counters.
func (r *SyncLogRepository) Open(ctx context.Context, sourceID, userID string, startedAt time.Time) (*domain.SyncLog, error) {
	entry := &domain.SyncLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		SourceID:  sourceID,
		StartedAt: startedAt,
		Status:    domain.SyncStatusSuccess,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Finalize writes the outcome of a run. The error message is truncated to
// domain.MaxSyncErrorLength runes.
func (r *SyncLogRepository) Finalize(ctx context.Context, entry *domain.SyncLog, res domain.SyncResult) error {
	ended := res.EndedAt
	entry.Status = res.Status
	entry.EndedAt = &ended
	entry.RuntimeMs = res.RuntimeMs
	entry.JobsFetched = res.JobsFetched
	entry.JobsCreated = res.JobsCreated
	entry.JobsUpdated = res.JobsUpdated
	entry.ErrorMessage = domain.TruncateError(res.ErrorMessage)

	return r.db.WithContext(ctx).Model(entry).Updates(map[string]interface{}{
		"status":        entry.Status,
		"ended_at":      entry.EndedAt,
		"runtime_ms":    entry.RuntimeMs,
		"jobs_fetched":  entry.JobsFetched,
		"jobs_created":  entry.JobsCreated,
		"jobs_updated":  entry.JobsUpdated,
		"error_message": entry.ErrorMessage,
	}).Error
}

// ListByUser returns a user's most recent sync logs, newest first.
func (r *SyncLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.SyncLog, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	var logs []domain.SyncLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Order("source_id").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
