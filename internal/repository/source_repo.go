package repository

import (
	"context"
	"time"

	"github.com/timmy/jobnest/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SourceRepository manages the known job providers.
type SourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new SourceRepository.
func NewSourceRepository(db *gorm.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// Ensure inserts missing sources and refreshes name and base URL of
// existing ones. Existing enable flags are preserved.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - sources: sources to register.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *SourceRepository) Ensure(ctx context.Context, sources []domain.JobSource) error {
	if len(sources) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "base_url", "updated_at"}),
	}).Create(&sources).Error
}

// ListEnabled returns enabled sources whose ID is in allow, ordered by ID.
// An empty allow-list matches nothing.
func (r *SourceRepository) ListEnabled(ctx context.Context, allow []string) ([]domain.JobSource, error) {
	if len(allow) == 0 {
		return []domain.JobSource{}, nil
	}
	var sources []domain.JobSource
	if err := r.db.WithContext(ctx).
		Where("is_enabled = ? AND id IN ?", true, allow).
		Order("id").
		Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

// List returns every known source ordered by ID.
func (r *SourceRepository) List(ctx context.Context) ([]domain.JobSource, error) {
	var sources []domain.JobSource
	if err := r.db.WithContext(ctx).Order("id").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

// MarkSynced stamps the time of the last successful sync.
func (r *SourceRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.JobSource{}).
		Where("id = ?", id).
		Update("last_synced_at", at).Error
}
