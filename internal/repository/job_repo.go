package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/jobnest/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobQuery filters catalog listings. Zero values mean "any".
type JobQuery struct {
	Status   domain.JobStatus
	SourceID string
	Search   string
	Limit    int
	Offset   int
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// JobRepository is the job catalog.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// FindBySourceAndExternalID looks up a posting by its natural key.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - sourceID: provider key.
//   - externalID: provider-assigned identifier.
// Returns:
//   - *domain.JobPosting: the posting if found.
//   - error: gorm.ErrRecordNotFound when absent, other errors on failure.
func (r *JobRepository) FindBySourceAndExternalID(ctx context.Context, sourceID, externalID string) (*domain.JobPosting, error) {
	var job domain.JobPosting
	if err := r.db.WithContext(ctx).
		First(&job, "source_id = ? AND external_id = ?", sourceID, externalID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Create inserts a posting unless one with the same (source_id, external_id)
// already exists.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - job: posting to insert; ID and Status are filled in when empty.
// Returns:
//   - bool: true if a row was inserted, false if the key was already taken.
//   - error: non-nil if the insert fails.
func (r *JobRepository) Create(ctx context.Context, job *domain.JobPosting) (bool, error) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = domain.JobStatusNew
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_id"}, {Name: "external_id"}},
		DoNothing: true,
	}).Create(job)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Update overwrites the mutable columns of job that differ from fields.
// Status is never touched. job is updated in place.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - job: stored posting.
//   - fields: freshly fetched values.
// Returns:
//   - bool: true if at least one column changed.
//   - error: non-nil if the update fails.
func (r *JobRepository) Update(ctx context.Context, job *domain.JobPosting, fields domain.JobFields) (bool, error) {
	updates := diffFields(job, fields)
	if len(updates) == 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Model(job).Updates(updates).Error; err != nil {
		return false, err
	}
	return true, nil
}

// diffFields applies changed fields to job and returns the column updates.
func diffFields(job *domain.JobPosting, f domain.JobFields) map[string]interface{} {
	updates := map[string]interface{}{}
	setString := func(col string, cur *string, next string) {
		if *cur != next {
			*cur = next
			updates[col] = next
		}
	}
	setString("title", &job.Title, f.Title)
	setString("company_name", &job.CompanyName, f.CompanyName)
	setString("location", &job.Location, f.Location)
	setString("url", &job.URL, f.URL)
	setString("description", &job.Description, f.Description)

	if job.RemoteType != f.RemoteType {
		job.RemoteType = f.RemoteType
		updates["remote_type"] = f.RemoteType
	}
	if job.EmploymentType != f.EmploymentType {
		job.EmploymentType = f.EmploymentType
		updates["employment_type"] = f.EmploymentType
	}
	if !sameTime(job.PostedAt, f.PostedAt) {
		job.PostedAt = f.PostedAt
		updates["posted_at"] = f.PostedAt
	}
	if !sameJSON(job.RawPayload, f.RawPayload) {
		job.RawPayload = f.RawPayload
		updates["raw_payload"] = f.RawPayload
	}
	return updates
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// sameJSON compares JSON values, not bytes: jsonb reorders keys and drops whitespace.
func sameJSON(a, b datatypes.JSON) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	var av, bv interface{}
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return bytes.Equal(a, b)
	}
	return reflect.DeepEqual(av, bv)
}

// GetByID retrieves a posting by its ID.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.JobPosting, error) {
	var job domain.JobPosting
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns postings matching q, newest first, and the total match count.
func (r *JobRepository) List(ctx context.Context, q JobQuery) ([]domain.JobPosting, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.JobPosting{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.SourceID != "" {
		query = query.Where("source_id = ?", q.SourceID)
	}
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		like := "%" + s + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(location) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var jobs []domain.JobPosting
	if err := query.
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Offset(q.Offset).
		Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// UpdateStatus moves a posting through the user workflow.
func (r *JobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) (*domain.JobPosting, error) {
	if _, ok := domain.ParseJobStatus(string(status)); !ok {
		return nil, domain.ErrInvalidStatus
	}
	res := r.db.WithContext(ctx).Model(&domain.JobPosting{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// CountBySource returns how many postings a source has in the catalog.
func (r *JobRepository) CountBySource(ctx context.Context, sourceID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.JobPosting{}).
		Where("source_id = ?", sourceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
