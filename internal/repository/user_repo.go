package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/timmy/jobnest/internal/domain"
	"gorm.io/gorm"
)

// PreferencesUpdate carries new preference values. Nil fields are left unchanged.
type PreferencesUpdate struct {
	Keywords        *[]string
	Location        *string
	JobType         *string
	AutoSyncEnabled *bool
}

// UserRepository reads and writes the user profile fields sync depends on.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID returns gorm.ErrRecordNotFound when the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a user, normalizing keywords and defaulting the job type.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.PreferredKeywords = domain.NormalizeKeywords(user.PreferredKeywords)
	if user.PreferredJobType == "" {
		user.PreferredJobType = domain.JobTypePrefAny
	}
	if !domain.ValidJobTypePref(user.PreferredJobType) {
		return domain.ErrInvalidJobType
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdatePreferences applies upd and returns the stored user.
func (r *UserRepository) UpdatePreferences(ctx context.Context, id string, upd PreferencesUpdate) (*domain.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.Keywords != nil {
		user.PreferredKeywords = domain.NormalizeKeywords(*upd.Keywords)
		updates["preferred_keywords"] = user.PreferredKeywords
	}
	if upd.Location != nil {
		user.PreferredLocation = strings.TrimSpace(*upd.Location)
		updates["preferred_location"] = user.PreferredLocation
	}
	if upd.JobType != nil {
		jobType := strings.ToLower(strings.TrimSpace(*upd.JobType))
		if jobType == "" {
			jobType = domain.JobTypePrefAny
		}
		if !domain.ValidJobTypePref(jobType) {
			return nil, domain.ErrInvalidJobType
		}
		user.PreferredJobType = jobType
		updates["preferred_job_type"] = jobType
	}
	if upd.AutoSyncEnabled != nil {
		user.AutoSyncEnabled = *upd.AutoSyncEnabled
		updates["auto_sync_enabled"] = user.AutoSyncEnabled
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ListAutoSync returns the IDs of users who opted into periodic syncs.
func (r *UserRepository) ListAutoSync(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("auto_sync_enabled = ?", true).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
