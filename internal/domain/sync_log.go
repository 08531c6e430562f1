package domain

import "time"

// SyncStatus is the outcome of one (user, source) sync run.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusFailed  SyncStatus = "failed"
)

// MaxSyncErrorLength caps SyncLog.ErrorMessage, counted in runes.
const MaxSyncErrorLength = 1000

// SyncLog records one orchestrator run against one source.
// It is opened optimistically as success and finalized exactly once.
type SyncLog struct {
	ID           string     `gorm:"type:text;primaryKey" json:"id"`
	UserID       string     `gorm:"type:text;not null;index:idx_sync_logs_user" json:"user_id"`
	SourceID     string     `gorm:"type:text;not null;index:idx_sync_logs_source" json:"source_id"`
	StartedAt    time.Time  `gorm:"not null" json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	RuntimeMs    int64      `gorm:"default:0" json:"runtime_ms"`
	Status       SyncStatus `gorm:"type:text;default:success" json:"status"`
	JobsFetched  int        `gorm:"default:0" json:"jobs_fetched"`
	JobsCreated  int        `gorm:"default:0" json:"jobs_created"`
	JobsUpdated  int        `gorm:"default:0" json:"jobs_updated"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName returns the database table name for SyncLog.
func (SyncLog) TableName() string {
	return "sync_logs"
}

// SyncResult carries the values written when a SyncLog is finalized.
type SyncResult struct {
	Status       SyncStatus
	EndedAt      time.Time
	RuntimeMs    int64
	JobsFetched  int
	JobsCreated  int
	JobsUpdated  int
	ErrorMessage string
}

// TruncateError shortens msg to MaxSyncErrorLength runes.
func TruncateError(msg string) string {
	r := []rune(msg)
	if len(r) <= MaxSyncErrorLength {
		return msg
	}
	return string(r[:MaxSyncErrorLength])
}
