package domain

import "time"

// Known provider keys. A JobSource's ID is its provider key.
const (
	SourceArbeitnow = "arbeitnow"
	SourceRemotive  = "remotive"
	SourceJSearch   = "jsearch"
)

// JobSource is a third-party job listing provider known to the catalog.
type JobSource struct {
	ID           string     `gorm:"type:text;primaryKey" json:"id"`
	Name         string     `gorm:"type:text;not null" json:"name"`
	BaseURL      string     `gorm:"type:text" json:"base_url"`
	IsEnabled    bool       `gorm:"not null;default:false" json:"is_enabled"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName returns the database table name for JobSource.
func (JobSource) TableName() string {
	return "job_sources"
}
