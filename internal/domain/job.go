package domain

import (
	"time"

	"gorm.io/datatypes"
)

// JobStatus is the user workflow state of a catalog entry.
// Sync only ever writes JobStatusNew, and only when the entry is created.
type JobStatus string

const (
	JobStatusNew      JobStatus = "new"
	JobStatusSaved    JobStatus = "saved"
	JobStatusApplied  JobStatus = "applied"
	JobStatusIgnored  JobStatus = "ignored"
	JobStatusArchived JobStatus = "archived"
)

// ParseJobStatus converts a raw string to a JobStatus.
func ParseJobStatus(s string) (JobStatus, bool) {
	st := JobStatus(s)
	switch st {
	case JobStatusNew, JobStatusSaved, JobStatusApplied, JobStatusIgnored, JobStatusArchived:
		return st, true
	}
	return "", false
}

// JobPosting is a canonical job in the catalog, identified by (SourceID, ExternalID).
type JobPosting struct {
	ID             string         `gorm:"type:text;primaryKey" json:"id"`
	SourceID       string         `gorm:"type:text;not null;uniqueIndex:idx_job_postings_source_external" json:"source_id"`
	ExternalID     string         `gorm:"type:text;not null;uniqueIndex:idx_job_postings_source_external" json:"external_id"`
	Title          string         `gorm:"type:text;not null" json:"title"`
	CompanyName    string         `gorm:"type:text" json:"company_name"`
	Location       string         `gorm:"type:text" json:"location"`
	RemoteType     RemoteType     `gorm:"type:text;default:unknown" json:"remote_type"`
	EmploymentType EmploymentType `gorm:"type:text;default:unknown" json:"employment_type"`
	URL            string         `gorm:"type:text" json:"url"`
	Description    string         `gorm:"type:text" json:"description"`
	PostedAt       *time.Time     `json:"posted_at,omitempty"`
	RawPayload     datatypes.JSON `json:"raw_payload,omitempty"`
	Status         JobStatus      `gorm:"type:text;index:idx_job_postings_status;default:new" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName returns the database table name for JobPosting.
func (JobPosting) TableName() string {
	return "job_postings"
}

// JobFields are the columns a sync run is allowed to overwrite.
type JobFields struct {
	Title          string
	CompanyName    string
	Location       string
	RemoteType     RemoteType
	EmploymentType EmploymentType
	URL            string
	Description    string
	PostedAt       *time.Time
	RawPayload     datatypes.JSON
}
