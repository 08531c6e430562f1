package domain

import (
	"sort"
	"strings"
	"time"
)

// Accepted values for User.PreferredJobType.
const (
	JobTypePrefFullTime   = "full-time"
	JobTypePrefContract   = "contract"
	JobTypePrefPartTime   = "part-time"
	JobTypePrefInternship = "internship"
	JobTypePrefAny        = "any"
)

// ValidJobTypePref reports whether s is an accepted preferred job type.
// The empty string is accepted and means the same as "any".
func ValidJobTypePref(s string) bool {
	switch s {
	case "", JobTypePrefFullTime, JobTypePrefContract, JobTypePrefPartTime, JobTypePrefInternship, JobTypePrefAny:
		return true
	}
	return false
}

// User is the subset of the account record the sync pipeline reads.
type User struct {
	ID                string      `gorm:"type:text;primaryKey" json:"id"`
	Email             string      `gorm:"type:text;not null;uniqueIndex:idx_users_email" json:"email"`
	Name              string      `gorm:"type:text" json:"name"`
	PreferredKeywords StringArray `gorm:"type:text" json:"preferred_keywords"`
	PreferredLocation string      `gorm:"type:text" json:"preferred_location"`
	PreferredJobType  string      `gorm:"type:text;default:any" json:"preferred_job_type"`
	AutoSyncEnabled   bool        `gorm:"not null;default:false;index:idx_users_auto_sync" json:"auto_sync_enabled"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string {
	return "users"
}

// NormalizeKeywords lower-cases, trims and deduplicates keywords.
// Empty entries are dropped and the result is sorted.
func NormalizeKeywords(in []string) StringArray {
	seen := make(map[string]struct{}, len(in))
	out := StringArray{}
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
