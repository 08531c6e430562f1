// Package filter narrows provider records down to what a user asked for.
package filter

import (
	"strings"

	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/source"
)

// Preferences is the part of a user profile that drives filtering.
type Preferences struct {
	Keywords []string
	Location string
	JobType  string
}

// FromUser extracts filter preferences from a user record.
func FromUser(u *domain.User) Preferences {
	return Preferences{
		Keywords: []string(u.PreferredKeywords),
		Location: u.PreferredLocation,
		JobType:  u.PreferredJobType,
	}
}

// KeywordsOrBlank returns the keywords to query with. An empty preference
// yields a single blank keyword so the provider still gets one unfiltered query.
func KeywordsOrBlank(p Preferences) []string {
	if len(p.Keywords) == 0 {
		return []string{""}
	}
	return p.Keywords
}

// Apply returns the records that match keyword, location and job type.
// The input slice is not modified and the output keeps input order.
func Apply(records []source.NormalizedJob, keyword string, prefs Preferences) []source.NormalizedJob {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	loc := strings.ToLower(strings.TrimSpace(prefs.Location))
	jobType := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(prefs.JobType)), "-", "_")

	out := make([]source.NormalizedJob, 0, len(records))
	for _, r := range records {
		if matchKeyword(r, kw) && matchLocation(r, loc) && matchJobType(r, jobType) {
			out = append(out, r)
		}
	}
	return out
}

func matchKeyword(r source.NormalizedJob, kw string) bool {
	if kw == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{r.Title, r.CompanyName, r.Location, r.Description}, " "))
	return strings.Contains(haystack, kw)
}

func matchLocation(r source.NormalizedJob, loc string) bool {
	if loc == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Location), loc) {
		return true
	}
	return loc == string(domain.RemoteTypeRemote) && r.RemoteType == domain.RemoteTypeRemote
}

func matchJobType(r source.NormalizedJob, jobType string) bool {
	if jobType == "" || jobType == domain.JobTypePrefAny {
		return true
	}
	return strings.Contains(string(r.EmploymentType), jobType)
}
