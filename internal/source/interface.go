package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/timmy/jobnest/internal/domain"
)

// NormalizedJob is a provider listing reshaped into the common schema.
type NormalizedJob struct {
	ExternalID     string
	Title          string
	CompanyName    string
	Location       string
	Description    string
	URL            string
	RemoteType     domain.RemoteType
	EmploymentType domain.EmploymentType
	PostedAt       *time.Time
	RawPayload     json.RawMessage // provider item as received; never destructured after mapping
}

// Usable reports whether the record can be stored in the catalog.
func (j NormalizedJob) Usable() bool {
	return j.ExternalID != "" && j.Title != ""
}

// SearchOptions are the inputs a provider query accepts. Providers ignore
// what they do not support.
type SearchOptions struct {
	Query   string
	Page    int
	Country string
}

// Outcome classifies a provider response.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeEmpty       Outcome = "empty"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeAuthFailed  Outcome = "auth_failed"
)

// FetchResult is what every Client returns: records for OutcomeOK, nothing otherwise.
// Detail is a short human-readable reason for the non-OK outcomes.
type FetchResult struct {
	Outcome Outcome
	Jobs    []NormalizedJob
	Detail  string
}

// OK wraps jobs, collapsing an empty list to OutcomeEmpty.
func OK(jobs []NormalizedJob) FetchResult {
	if len(jobs) == 0 {
		return FetchResult{Outcome: OutcomeEmpty}
	}
	return FetchResult{Outcome: OutcomeOK, Jobs: jobs}
}

// Empty reports that the provider gave no usable data: no results, a
// transport failure, a non-2xx status or a malformed body.
func Empty(detail string) FetchResult {
	return FetchResult{Outcome: OutcomeEmpty, Detail: detail}
}

func RateLimited(detail string) FetchResult {
	return FetchResult{Outcome: OutcomeRateLimited, Detail: detail}
}

func AuthFailed(detail string) FetchResult {
	return FetchResult{Outcome: OutcomeAuthFailed, Detail: detail}
}

// Client fetches one external job-listing API.
type Client interface {
	// Key returns the provider key, which is also the JobSource ID.
	Key() string

	// DisplayName returns a human-readable provider name.
	DisplayName() string

	// Search runs one provider query. Provider-side problems are reported
	// through FetchResult.Outcome; the error is reserved for faults the
	// client cannot classify, such as a cancelled context.
	Search(ctx context.Context, opts SearchOptions) (FetchResult, error)
}
