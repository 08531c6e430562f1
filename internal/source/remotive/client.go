// Package remotive reads the public Remotive remote-jobs API.
package remotive

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/logger"
	"github.com/timmy/jobnest/internal/source"
)

const (
	SourceID   = domain.SourceRemotive
	SourceName = "Remotive"

	searchPath   = "/api/remote-jobs"
	defaultLimit = 100
)

// Client implements source.Client for Remotive. No authentication.
type Client struct {
	http  *resty.Client
	limit int
	now   func() time.Time
}

// NewClient creates a Remotive client. limit caps results per query; zero uses the default.
func NewClient(cfg source.HTTPConfig, limit int) *Client {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Client{
		http:  source.NewHTTPClient(cfg),
		limit: limit,
		now:   time.Now,
	}
}

func (c *Client) Key() string         { return SourceID }
func (c *Client) DisplayName() string { return SourceName }

type response struct {
	Jobs []json.RawMessage `json:"jobs"`
}

type listing struct {
	ID                        int64    `json:"id"`
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	Category                  string   `json:"category"`
	Tags                      []string `json:"tags"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	Description               string   `json:"description"`
}

// Search queries remote jobs matching opts.Query.
func (c *Client) Search(ctx context.Context, opts source.SearchOptions) (source.FetchResult, error) {
	params := map[string]string{"limit": strconv.Itoa(c.limit)}
	if q := strings.TrimSpace(opts.Query); q != "" {
		params["search"] = q
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(searchPath)
	if err != nil {
		if ctx.Err() != nil {
			return source.FetchResult{}, ctx.Err()
		}
		logger.FromContext(ctx).WithError(err).Warn("Remotive request failed")
		return source.Empty(err.Error()), nil
	}

	if !resp.IsSuccess() {
		logger.FromContext(ctx).WithField(logger.FieldStatus, resp.StatusCode()).Warn("Remotive returned non-success status")
		return source.Empty(fmt.Sprintf("status %d", resp.StatusCode())), nil
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Remotive returned malformed body")
		return source.Empty("malformed body"), nil
	}

	jobs := make([]source.NormalizedJob, 0, len(body.Jobs))
	for _, raw := range body.Jobs {
		var l listing
		if err := json.Unmarshal(raw, &l); err != nil {
			continue
		}
		jobs = append(jobs, c.normalize(l, raw))
	}

	return source.OK(source.KeepUsable(jobs)), nil
}

func (c *Client) normalize(l listing, raw json.RawMessage) source.NormalizedJob {
	title := strings.TrimSpace(l.Title)
	company := strings.TrimSpace(l.CompanyName)
	location := strings.TrimSpace(l.CandidateRequiredLocation)

	externalID := ""
	if l.ID > 0 {
		externalID = strconv.FormatInt(l.ID, 10)
	} else if title != "" {
		externalID = source.SyntheticID(title, company, l.URL)
	}

	// Every Remotive listing is remote unless its location says otherwise.
	remote := source.ClassifyRemote(location)
	if remote == domain.RemoteTypeUnknown {
		remote = domain.RemoteTypeRemote
	}

	return source.NormalizedJob{
		ExternalID:     externalID,
		Title:          title,
		CompanyName:    company,
		Location:       location,
		Description:    l.Description,
		URL:            l.URL,
		RemoteType:     remote,
		EmploymentType: source.ClassifyEmployment(l.JobType),
		PostedAt:       source.ParseDate(l.PublicationDate, c.now()),
		RawPayload:     raw,
	}
}
