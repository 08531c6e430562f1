// Package jsearch reads the JSearch aggregator API hosted on RapidAPI.
//
// Unlike the public boards, JSearch needs an API key and enforces quotas, so
// 401/403 map to source.OutcomeAuthFailed and 429 to source.OutcomeRateLimited.
package jsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/logger"
	"github.com/timmy/jobnest/internal/source"
)

const (
	SourceID   = domain.SourceJSearch
	SourceName = "JSearch"

	searchPath     = "/search"
	defaultQuery   = "jobs"
	defaultCountry = "us"

	headerAPIKey  = "X-RapidAPI-Key"
	headerAPIHost = "X-RapidAPI-Host"
)

// Config holds the RapidAPI credentials and defaults.
type Config struct {
	HTTP    source.HTTPConfig
	APIKey  string
	APIHost string
	Country string
}

// Client implements source.Client for JSearch.
type Client struct {
	http    *resty.Client
	hasKey  bool
	country string
	now     func() time.Time
}

// NewClient creates a JSearch client.
func NewClient(cfg Config) *Client {
	httpCfg := cfg.HTTP
	headers := make(map[string]string, len(httpCfg.Headers)+2)
	for k, v := range httpCfg.Headers {
		headers[k] = v
	}
	headers[headerAPIKey] = cfg.APIKey
	headers[headerAPIHost] = cfg.APIHost
	httpCfg.Headers = headers

	country := cfg.Country
	if country == "" {
		country = defaultCountry
	}

	return &Client{
		http:    source.NewHTTPClient(httpCfg),
		hasKey:  cfg.APIKey != "",
		country: country,
		now:     time.Now,
	}
}

func (c *Client) Key() string         { return SourceID }
func (c *Client) DisplayName() string { return SourceName }

type response struct {
	Status string            `json:"status"`
	Data   []json.RawMessage `json:"data"`
}

type listing struct {
	JobID                  string `json:"job_id"`
	JobTitle               string `json:"job_title"`
	EmployerName           string `json:"employer_name"`
	JobLocation            string `json:"job_location"`
	JobCity                string `json:"job_city"`
	JobState               string `json:"job_state"`
	JobCountry             string `json:"job_country"`
	JobIsRemote            bool   `json:"job_is_remote"`
	JobEmploymentType      string `json:"job_employment_type"`
	JobApplyLink           string `json:"job_apply_link"`
	JobDescription         string `json:"job_description"`
	JobPostedAtDatetimeUTC string `json:"job_posted_at_datetime_utc"`
	JobPostedAtTimestamp   int64  `json:"job_posted_at_timestamp"`
}

// Search runs one JSearch query.
func (c *Client) Search(ctx context.Context, opts source.SearchOptions) (source.FetchResult, error) {
	if !c.hasKey {
		return source.AuthFailed("api key not configured"), nil
	}

	query := strings.TrimSpace(opts.Query)
	if query == "" {
		query = defaultQuery
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	country := opts.Country
	if country == "" {
		country = c.country
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":     query,
			"page":      strconv.Itoa(page),
			"num_pages": "1",
			"country":   country,
		}).
		Get(searchPath)
	if err != nil {
		if ctx.Err() != nil {
			return source.FetchResult{}, ctx.Err()
		}
		logger.FromContext(ctx).WithError(err).Warn("JSearch request failed")
		return source.Empty(err.Error()), nil
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return source.AuthFailed(fmt.Sprintf("status %d", status)), nil
	case status == http.StatusTooManyRequests:
		return source.RateLimited(fmt.Sprintf("status %d", status)), nil
	case !resp.IsSuccess():
		logger.FromContext(ctx).WithField(logger.FieldStatus, status).Warn("JSearch returned non-success status")
		return source.Empty(fmt.Sprintf("status %d", status)), nil
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("JSearch returned malformed body")
		return source.Empty("malformed body"), nil
	}

	jobs := make([]source.NormalizedJob, 0, len(body.Data))
	for _, raw := range body.Data {
		var l listing
		if err := json.Unmarshal(raw, &l); err != nil {
			continue
		}
		jobs = append(jobs, c.normalize(l, raw))
	}

	return source.OK(source.KeepUsable(jobs)), nil
}

func (c *Client) normalize(l listing, raw json.RawMessage) source.NormalizedJob {
	title := strings.TrimSpace(l.JobTitle)
	company := strings.TrimSpace(l.EmployerName)

	location := strings.TrimSpace(l.JobLocation)
	if location == "" {
		location = joinNonEmpty(", ", l.JobCity, l.JobState, l.JobCountry)
	}

	externalID := strings.TrimSpace(l.JobID)
	if externalID == "" && title != "" {
		externalID = source.SyntheticID(title, company, l.JobApplyLink)
	}

	remote := domain.RemoteTypeRemote
	if !l.JobIsRemote {
		remote = source.ClassifyRemote(location, title)
	}

	postedAt := source.ParseUnix(l.JobPostedAtTimestamp)
	if postedAt == nil {
		postedAt = source.ParseDate(l.JobPostedAtDatetimeUTC, c.now())
	}

	return source.NormalizedJob{
		ExternalID:     externalID,
		Title:          title,
		CompanyName:    company,
		Location:       location,
		Description:    l.JobDescription,
		URL:            l.JobApplyLink,
		RemoteType:     remote,
		EmploymentType: source.ClassifyEmployment(l.JobEmploymentType),
		PostedAt:       postedAt,
		RawPayload:     raw,
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
