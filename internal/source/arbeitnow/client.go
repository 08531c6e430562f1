// Package arbeitnow reads the public Arbeitnow job board API.
package arbeitnow

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
	SourceID   = domain.SourceArbeitnow
	SourceName = "Arbeitnow"

	searchPath = "/api/job-board-api"
)

// Client implements source.Client for Arbeitnow. No authentication.
// Every provider problem degrades to an empty result.
type Client struct {
	http *resty.Client
	now  func() time.Time
}

// NewClient creates an Arbeitnow client from transport configuration.
func NewClient(cfg source.HTTPConfig) *Client {
	return &Client{
		http: source.NewHTTPClient(cfg),
		now:  time.Now,
	}
}

func (c *Client) Key() string         { return SourceID }
func (c *Client) DisplayName() string { return SourceName }

type response struct {
	Data []json.RawMessage `json:"data"`
}

type listing struct {
	Slug        string          `json:"slug"`
	CompanyName string          `json:"company_name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Remote      bool            `json:"remote"`
	URL         string          `json:"url"`
	Tags        []string        `json:"tags"`
	JobTypes    []string        `json:"job_types"`
	Location    string          `json:"location"`
	CreatedAt   json.RawMessage `json:"created_at"`
}

// Search queries one page of the job board.
func (c *Client) Search(ctx context.Context, opts source.SearchOptions) (source.FetchResult, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	params := map[string]string{"page": strconv.Itoa(page)}
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
		logger.FromContext(ctx).WithError(err).Warn("Arbeitnow request failed")
		return source.Empty(err.Error()), nil
	}

	if !resp.IsSuccess() {
		logger.FromContext(ctx).WithField(logger.FieldStatus, resp.StatusCode()).Warn("Arbeitnow returned non-success status")
		return source.Empty(fmt.Sprintf("status %d", resp.StatusCode())), nil
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Arbeitnow returned malformed body")
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
	title := strings.TrimSpace(l.Title)
	company := strings.TrimSpace(l.CompanyName)

	externalID := strings.TrimSpace(l.Slug)
	if externalID == "" && title != "" {
		externalID = source.SyntheticID(title, company, l.URL)
	}

	remote := domain.RemoteTypeRemote
	if !l.Remote {
		remote = source.ClassifyRemote(append([]string{l.Location}, l.Tags...)...)
	}

	return source.NormalizedJob{
		ExternalID:     externalID,
		Title:          title,
		CompanyName:    company,
		Location:       strings.TrimSpace(l.Location),
		Description:    l.Description,
		URL:            l.URL,
		RemoteType:     remote,
		EmploymentType: source.ClassifyEmployment(l.JobTypes...),
		PostedAt:       source.ParseJSONDate(l.CreatedAt, c.now()),
		RawPayload:     raw,
	}
}
