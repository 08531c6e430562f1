package jsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/source"
)

const fixture = `{
  "status": "OK",
  "request_id": "abc",
  "data": [
    {
      "job_id": "Zx9_-abc==",
      "job_title": "Backend Engineer (Hybrid)",
      "employer_name": "Globex",
      "job_city": "Austin",
      "job_state": "TX",
      "job_country": "US",
      "job_is_remote": false,
      "job_employment_type": "PARTTIME",
      "job_apply_link": "https://globex.example/jobs/1",
      "job_description": "APIs",
      "job_posted_at_timestamp": 1714552200,
      "job_posted_at_datetime_utc": "2024-05-01T08:30:00.000Z"
    },
    {
      "job_id": "",
      "job_title": "Data Engineer",
      "employer_name": "Umbrella",
      "job_location": "Anywhere",
      "job_is_remote": true,
      "job_employment_type": "FULLTIME",
      "job_apply_link": "https://umbrella.example/jobs/2",
      "job_posted_at_datetime_utc": "2024-05-02T10:00:00.000Z"
    }
  ]
}`

func newTestClient(t *testing.T, key string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		HTTP:    source.HTTPConfig{BaseURL: srv.URL, Timeout: 2 * time.Second},
		APIKey:  key,
		APIHost: "jsearch.p.rapidapi.com",
	})
}

func TestSearch_MapsJobs(t *testing.T) {
	c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(headerAPIKey))
		assert.Equal(t, "jsearch.p.rapidapi.com", r.Header.Get(headerAPIHost))
		q := r.URL.Query()
		assert.Equal(t, "backend", q.Get("query"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "1", q.Get("num_pages"))
		assert.Equal(t, "us", q.Get("country"))
		_, _ = w.Write([]byte(fixture))
	})

	res, err := c.Search(context.Background(), source.SearchOptions{Query: "backend"})
	require.NoError(t, err)
	assert.Equal(t, source.OutcomeOK, res.Outcome)
	require.Len(t, res.Jobs, 2)

	first := res.Jobs[0]
	assert.Equal(t, "Zx9_-abc==", first.ExternalID)
	assert.Equal(t, "Austin, TX, US", first.Location)
	assert.Equal(t, domain.RemoteTypeHybrid, first.RemoteType)
	assert.Equal(t, domain.EmploymentPartTime, first.EmploymentType)
	require.NotNil(t, first.PostedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), *first.PostedAt)

	second := res.Jobs[1]
	assert.Equal(t, source.SyntheticID("Data Engineer", "Umbrella", "https://umbrella.example/jobs/2"), second.ExternalID)
	assert.Equal(t, "Anywhere", second.Location)
	assert.Equal(t, domain.RemoteTypeRemote, second.RemoteType)
	assert.Equal(t, domain.EmploymentFullTime, second.EmploymentType)
	require.NotNil(t, second.PostedAt)
	assert.Equal(t, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC), *second.PostedAt)
}

func TestSearch_MissingKeySkipsNetwork(t *testing.T) {
	var calls int32
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	res, err := c.Search(context.Background(), source.SearchOptions{Query: "go"})
	require.NoError(t, err)
	assert.Equal(t, source.OutcomeAuthFailed, res.Outcome)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSearch_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   source.Outcome
	}{
		{http.StatusUnauthorized, source.OutcomeAuthFailed},
		{http.StatusForbidden, source.OutcomeAuthFailed},
		{http.StatusTooManyRequests, source.OutcomeRateLimited},
		{http.StatusInternalServerError, source.OutcomeEmpty},
		{http.StatusNotFound, source.OutcomeEmpty},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			res, err := c.Search(context.Background(), source.SearchOptions{Query: "go"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Empty(t, res.Jobs)
		})
	}
}

func TestSearch_BlankQueryUsesDefault(t *testing.T) {
	c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultQuery, r.URL.Query().Get("query"))
		assert.Equal(t, "de", r.URL.Query().Get("country"))
		_, _ = w.Write([]byte(`{"status":"OK","data":[]}`))
	})

	res, err := c.Search(context.Background(), source.SearchOptions{Country: "de"})
	require.NoError(t, err)
	assert.Equal(t, source.OutcomeEmpty, res.Outcome)
}
