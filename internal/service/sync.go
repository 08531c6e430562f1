package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/filter"
	"github.com/timmy/jobnest/internal/logger"
	"github.com/timmy/jobnest/internal/source"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobStore is the part of the job catalog the orchestrator writes to.
type JobStore interface {
	FindBySourceAndExternalID(ctx context.Context, sourceID, externalID string) (*domain.JobPosting, error)
	Create(ctx context.Context, job *domain.JobPosting) (bool, error)
	Update(ctx context.Context, job *domain.JobPosting, fields domain.JobFields) (bool, error)
}

// SyncLogStore records one audit entry per (user, source) run.
type SyncLogStore interface {
	Open(ctx context.Context, sourceID, userID string, startedAt time.Time) (*domain.SyncLog, error)
	Finalize(ctx context.Context, entry *domain.SyncLog, res domain.SyncResult) error
}

// SourceStore lists providers and stamps successful syncs.
type SourceStore interface {
	ListEnabled(ctx context.Context, allow []string) ([]domain.JobSource, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
}

// UserStore loads the user whose preferences drive a sync.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// RawArchive receives the raw provider payloads of a run. storage.ObjectStorage satisfies it.
type RawArchive interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// SyncConfig holds orchestrator settings.
type SyncConfig struct {
	AllowedSources []string
	Country        string
}

// SyncService pulls jobs from every enabled provider for one user and
// reconciles them with the catalog.
type SyncService struct {
	users   UserStore
	sources SourceStore
	jobs    JobStore
	logs    SyncLogStore
	clients map[string]source.Client
	archive RawArchive
	allow   []string
	country string
	now     func() time.Time
	logger  *logger.Logger
}

// NewSyncService creates a SyncService. archive may be nil.
func NewSyncService(
	users UserStore,
	sources SourceStore,
	jobs JobStore,
	logs SyncLogStore,
	clients []source.Client,
	archive RawArchive,
	log *logger.Logger,
	cfg *SyncConfig,
) *SyncService {
	byKey := make(map[string]source.Client, len(clients))
	for _, c := range clients {
		byKey[c.Key()] = c
	}
	return &SyncService{
		users:   users,
		sources: sources,
		jobs:    jobs,
		logs:    logs,
		clients: byKey,
		archive: archive,
		allow:   cfg.AllowedSources,
		country: cfg.Country,
		now:     time.Now,
		logger:  log,
	}
}

func (s *SyncService) log(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx)
}

// RunSync synchronizes every enabled source for userID. A missing user is a
// no-op. Per-source failures are recorded in that source's sync log and do
// not stop the other sources; only failing to load the user or the source
// list is returned as an error.
func (s *SyncService) RunSync(ctx context.Context, userID string) error {
	if s.logger != nil && logger.FromContext(ctx) == logger.GetDefault() {
		ctx = s.logger.WithContext(ctx)
	}
	ctx = logger.SetRunID(ctx, uuid.New().String())
	ctx = logger.SetUserID(ctx, userID)

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log(ctx).Warn("User not found, skipping sync")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	prefs := filter.FromUser(user)
	keywords := filter.KeywordsOrBlank(prefs)

	sources, err := s.sources.ListEnabled(ctx, s.allow)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	s.log(ctx).WithFields(logger.Fields{
		"keywords": keywords,
		"sources":  len(sources),
	}).Info("Starting sync")

	for _, src := range sources {
		client, ok := s.clients[src.ID]
		if !ok {
			s.log(ctx).WithField(logger.FieldSource, src.ID).Warn("No client configured for enabled source, skipping")
			continue
		}
		s.syncSource(logger.SetSource(ctx, src.ID), user.ID, client, keywords, prefs)
	}

	return nil
}

// sourceStats are the counters written to a sync log.
type sourceStats struct {
	fetched int
	created int
	updated int
}

func (s *SyncService) syncSource(ctx context.Context, userID string, client source.Client, keywords []string, prefs filter.Preferences) {
	started := s.now()
	entry, err := s.logs.Open(ctx, client.Key(), userID, started)
	if err != nil {
		s.log(ctx).WithError(err).Error("Failed to open sync log")
		return
	}

	stats, note, runErr := s.runSource(ctx, entry, client, keywords, prefs)

	// Bookkeeping must land even when the run was cancelled.
	finCtx := context.WithoutCancel(ctx)
	ended := s.now()
	res := domain.SyncResult{
		Status:       domain.SyncStatusSuccess,
		EndedAt:      ended,
		RuntimeMs:    ended.Sub(started).Milliseconds(),
		JobsFetched:  stats.fetched,
		JobsCreated:  stats.created,
		JobsUpdated:  stats.updated,
		ErrorMessage: note,
	}
	if runErr != nil {
		res.Status = domain.SyncStatusFailed
		res.ErrorMessage = runErr.Error()
	} else if err := s.sources.MarkSynced(finCtx, client.Key(), ended); err != nil {
		s.log(ctx).WithError(err).Warn("Failed to stamp last_synced_at")
	}

	if err := s.logs.Finalize(finCtx, entry, res); err != nil {
		s.log(ctx).WithError(err).Error("Failed to finalize sync log")
	}

	logger.With(logger.Fields{
		"created": stats.created,
		"updated": stats.updated,
	}).WithCount(stats.fetched).
		WithDuration(res.RuntimeMs).
		WithStatus(string(res.Status)).
		Info(ctx, "Source sync finished")
}

// runSource is the fetch, filter, dedup and reconcile phase for one source.
// The returned note describes non-fatal provider outcomes.
func (s *SyncService) runSource(ctx context.Context, entry *domain.SyncLog, client source.Client, keywords []string, prefs filter.Preferences) (sourceStats, string, error) {
	var stats sourceStats

	bucket, notes, err := s.fetch(ctx, client, keywords, prefs)
	if err != nil {
		return stats, "", err
	}
	stats.fetched = len(bucket.order)

	if s.archive != nil && len(bucket.order) > 0 {
		s.archiveRaw(ctx, entry, client.Key(), bucket)
	}

	for _, key := range bucket.order {
		job := bucket.jobs[key]
		created, updated, err := s.reconcile(ctx, client.Key(), job)
		if err != nil {
			return stats, "", fmt.Errorf("failed to store %s/%s: %w", client.Key(), job.ExternalID, err)
		}
		if created {
			stats.created++
		}
		if updated {
			stats.updated++
		}
	}

	return stats, strings.Join(notes, "; "), nil
}

// dedupKey identifies one catalog entry.
type dedupKey struct {
	sourceID   string
	externalID string
}

// dedupBucket holds the records of one run. A later record with the same key
// replaces the earlier one; order keeps first-seen order for processing.
type dedupBucket struct {
	jobs  map[dedupKey]source.NormalizedJob
	order []dedupKey
}

func newDedupBucket() *dedupBucket {
	return &dedupBucket{jobs: make(map[dedupKey]source.NormalizedJob)}
}

func (b *dedupBucket) put(key dedupKey, job source.NormalizedJob) {
	if _, seen := b.jobs[key]; !seen {
		b.order = append(b.order, key)
	}
	b.jobs[key] = job
}

func (s *SyncService) fetch(ctx context.Context, client source.Client, keywords []string, prefs filter.Preferences) (*dedupBucket, []string, error) {
	bucket := newDedupBucket()
	var notes []string

	for _, kw := range keywords {
		res, err := client.Search(ctx, source.SearchOptions{Query: kw, Page: 1, Country: s.country})
		if err != nil {
			return nil, nil, fmt.Errorf("search %q failed: %w", kw, err)
		}

		kwLog := s.log(ctx).WithField(logger.FieldKeyword, kw)
		switch res.Outcome {
		case source.OutcomeRateLimited, source.OutcomeAuthFailed:
			kwLog.WithField(logger.FieldStatus, res.Outcome).Warn("Provider refused request, skipping remaining keywords")
			notes = append(notes, outcomeNote(res))
			return bucket, notes, nil
		case source.OutcomeEmpty:
			kwLog.Debug("No results")
			continue
		}

		matched := filter.Apply(res.Jobs, kw, prefs)
		kwLog.WithFields(logger.Fields{
			"received": len(res.Jobs),
			"matched":  len(matched),
		}).Debug("Keyword fetched")

		for _, job := range matched {
			if !job.Usable() {
				continue
			}
			bucket.put(dedupKey{sourceID: client.Key(), externalID: job.ExternalID}, job)
		}
	}

	return bucket, notes, nil
}

func outcomeNote(res source.FetchResult) string {
	if res.Detail == "" {
		return string(res.Outcome)
	}
	return string(res.Outcome) + ": " + res.Detail
}

// reconcile creates or updates one catalog entry.
func (s *SyncService) reconcile(ctx context.Context, sourceID string, job source.NormalizedJob) (created, updated bool, err error) {
	fields := toFields(job)

	existing, err := s.jobs.FindBySourceAndExternalID(ctx, sourceID, job.ExternalID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, false, err
	}

	if existing == nil {
		posting := &domain.JobPosting{
			SourceID:       sourceID,
			ExternalID:     job.ExternalID,
			Status:         domain.JobStatusNew,
			Title:          fields.Title,
			CompanyName:    fields.CompanyName,
			Location:       fields.Location,
			RemoteType:     fields.RemoteType,
			EmploymentType: fields.EmploymentType,
			URL:            fields.URL,
			Description:    fields.Description,
			PostedAt:       fields.PostedAt,
			RawPayload:     fields.RawPayload,
		}
		inserted, err := s.jobs.Create(ctx, posting)
		if err != nil {
			return false, false, err
		}
		if inserted {
			return true, false, nil
		}
		// Another run created it between the lookup and the insert.
		existing, err = s.jobs.FindBySourceAndExternalID(ctx, sourceID, job.ExternalID)
		if err != nil {
			return false, false, err
		}
	}

	changed, err := s.jobs.Update(ctx, existing, fields)
	if err != nil {
		return false, false, err
	}
	return false, changed, nil
}

func toFields(job source.NormalizedJob) domain.JobFields {
	remote := job.RemoteType
	if remote == "" {
		remote = domain.RemoteTypeUnknown
	}
	employment := job.EmploymentType
	if employment == "" {
		employment = domain.EmploymentUnknown
	}
	var raw datatypes.JSON
	if len(job.RawPayload) > 0 {
		raw = datatypes.JSON(job.RawPayload)
	}
	return domain.JobFields{
		Title:          job.Title,
		CompanyName:    job.CompanyName,
		Location:       job.Location,
		RemoteType:     remote,
		EmploymentType: employment,
		URL:            job.URL,
		Description:    job.Description,
		PostedAt:       job.PostedAt,
		RawPayload:     raw,
	}
}

// ArchiveKey is the object key for the raw payloads of one sync log.
func ArchiveKey(sourceID string, startedAt time.Time, logID string) string {
	t := startedAt.UTC()
	return fmt.Sprintf("raw/%s/%04d/%02d/%02d/%s.jsonl", sourceID, t.Year(), int(t.Month()), t.Day(), logID)
}

// archiveRaw uploads the deduplicated payloads as JSON Lines. Failures are
// logged only.
func (s *SyncService) archiveRaw(ctx context.Context, entry *domain.SyncLog, sourceID string, bucket *dedupBucket) {
	var buf bytes.Buffer
	for _, key := range bucket.order {
		raw := bucket.jobs[key].RawPayload
		if len(raw) == 0 {
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			continue
		}
		buf.Write(compact.Bytes())
		buf.WriteByte('\n')
	}
	if buf.Len() == 0 {
		return
	}

	key := ArchiveKey(sourceID, entry.StartedAt, entry.ID)
	if err := s.archive.Upload(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "application/x-ndjson"); err != nil {
		s.log(ctx).WithError(err).WithField("key", key).Warn("Failed to archive raw payloads")
		return
	}
	logger.CtxDebug(ctx, "Archived %d bytes of raw payloads to %s", buf.Len(), key)
}
