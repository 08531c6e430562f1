package repository

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/jobnest/internal/domain"
)

func TestSyncLogRepository_OpenFinalize(t *testing.T) {
	ctx := context.Background()
	repo := NewSyncLogRepository(newTestDB(t))

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	entry, err := repo.Open(ctx, "arbeitnow", "user-1", start)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusSuccess, entry.Status)
	assert.Nil(t, entry.EndedAt)

	err = repo.Finalize(ctx, entry, domain.SyncResult{
		Status:       domain.SyncStatusFailed,
		EndedAt:      start.Add(1500 * time.Millisecond),
		RuntimeMs:    1500,
		JobsFetched:  3,
		JobsCreated:  2,
		JobsUpdated:  1,
		ErrorMessage: strings.Repeat("é", 1200),
	})
	require.NoError(t, err)

	logs, err := repo.ListByUser(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	got := logs[0]
	assert.Equal(t, domain.SyncStatusFailed, got.Status)
	require.NotNil(t, got.EndedAt)
	assert.True(t, got.EndedAt.Equal(start.Add(1500*time.Millisecond)))
	assert.EqualValues(t, 1500, got.RuntimeMs)
	assert.Equal(t, 3, got.JobsFetched)
	assert.Equal(t, 2, got.JobsCreated)
	assert.Equal(t, 1, got.JobsUpdated)
	assert.Equal(t, domain.MaxSyncErrorLength, utf8.RuneCountInString(got.ErrorMessage))
}

func TestSyncLogRepository_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewSyncLogRepository(newTestDB(t))

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Open(ctx, "remotive", "user-1", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	_, err := repo.Open(ctx, "remotive", "user-2", base)
	require.NoError(t, err)

	logs, err := repo.ListByUser(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].StartedAt.After(logs[1].StartedAt))
}
