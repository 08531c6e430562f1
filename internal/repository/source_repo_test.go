package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/jobnest/internal/domain"
)

func TestSourceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSourceRepository(newTestDB(t))

	require.NoError(t, repo.Ensure(ctx, []domain.JobSource{
		{ID: domain.SourceArbeitnow, Name: "Arbeitnow", IsEnabled: true},
		{ID: domain.SourceRemotive, Name: "Remotive", IsEnabled: true},
		{ID: domain.SourceJSearch, Name: "JSearch", IsEnabled: false},
	}))

	// Re-seeding keeps the stored enable flag but refreshes the name.
	require.NoError(t, repo.Ensure(ctx, []domain.JobSource{
		{ID: domain.SourceJSearch, Name: "JSearch (RapidAPI)", IsEnabled: true},
	}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "JSearch (RapidAPI)", all[1].Name)
	assert.False(t, all[1].IsEnabled)

	enabled, err := repo.ListEnabled(ctx, []string{domain.SourceRemotive, domain.SourceJSearch})
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, domain.SourceRemotive, enabled[0].ID)

	none, err := repo.ListEnabled(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkSynced(ctx, domain.SourceRemotive, at))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, all[2].LastSyncedAt)
	assert.True(t, all[2].LastSyncedAt.Equal(at))
	assert.Nil(t, all[0].LastSyncedAt)
}
