package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/jobnest/internal/config"
	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database = config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "db", "jobnest.db"),
		AutoMigrate: true,
		LogLevel:    "silent",
	}
	cfg.Sync.AllowedSources = []string{domain.SourceArbeitnow, domain.SourceRemotive}
	cfg.Sources.Arbeitnow = config.ProviderConfig{Enabled: true, BaseURL: "https://www.arbeitnow.com"}
	cfg.Sources.Remotive = config.ProviderConfig{Enabled: true, BaseURL: "https://remotive.com"}
	cfg.Sources.JSearch = config.ProviderConfig{Enabled: false, BaseURL: "https://jsearch.p.rapidapi.com"}
	return cfg
}

func TestBuildClients(t *testing.T) {
	cfg := testConfig(t)

	keys := func() []string {
		var out []string
		for _, c := range BuildClients(cfg) {
			out = append(out, c.Key())
		}
		return out
	}
	assert.Equal(t, []string{domain.SourceArbeitnow, domain.SourceRemotive}, keys())

	cfg.Sources.JSearch.Enabled = true
	cfg.Sources.Remotive.Enabled = false
	assert.Equal(t, []string{domain.SourceArbeitnow, domain.SourceJSearch}, keys())
}

func TestNew_SeedsSources(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	app, err := New(ctx, cfg, logger.GetDefault())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Archive)
	assert.Nil(t, app.Queue)

	sources, err := app.Sources.List(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 3)

	enabled, err := app.Sources.ListEnabled(ctx, cfg.Sync.AllowedSources)
	require.NoError(t, err)
	assert.Len(t, enabled, 2)

	// A user with no matching provider data is still a valid no-op target.
	require.NoError(t, app.Sync.RunSync(ctx, "unknown-user"))
}
