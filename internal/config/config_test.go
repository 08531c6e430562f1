package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if got := cfg.Sync.AllowedSources; len(got) != 2 || got[0] != "arbeitnow" || got[1] != "remotive" {
		t.Errorf("sync.allowed_sources = %v", got)
	}
	if cfg.Sync.RetryCount != 2 {
		t.Errorf("sync.retry_count = %d, want 2", cfg.Sync.RetryCount)
	}
	if cfg.Sync.Timeout != 25*time.Second {
		t.Errorf("sync.timeout = %s, want 25s", cfg.Sync.Timeout)
	}
	if cfg.Sources.JSearch.Enabled {
		t.Error("jsearch should be disabled by default")
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
sync:
  allowed_sources: [jsearch]
  timeout: 5s
sources:
  jsearch:
    enabled: true
    api_key: from-file
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JSEARCH_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sync.AllowedSources) != 1 || cfg.Sync.AllowedSources[0] != "jsearch" {
		t.Errorf("allowed_sources = %v", cfg.Sync.AllowedSources)
	}
	if cfg.Sync.Timeout != 5*time.Second {
		t.Errorf("timeout = %s", cfg.Sync.Timeout)
	}
	if cfg.Sources.JSearch.APIKey != "from-env" {
		t.Errorf("api_key = %q, want env value", cfg.Sources.JSearch.APIKey)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	sqlite := DatabaseConfig{Driver: "sqlite", Path: "/tmp/x.db"}
	if got := sqlite.DSN(); got != "/tmp/x.db" {
		t.Errorf("sqlite DSN = %q", got)
	}

	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if got := pg.DSN(); got != want {
		t.Errorf("postgres DSN = %q, want %q", got, want)
	}

	pg.URL = "postgres://u:p@db/n"
	if got := pg.DSN(); got != pg.URL {
		t.Errorf("postgres URL DSN = %q", got)
	}
}
