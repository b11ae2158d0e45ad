package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bj-service/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestReadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  dsn: "file::memory:"
`)
	cfg, err := config.Read(path)
	if err != nil {
		t.Fatalf("read config failed: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Server.Mode != "debug" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Settlement.Workers != 4 || cfg.Settlement.SweepBatch != 100 {
		t.Fatalf("unexpected settlement defaults: %+v", cfg.Settlement)
	}
	if cfg.Redis.TTL() != time.Hour {
		t.Fatalf("ttl = %s, want 1h", cfg.Redis.TTL())
	}
	if cfg.NATS.Subject != "bj.settlement.completed" {
		t.Fatalf("subject = %q", cfg.NATS.Subject)
	}
}

func TestReadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
database:
  dsn: "from-file"
`)
	t.Setenv("BJ_DATABASE_DSN", "from-env")

	cfg, err := config.Read(path)
	if err != nil {
		t.Fatalf("read config failed: %v", err)
	}
	if cfg.Database.DSN != "from-env" {
		t.Fatalf("dsn = %q, want from-env", cfg.Database.DSN)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("port = %q, want 9000", cfg.Server.Port)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := config.Read(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
