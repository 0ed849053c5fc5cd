package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
)

func TestBootstrapLoggerIsUsable(t *testing.T) {
	lgr := bootstrapLogger()
	if lgr == nil || lgr.Zap() == nil {
		t.Fatalf("expected a zap backed bootstrap logger")
	}
	var _ logger.Logger = lgr
	lgr.Debug("bootstrap", logger.String("component", "test"))
}

func TestLoadEnvIgnoresMissingFile(t *testing.T) {
	if err := loadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing dotenv file should be ignored, got %v", err)
	}
}

func TestLoadEnvSetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("NOTIFYD_TEST_TOKEN=abc\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("NOTIFYD_TEST_TOKEN") })

	if err := loadEnv(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("NOTIFYD_TEST_TOKEN"); got != "abc" {
		t.Fatalf("expected NOTIFYD_TEST_TOKEN=abc, got %q", got)
	}
}

func TestLoadConfigAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"storage":{"driver":"memory"}}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_DSN", "")
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected an error without a jwt secret")
	}

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Auth.JWTSecret != "s3cret" || cfg.Storage.Driver != config.DriverMemory {
		t.Fatalf("unexpected config %+v", cfg)
	}

	t.Setenv("DATABASE_DSN", "file:test.db")
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Driver != config.DriverSQLite || cfg.Storage.DSN != "file:test.db" {
		t.Fatalf("expected DATABASE_DSN to select sqlite, got %+v", cfg.Storage)
	}
}
