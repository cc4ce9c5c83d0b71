package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  listen: \":9000\"\ndatabase:\n  dsn: \"file:test.db\"\njwt:\n  secret: \"from-file\"\n  expiry-hours: 2\n")
	if errWrite := os.WriteFile(path, content, 0600); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}

	t.Setenv("CHITFUND_JWT_SECRET", "from-env")

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Listen != ":9000" {
		t.Fatalf("expected listen :9000, got %s", cfg.Server.Listen)
	}
	if cfg.Database.DSN != "file:test.db" {
		t.Fatalf("expected file dsn, got %s", cfg.Database.DSN)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Fatalf("env override not applied, got %s", cfg.JWT.Secret)
	}
	if cfg.JWT.Expiry() != 2*time.Hour {
		t.Fatalf("expected 2h expiry, got %s", cfg.JWT.Expiry())
	}
	if errValidate := cfg.Validate(); errValidate != nil {
		t.Fatalf("validate: %v", errValidate)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, errLoad := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Listen != ":8317" {
		t.Fatalf("expected default listen, got %s", cfg.Server.Listen)
	}
	if cfg.Database.DSN != "chitfund.db" {
		t.Fatalf("expected default dsn, got %s", cfg.Database.DSN)
	}
	if cfg.JWT.Expiry() != 24*time.Hour {
		t.Fatalf("expected default 24h expiry, got %s", cfg.JWT.Expiry())
	}
	if errValidate := cfg.Validate(); errValidate == nil {
		t.Fatalf("expected validation failure without jwt secret")
	}
}
