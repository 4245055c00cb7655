// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := ParseFlags([]string{"-jwt-secret", "test-secret"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 8000 {
		t.Errorf("Expected default port 8000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "voting_system.db" {
		t.Errorf("Expected default database URL, got %q", cfg.DatabaseURL)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.TokenTTLMinutes != 30 {
		t.Errorf("Expected default TTL 30, got %d", cfg.TokenTTLMinutes)
	}
}

func TestParseFlagsRequiresSecret(t *testing.T) {
	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("Expected error when no secret is provided")
	}
}

func TestParseFlagsRejectsUnknownDatabaseType(t *testing.T) {
	_, err := ParseFlags([]string{"-jwt-secret", "s", "-t", "mysql"})
	if err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestParseFlagsEnvOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "60")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 9001 {
		t.Errorf("Expected port 9001 from env, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("Expected database type postgres from env, got %q", cfg.DatabaseType)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("Expected secret from env, got %q", cfg.JWTSecret)
	}
	if cfg.TokenTTLMinutes != 60 {
		t.Errorf("Expected TTL 60 from env, got %d", cfg.TokenTTLMinutes)
	}
}

func TestParseFlagsFlagBeatsEnv(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := ParseFlags([]string{"-p", "9002"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 9002 {
		t.Errorf("Expected flag port 9002 to win over env, got %d", cfg.Port)
	}
}

func TestParseFlagsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9100
database:
  url: file.db
  type: sqlite
auth:
  secret: file-secret
  tokenTtlMinutes: 45
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := ParseFlags([]string{"-config", path})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 9100 {
		t.Errorf("Expected port 9100 from file, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file.db" {
		t.Errorf("Expected database URL from file, got %q", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != "file-secret" {
		t.Errorf("Expected secret from file, got %q", cfg.JWTSecret)
	}
	if cfg.TokenTTLMinutes != 45 {
		t.Errorf("Expected TTL 45 from file, got %d", cfg.TokenTTLMinutes)
	}
}

func TestParseFlagsEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: 9100\nauth:\n  secret: file-secret\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("PORT", "9200")

	cfg, err := ParseFlags([]string{"-config", path})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 9200 {
		t.Errorf("Expected env port 9200 to win over file, got %d", cfg.Port)
	}
}
