package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "ENV", "QUEUE_BACKEND", "GENERATION_CREDIT_COST", "CORS_ALLOW_ORIGINS", "AUTH_STATE_BACKEND"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.QueueBackend != "" {
		t.Fatalf("expected in-process queue, got %q", cfg.QueueBackend)
	}
	if cfg.AuthStateBackend != "memory" {
		t.Fatalf("expected memory auth state, got %q", cfg.AuthStateBackend)
	}
	if cfg.GenerationCreditCost != 1 {
		t.Fatalf("expected credit cost 1, got %d", cfg.GenerationCreditCost)
	}
	if len(cfg.CORSAllowOrigin) != 1 || cfg.CORSAllowOrigin[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "PORT=9090\nQUEUE_BACKEND=Redis\nENV=prod\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("QUEUE_BACKEND", "")
	t.Setenv("ENV", "")
	os.Unsetenv("QUEUE_BACKEND")
	os.Unsetenv("ENV")

	cfg := Load()
	if cfg.Port != "7070" {
		t.Fatalf("expected existing env to win, got %q", cfg.Port)
	}
	if cfg.QueueBackend != "redis" {
		t.Fatalf("expected redis backend from .env, got %q", cfg.QueueBackend)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected production env, got %q", cfg.Env)
	}
}

func TestGetEnvIntRejectsInvalid(t *testing.T) {
	t.Setenv("USAGE_LIMIT", "abc")
	if got := getEnvInt("USAGE_LIMIT", 5); got != 5 {
		t.Fatalf("expected default for invalid int, got %d", got)
	}
	t.Setenv("USAGE_LIMIT", "-3")
	if got := getEnvInt("USAGE_LIMIT", 5); got != 5 {
		t.Fatalf("expected default for negative int, got %d", got)
	}
	t.Setenv("USAGE_LIMIT", "12")
	if got := getEnvInt("USAGE_LIMIT", 5); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}
