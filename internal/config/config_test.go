package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("OFFICE_ID", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.OfficeID != "tipton" {
		t.Fatalf("expected default office, got %s", cfg.OfficeID)
	}
	if cfg.RedisTLS {
		t.Fatalf("expected redis TLS disabled by default")
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("OFFICE_ID", "shelby")
	t.Setenv("ESCALATION_PHONE", "+19015550100")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("HTTP_READ_TIMEOUT", "5s")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.OfficeID != "shelby" {
		t.Fatalf("expected office override, got %s", cfg.OfficeID)
	}
	if cfg.EscalationPhone != "+19015550100" {
		t.Fatalf("expected escalation phone override, got %s", cfg.EscalationPhone)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis TLS enabled")
	}
	if cfg.HTTPReadTimeout != 5*time.Second {
		t.Fatalf("expected read timeout override, got %s", cfg.HTTPReadTimeout)
	}
}
