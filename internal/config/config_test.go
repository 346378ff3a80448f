package config_test

import (
	"testing"
	"time"

	"github.com/campushub/identity/internal/config"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("BCRYPT_COST", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default TTL 24h, got %s", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("expected default bcrypt cost 12, got %d", cfg.BcryptCost)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "too-short")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for short JWT_SECRET")
	}
}

func TestLoad_TokenTTL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TOKEN_TTL", "15m")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m, got %s", cfg.TokenTTL)
	}

	t.Setenv("TOKEN_TTL", "-1h")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for negative TOKEN_TTL")
	}
}

func TestLoad_BcryptCostBounds(t *testing.T) {
	setBaseEnv(t)

	t.Setenv("BCRYPT_COST", "15")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for out-of-range BCRYPT_COST")
	}

	t.Setenv("BCRYPT_COST", "4")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BcryptCost != 4 {
		t.Fatalf("expected cost 4, got %d", cfg.BcryptCost)
	}
}
