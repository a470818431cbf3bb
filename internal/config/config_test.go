package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("VERITAS_STORE", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Store != StoreFile {
		t.Errorf("store = %q, want file", cfg.Store)
	}
	if cfg.SaveDir != ".saves" {
		t.Errorf("save dir = %q", cfg.SaveDir)
	}
	if cfg.Redis.TTL != 24*time.Hour {
		t.Errorf("redis ttl = %v", cfg.Redis.TTL)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("gemini model = %q", cfg.GeminiModel)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("VERITAS_STORE", "redis")
	t.Setenv("VERITAS_REDIS_ADDR", "cache:6380")
	t.Setenv("VERITAS_REDIS_DB", "2")
	t.Setenv("VERITAS_REDIS_TTL", "90m")
	t.Setenv("VERITAS_PLAYER_NAME", "Ada")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Redis.Addr != "cache:6380" || cfg.Redis.DB != 2 || cfg.Redis.TTL != 90*time.Minute {
		t.Errorf("redis config = %+v", cfg.Redis)
	}
	if cfg.PlayerName != "Ada" {
		t.Errorf("player = %q", cfg.PlayerName)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("bad store", func(t *testing.T) {
		t.Setenv("VERITAS_STORE", "postgres")
		_, err := LoadConfig()
		if err == nil || !strings.Contains(err.Error(), "postgres") {
			t.Fatalf("expected store error, got %v", err)
		}
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("VERITAS_STORE", "memory")
		t.Setenv("VERITAS_REDIS_TTL", "soon")
		_, err := LoadConfig()
		if err == nil || !strings.Contains(err.Error(), "parse env:") {
			t.Fatalf("expected parse env error, got %v", err)
		}
	})
}
