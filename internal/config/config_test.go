//go:build !integration

// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"buzzugc/internal/domain/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults fill the gaps", func(t *testing.T) {
		path := writeConfig(t, `
database:
  url: postgres://localhost:5432/buzzugc
supabase:
  jwt_secret: secret
`)
		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("port = %d, want 8080", cfg.Server.Port)
		}
		if cfg.Video.PollInterval.Std() != 2*time.Second {
			t.Errorf("poll interval = %v, want 2s", cfg.Video.PollInterval.Std())
		}
		if cfg.Video.PollTimeout.Std() != 90*time.Second {
			t.Errorf("poll timeout = %v, want 90s", cfg.Video.PollTimeout.Std())
		}
		if cfg.Video.FalQueueURL == "" || cfg.Video.FalSyncURL == "" {
			t.Error("expected provider endpoint defaults")
		}
		if cfg.Grants.Plan != model.PlanProfessional {
			t.Errorf("grants plan = %s, want professional", cfg.Grants.Plan)
		}
		if cfg.RateLimit.GeneratePerMinute != 5 {
			t.Errorf("rate limit = %d, want 5", cfg.RateLimit.GeneratePerMinute)
		}
	})

	t.Run("explicit values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 9090
video:
  primary_relay_url: https://relay.example.com/generate
  poll_interval: 500ms
  poll_timeout: 30s
rate_limit:
  generate_per_minute: 20
`)
		cfg, err := LoadConfig(path, true)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Server.Port != 9090 {
			t.Errorf("port = %d, want 9090", cfg.Server.Port)
		}
		if cfg.Video.PollInterval.Std() != 500*time.Millisecond {
			t.Errorf("poll interval = %v, want 500ms", cfg.Video.PollInterval.Std())
		}
		if cfg.Video.PollTimeout.Std() != 30*time.Second {
			t.Errorf("poll timeout = %v, want 30s", cfg.Video.PollTimeout.Std())
		}
		if cfg.RateLimit.GeneratePerMinute != 20 {
			t.Errorf("rate limit = %d, want 20", cfg.RateLimit.GeneratePerMinute)
		}
		if !cfg.Runtime.Dev {
			t.Error("dev flag not carried into runtime config")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := writeConfig(t, "server: [not a map")
		if _, err := LoadConfig(path, false); err == nil {
			t.Fatal("expected error for malformed yaml")
		}
	})

	t.Run("unparseable duration is an error", func(t *testing.T) {
		path := writeConfig(t, "video:\n  poll_interval: soon\n")
		if _, err := LoadConfig(path, false); err == nil {
			t.Fatal("expected error for bad duration")
		}
	})
}

func TestPlanTable(t *testing.T) {
	t.Run("no overrides returns the shipped table", func(t *testing.T) {
		cfg := &Config{}
		table := cfg.PlanTable()
		if table[model.PlanBasic].MonthlyCreations != 10 {
			t.Errorf("basic = %d, want 10", table[model.PlanBasic].MonthlyCreations)
		}
		if !table[model.PlanEnterprise].Unlimited() {
			t.Error("enterprise should be unlimited")
		}
	})

	t.Run("partial override replaces only the named tier", func(t *testing.T) {
		cfg := &Config{Plans: []model.PlanLimits{
			{Plan: model.PlanBasic, MonthlyCreations: 15, HDQuality: true},
		}}
		table := cfg.PlanTable()
		if table[model.PlanBasic].MonthlyCreations != 15 {
			t.Errorf("basic = %d, want override 15", table[model.PlanBasic].MonthlyCreations)
		}
		if table[model.PlanProfessional].MonthlyCreations != 50 {
			t.Errorf("professional = %d, want default 50", table[model.PlanProfessional].MonthlyCreations)
		}
	})

	t.Run("override without a plan id is ignored", func(t *testing.T) {
		cfg := &Config{Plans: []model.PlanLimits{{MonthlyCreations: 99}}}
		table := cfg.PlanTable()
		if table[model.PlanBasic].MonthlyCreations != 10 {
			t.Errorf("basic = %d, want default 10", table[model.PlanBasic].MonthlyCreations)
		}
	})
}
