// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_TYPE", "sqlite")
	t.Setenv("NEGOTIATE_SIGNING_KEY", "test-key")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("SEED_DEMO", "true")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.StoreType != StoreSQLite {
		t.Errorf("expected store sqlite, got %q", cfg.StoreType)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Errorf("expected token TTL 15m, got %v", cfg.TokenTTL)
	}
	if !cfg.SeedDemo {
		t.Error("expected SEED_DEMO to enable seeding")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("NEGOTIATE_SIGNING_KEY", "test-key")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.StoreType != StoreMemory {
		t.Errorf("expected default store memory, got %q", cfg.StoreType)
	}
	if cfg.DatabaseURL != ":memory:" {
		t.Errorf("expected default database URL :memory:, got %q", cfg.DatabaseURL)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected default token TTL 1h, got %v", cfg.TokenTTL)
	}
	if cfg.BroadcastQueueSize != 64 {
		t.Errorf("expected default queue size 64, got %d", cfg.BroadcastQueueSize)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("NEGOTIATE_SIGNING_KEY", "env-key")

	cfg, err := ParseFlags([]string{"-p", "8080", "-s", "sqlite", "-d", "file:test.db", "-signing-key", "cli-key", "-seed"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.SigningKey != "cli-key" {
		t.Errorf("CLI should override env: expected cli-key, got %q", cfg.SigningKey)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("expected database URL file:test.db, got %q", cfg.DatabaseURL)
	}
	if !cfg.SeedDemo {
		t.Error("expected -seed to enable seeding")
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing signing key", map[string]string{"NEGOTIATE_SIGNING_KEY": ""}, nil},
		{"unknown store", map[string]string{"NEGOTIATE_SIGNING_KEY": "k"}, []string{"-s", "postgres"}},
		{"bad port env", map[string]string{"NEGOTIATE_SIGNING_KEY": "k", "PORT": "abc"}, nil},
		{"port out of range", map[string]string{"NEGOTIATE_SIGNING_KEY": "k"}, []string{"-p", "70000"}},
		{"bad ttl", map[string]string{"NEGOTIATE_SIGNING_KEY": "k", "TOKEN_TTL": "soon"}, nil},
		{"unknown flag", map[string]string{"NEGOTIATE_SIGNING_KEY": "k"}, []string{"-x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
