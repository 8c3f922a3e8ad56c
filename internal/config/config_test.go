package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PASSWORD_HASHING", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != BackendBolt {
		t.Errorf("expected bolt backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Security.PasswordHashing != HashingBcrypt {
		t.Errorf("expected bcrypt hashing, got %q", cfg.Security.PasswordHashing)
	}
	if cfg.RemoteBackend() {
		t.Error("bolt reported as remote backend")
	}
	if cfg.Database.URL == "" {
		t.Error("expected postgres url to be derived")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("SYNC_INTERVAL_SECONDS", "7")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != BackendRedis || !cfg.RemoteBackend() {
		t.Errorf("expected remote redis backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Buffer.SyncInterval != 7*time.Second {
		t.Errorf("expected 7s sync interval, got %v", cfg.Buffer.SyncInterval)
	}
	if cfg.JWT.TTL != 90*time.Minute {
		t.Errorf("expected 90m ttl, got %v", cfg.JWT.TTL)
	}
	if cfg.Address() != "127.0.0.1:9999" {
		t.Errorf("unexpected address %q", cfg.Address())
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BACKEND", "mongo")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadReportsMalformedValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("SYNC_INTERVAL_SECONDS", "soon")
	t.Setenv("REDIS_DB", "first")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for malformed values")
	}
	for _, key := range []string{"SYNC_INTERVAL_SECONDS", "REDIS_DB"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not name %s", err, key)
		}
	}
}

func TestValidateRequiresBufferForRemote(t *testing.T) {
	cfg := &Config{
		Storage:  StorageConfig{Backend: BackendPostgres},
		Security: SecurityConfig{PasswordHashing: HashingBcrypt},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing buffer path to be rejected")
	}
	cfg.Buffer.Path = "buffer.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
