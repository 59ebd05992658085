package inits

import (
	"strings"
	"testing"
)

func setServerEnv(t *testing.T) {
	t.Setenv("DB_CONN", "postgres://localhost/instance")
	t.Setenv("REDIS_CONN", "redis://localhost:6379/0")
	t.Setenv("ENCRYPT_SECRET_KEY", "0123456789abcdef")
	t.Setenv("SIGNATURE_SECRET_KEY", "sig")
}

func TestConfig(t *testing.T) {
	setServerEnv(t)
	t.Setenv("MODE", "Production")

	cfg, err := Config()
	if err != nil {
		t.Fatalf("Config() error: %v", err)
	}
	if !cfg.System.IsProd {
		t.Error("expected production mode")
	}
	if cfg.System.Listen != ":1323" {
		t.Errorf("unexpected default listen %q", cfg.System.Listen)
	}
	if cfg.Security.AdminPassword != "password" {
		t.Errorf("unexpected default admin password %q", cfg.Security.AdminPassword)
	}
}

func TestConfigErrors(t *testing.T) {
	setServerEnv(t)
	t.Setenv("ENCRYPT_SECRET_KEY", "short")

	if _, err := Config(); err == nil || !strings.Contains(err.Error(), "16, 24 or 32") {
		t.Errorf("expected key length error, got %v", err)
	}
}
