package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ADDR", "TOKEN_KEY", "DB_DRIVER", "RATE_LIMIT", "RATE_BURST"} {
		t.Setenv(k, "")
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":443" || cfg.DBDriver != "postgres" || cfg.RateBurst != 3 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := cfg.RequireToken(); err == nil {
		t.Fatal("expected missing token error")
	}
}

func TestLoadFile(t *testing.T) {
	for _, k := range []string{"ADDR", "TOKEN_KEY", "DB_DRIVER"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TOKEN_KEY=secret\nDB_DRIVER=sqlite\nADDR=:8080\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TokenKey != "secret" || cfg.DBDriver != "sqlite" || cfg.Addr != ":8080" {
		t.Fatalf("env file not applied: %+v", cfg)
	}
}

func TestLoadRejectsDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
