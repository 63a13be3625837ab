package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PLANBOARD_CONFIG",
		"PLANBOARD_DIR",
		"PLANBOARD_ADDR",
		"PLANBOARD_LOG_LEVEL",
		"PLANBOARD_LOG_FORMAT",
		"PLANBOARD_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANBOARD_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:3340" {
		t.Fatalf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Std() != 15*time.Second {
		t.Fatalf("ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout.Std())
	}
	if cfg.UI.Company != "TGA Hoyerswerda GmbH" {
		t.Fatalf("UI.Company = %q", cfg.UI.Company)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "planboard.yaml")
	data := []byte(`data_dir: /tmp/pb
server:
  addr: ":9000"
  shutdown_timeout: 2s
log:
  level: debug
  format: json
ui:
  company: "Muster GmbH"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PLANBOARD_ADDR", "127.0.0.1:7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/tmp/pb" {
		t.Fatalf("DataDir = %q, want /tmp/pb", cfg.DataDir)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Fatalf("Server.Addr = %q, want env override", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout.Std() != 2*time.Second {
		t.Fatalf("ShutdownTimeout = %v, want 2s", cfg.Server.ShutdownTimeout.Std())
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("Log = %#v", cfg.Log)
	}
	if cfg.UI.Company != "Muster GmbH" || cfg.UI.Subtitle == "" {
		t.Fatalf("UI = %#v, want company overridden and subtitle defaulted", cfg.UI)
	}
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad-duration.yaml")
	_ = os.WriteFile(bad, []byte("server:\n  read_timeout: soon\n"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected duration parse error")
	}

	ok := filepath.Join(dir, "ok.yaml")
	_ = os.WriteFile(ok, []byte("log:\n  level: info\n"), 0o644)
	t.Setenv("PLANBOARD_LOG_FORMAT", "xml")
	if _, err := Load(ok); err == nil {
		t.Fatalf("expected error for unknown log format")
	}
}
