package config

import (
	"os"
	"testing"
)

func TestLoad_EnvSubstitution(t *testing.T) {
	os.Setenv("TEST_REDIS_URL", "redis://localhost:6380/1")
	defer os.Unsetenv("TEST_REDIS_URL")

	configContent := `
transport: redis
redis:
  url: ${TEST_REDIS_URL}
`
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write([]byte(configContent)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Redis.URL != "redis://localhost:6380/1" {
		t.Errorf("Expected URL redis://localhost:6380/1, got %s", cfg.Redis.URL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Transport != "stdout" {
		t.Errorf("Expected default transport stdout, got %s", cfg.Transport)
	}
	if cfg.Mode != "bind" {
		t.Errorf("Expected default mode bind, got %s", cfg.Mode)
	}
	if cfg.Redis.Key != "logship" {
		t.Errorf("Expected default redis key logship, got %s", cfg.Redis.Key)
	}
	if cfg.Redis.Mode != "list" {
		t.Errorf("Expected default redis mode list, got %s", cfg.Redis.Mode)
	}
}

func TestResolve_FlagsOverrideFile(t *testing.T) {
	cfg := &AppConfig{
		Transport: "redis",
		Mode:      "bind",
		Files:     []FileConfig{{Path: "/var/log/syslog"}},
	}

	runCfg, err := Resolve(cfg, Flags{
		Transport: "stdout",
		Hostname:  "test-host",
		Paths:     []string{"/tmp/app.log"},
		Globs:     []string{"/tmp/*.log"},
		Debug:     true,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if string(runCfg.Transport) != "stdout" {
		t.Errorf("flag transport not applied, got %s", runCfg.Transport)
	}
	if runCfg.Hostname != "test-host" {
		t.Errorf("flag hostname not applied, got %s", runCfg.Hostname)
	}
	if !runCfg.Debug {
		t.Error("debug flag not applied")
	}
	if len(runCfg.Files) != 3 {
		t.Fatalf("expected 3 file configs, got %d", len(runCfg.Files))
	}
	if runCfg.Files[1].Path != "/tmp/app.log" || runCfg.Files[2].Glob != "/tmp/*.log" {
		t.Errorf("flag paths/globs not appended: %+v", runCfg.Files)
	}
}

func TestResolve_RejectsUnknownTransport(t *testing.T) {
	cfg := &AppConfig{Transport: "zeromq", Mode: "bind"}
	if _, err := Resolve(cfg, Flags{}); err == nil {
		t.Fatal("expected error for unsupported transport")
	}
}

func TestResolve_RejectsUnknownMode(t *testing.T) {
	cfg := &AppConfig{Transport: "stdout", Mode: "listen"}
	if _, err := Resolve(cfg, Flags{}); err == nil {
		t.Fatal("expected error for unsupported mode")
	}
}

func TestResolve_DefaultsHostname(t *testing.T) {
	cfg := &AppConfig{Transport: "stdout", Mode: "bind"}
	runCfg, err := Resolve(cfg, Flags{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if runCfg.Hostname == "" {
		t.Error("hostname not defaulted from os.Hostname")
	}
}
