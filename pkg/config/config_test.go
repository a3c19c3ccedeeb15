package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/recursive-nfs/pkg/share"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

const minimalConfig = `
shares:
  - tank/media
appliance_api:
  host: https://nas.local
  key: secret
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.MountPrefix != "/mnt/" {
		t.Errorf("Expected default mount prefix '/mnt/', got %q", cfg.MountPrefix)
	}
	if cfg.ApplianceAPI.Path != DefaultAPIPath {
		t.Errorf("Expected default API path %q, got %q", DefaultAPIPath, cfg.ApplianceAPI.Path)
	}
	if cfg.ApplianceAPI.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", cfg.ApplianceAPI.Timeout)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default log output 'stderr', got %q", cfg.Logging.Output)
	}
	if got := cfg.ApplianceAPI.BaseURL(); got != "https://nas.local/api/v2.0" {
		t.Errorf("Unexpected base URL %q", got)
	}
	if cfg.ShareOptions.Default == nil {
		t.Error("Expected an empty default bundle, got nil")
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry must be disabled by default")
	}
}

func TestLoad_ShareOptionsKeepExactNames(t *testing.T) {
	path := writeConfig(t, minimalConfig+`
share_options:
  default:
    ro: false
    hosts: ["10.0.0.0/24"]
  custom:
    Tank/Media.Old:
      ro: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if _, ok := cfg.ShareOptions.Custom["Tank/Media.Old"]; !ok {
		t.Fatalf("Expected custom key 'Tank/Media.Old', got %v", cfg.ShareOptions.Custom)
	}

	s, err := cfg.ShareGenerator().Build("Tank/Media.Old")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !s.RO || len(s.Hosts) != 1 || s.Hosts[0] != "10.0.0.0/24" {
		t.Errorf("Unexpected generated share: %+v", s)
	}
	if s.Path != "/mnt/Tank/Media.Old" {
		t.Errorf("Unexpected path %q", s.Path)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
shares: [tank]
appliance_api:
  host: https://nas.local
`)
	t.Setenv("RECURSIVE_NFS_APPLIANCE_API_KEY", "from-env")
	t.Setenv("RECURSIVE_NFS_LOGGING_LEVEL", "debug")
	t.Setenv("RECURSIVE_NFS_APPLIANCE_API_TIMEOUT", "5s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ApplianceAPI.Key != "from-env" {
		t.Errorf("Expected key from environment, got %q", cfg.ApplianceAPI.Key)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level normalized to DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.ApplianceAPI.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.ApplianceAPI.Timeout)
	}
}

func TestLoad_DotEnvNextToConfig(t *testing.T) {
	path := writeConfig(t, minimalConfig)
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := os.WriteFile(envPath, []byte("RECURSIVE_NFS_MOUNT_PREFIX=/data\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("RECURSIVE_NFS_MOUNT_PREFIX") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.MountPrefix != "/data/" {
		t.Errorf("Expected mount prefix from .env normalized to '/data/', got %q", cfg.MountPrefix)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "config init") {
		t.Errorf("Expected instructions in error, got %q", err.Error())
	}
}

func TestLoad_SearchesUserConfigDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())

	if err := os.MkdirAll(filepath.Join(xdg, "recursive-nfs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(GetDefaultConfigPath(), []byte(minimalConfig), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Shares[0] != "tank/media" {
		t.Errorf("Unexpected shares %v", cfg.Shares)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "shares: [tank\n"))
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.ApplianceAPI.Key = "k"
	cfg.ShareOptions.Custom = map[string]share.Bundle{"tank/media": {"ro": true}}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("Expected 0600 permissions, got %o", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to reload saved config: %v", err)
	}
	if loaded.ShareOptions.Custom["tank/media"]["ro"] != true {
		t.Errorf("Custom options lost in round trip: %v", loaded.ShareOptions.Custom)
	}
}

func TestRedacted(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.ApplianceAPI.Key = "secret"

	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("Redacted config leaks the API key")
	}
	if cfg.ApplianceAPI.Key != "secret" {
		t.Error("Redacted must not modify the original")
	}
}
