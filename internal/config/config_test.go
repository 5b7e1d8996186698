package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  addr: ':9090'\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Automation.Type != "stub" {
		t.Errorf("default automation type = %q", cfg.Automation.Type)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("default storage type = %q", cfg.Storage.Type)
	}
	if cfg.Pool.Size != 1 {
		t.Errorf("default pool size = %d", cfg.Pool.Size)
	}
	if cfg.Pool.WaitTimeout != 2*time.Minute {
		t.Errorf("default wait timeout = %s", cfg.Pool.WaitTimeout)
	}
	if cfg.Admission.Burst != 2 {
		t.Errorf("default burst = %d", cfg.Admission.Burst)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"sqlite without path", "storage:\n  type: sqlite\n"},
		{"unknown storage", "storage:\n  type: redis\n"},
		{"unknown automation", "automation:\n  type: selenium\n"},
		{"journal without path", "journal:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadInlineAutomationConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
automation:
  name: hub
  type: command
  path: /usr/local/bin/hub-login
  args: ["--headless"]
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Automation.Name != "hub" {
		t.Errorf("Name = %q", cfg.Automation.Name)
	}
	if cfg.Automation.Config["path"] != "/usr/local/bin/hub-login" {
		t.Errorf("inline config not captured: %v", cfg.Automation.Config)
	}
}
