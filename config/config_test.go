package config

import (
	"os"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })
	return tmpfile.Name()
}

func TestLoad(t *testing.T) {
	path := writeTemp(t, `
entry_points = ["Main"]
main_module = "Main"
namespace = "$NS"

[watch]
debounce = "1s"

[metrics]
enabled = true
addr = ":9999"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.EntryPoints) != 1 || cfg.EntryPoints[0] != "Main" {
		t.Errorf("unexpected EntryPoints: %v", cfg.EntryPoints)
	}
	if cfg.Namespace != "$NS" {
		t.Errorf("expected namespace $NS, got %s", cfg.Namespace)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != ":9999" {
		t.Errorf("unexpected metrics config: %+v", cfg.Metrics)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeTemp(t, `main_module = "Main"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("expected default debounce 300ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Namespace != "$PS" {
		t.Errorf("expected default namespace $PS, got %s", cfg.Namespace)
	}
	if cfg.Metrics.Addr != ":9090" {
		t.Errorf("expected default metrics addr :9090, got %s", cfg.Metrics.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("nonexistent.toml"); err == nil {
		t.Error("expected error for nonexistent file")
	}

	path := writeTemp(t, "bad = toml = format")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}
