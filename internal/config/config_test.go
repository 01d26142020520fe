package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jot.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Interpreter.MaxCallDepth != 512 {
		t.Errorf("expected call depth 512, got %d", cfg.Interpreter.MaxCallDepth)
	}
	if cfg.Interpreter.StrictSyntax {
		t.Error("expected strict syntax off by default")
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.REPL.Prompt != "jot> " {
		t.Errorf("unexpected prompt %q", cfg.REPL.Prompt)
	}
}

func TestLoadFillsMissingKeys(t *testing.T) {
	path := writeConfig(t, `
[interpreter]
strict_syntax = true

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Interpreter.StrictSyntax || cfg.Log.Level != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Interpreter.MaxCallDepth != 512 || cfg.Log.Format != "text" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Path != path {
		t.Errorf("expected path %q, got %q", path, cfg.Path)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"log level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"log format", "[log]\nformat = \"xml\"\n", "log.format"},
		{"call depth", "[interpreter]\nmax_call_depth = -3\n", "max_call_depth"},
		{"syntax", "[log\nlevel = 1\n", "failed to parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[repl]\nprompt = \">> \"\n")
	t.Setenv(EnvVar, path)
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.REPL.Prompt != ">> " {
		t.Errorf("expected prompt from env file, got %q", cfg.REPL.Prompt)
	}
}

func TestLoadFromEnvFallsBackToDefaults(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Path != "" || cfg.Log.Level != "warn" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestHistoryPathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg := Default()
	if got := cfg.HistoryPath(); got != filepath.Join(home, ".jot_history") {
		t.Errorf("unexpected history path %q", got)
	}
}
