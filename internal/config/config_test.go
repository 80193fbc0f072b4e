package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
	})
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	tempDir := t.TempDir()

	homeDir := filepath.Join(tempDir, "home")
	configDir := filepath.Join(homeDir, ".xorcrack")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	t.Setenv("HOME", homeDir)

	homeConfig := []byte(`min_key_length: 3
max_key_length: 30
log_format: json
history_path: /home/history.db
log_file: /home/xorcrack.log
`)
	if err := os.WriteFile(filepath.Join(configDir, "config.yml"), homeConfig, 0o644); err != nil {
		t.Fatalf("write home config: %v", err)
	}

	// Provide a local config overriding part of the home file.
	workDir := filepath.Join(tempDir, "work")
	if err := os.Mkdir(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	localConfig := []byte(`max_key_length: 20
printable: false
input_encoding: base64
`)
	if err := os.WriteFile(filepath.Join(workDir, "xorcrack.yml"), localConfig, 0o644); err != nil {
		t.Fatalf("write local config: %v", err)
	}

	// Ensure env overrides beat file configuration.
	t.Setenv("XORCRACK_INPUT_ENCODING", "hex")
	t.Setenv("XORCRACK_LANGUAGE_CHECK", "true")
	t.Setenv("XORCRACK_LOG_FILE", "/var/log/xorcrack.log")

	chdir(t, workDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MinKeyLength != 3 {
		t.Fatalf("expected min key length from home config, got %d", cfg.MinKeyLength)
	}
	if cfg.MaxKeyLength != 20 {
		t.Fatalf("expected local override for max key length, got %d", cfg.MaxKeyLength)
	}
	if cfg.Printable {
		t.Fatalf("expected printable disabled by local config")
	}
	if cfg.InputEncoding != "hex" {
		t.Fatalf("expected env override for input encoding, got %s", cfg.InputEncoding)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("expected log format from home config, got %s", cfg.LogFormat)
	}
	if cfg.HistoryPath != "/home/history.db" {
		t.Fatalf("expected history path from home config, got %s", cfg.HistoryPath)
	}
	if cfg.LogFile != "/var/log/xorcrack.log" {
		t.Fatalf("expected env override for log file, got %s", cfg.LogFile)
	}
	if !cfg.LanguageCheck {
		t.Fatalf("expected env override enabling language check")
	}
	if cfg.ListenAddr != "127.0.0.1:50061" {
		t.Fatalf("expected default listen addr, got %s", cfg.ListenAddr)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	defaults := Default()
	if cfg != defaults {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	workDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workDir, "xorcrack.yml"), []byte("min_key_length: [oops"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chdir(t, workDir)

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	chdir(t, t.TempDir())
	t.Setenv("XORCRACK_MAX_KEY_LENGTH", "forty")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric key length")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"single key length", func(c *Config) { c.MinKeyLength, c.MaxKeyLength = 5, 5 }, true},
		{"min too small", func(c *Config) { c.MinKeyLength = 1 }, false},
		{"max below min", func(c *Config) { c.MinKeyLength, c.MaxKeyLength = 10, 4 }, false},
		{"unknown encoding", func(c *Config) { c.InputEncoding = "rot13" }, false},
		{"uppercase encoding", func(c *Config) { c.InputEncoding = "HEX" }, true},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
