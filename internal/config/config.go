package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the xorcrack configuration resolved from defaults, optional
// files, and environment overrides.
type Config struct {
	MinKeyLength  int    `yaml:"min_key_length"`
	MaxKeyLength  int    `yaml:"max_key_length"`
	Printable     bool   `yaml:"printable"`
	InputEncoding string `yaml:"input_encoding"`
	HistoryPath   string `yaml:"history_path"`
	ListenAddr    string `yaml:"listen_addr"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	LogFile       string `yaml:"log_file"`
	LanguageCheck bool   `yaml:"language_check"`
}

// Default returns the built-in xorcrack configuration.
func Default() Config {
	return Config{
		MinKeyLength:  2,
		MaxKeyLength:  40,
		Printable:     true,
		InputEncoding: "auto",
		HistoryPath:   "",
		ListenAddr:    "127.0.0.1:50061",
		LogLevel:      "info",
		LogFormat:     "text",
		LogFile:       "",
		LanguageCheck: false,
	}
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. Files are applied in this order, later ones winning:
//  1. ~/.xorcrack/config.yml
//  2. ./xorcrack.yml
//
// Environment variables prefixed with XORCRACK_ have the highest precedence.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports settings the cracker cannot run with.
func (c Config) Validate() error {
	if c.MinKeyLength < 2 {
		return fmt.Errorf("min_key_length must be at least 2, got %d", c.MinKeyLength)
	}
	if c.MaxKeyLength < c.MinKeyLength {
		return fmt.Errorf("max_key_length %d is below min_key_length %d", c.MaxKeyLength, c.MinKeyLength)
	}
	switch strings.ToLower(c.InputEncoding) {
	case "auto", "hex", "base64", "raw":
	default:
		return fmt.Errorf("unknown input_encoding %q", c.InputEncoding)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("determine home directory: %w", err)
	}
	return loadFile(cfg, filepath.Join(home, ".xorcrack", "config.yml"))
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	return loadFile(cfg, filepath.Join(wd, "xorcrack.yml"))
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// fileConfig uses pointers so keys absent from a file keep earlier values.
type fileConfig struct {
	MinKeyLength  *int    `yaml:"min_key_length"`
	MaxKeyLength  *int    `yaml:"max_key_length"`
	Printable     *bool   `yaml:"printable"`
	InputEncoding *string `yaml:"input_encoding"`
	HistoryPath   *string `yaml:"history_path"`
	ListenAddr    *string `yaml:"listen_addr"`
	LogLevel      *string `yaml:"log_level"`
	LogFormat     *string `yaml:"log_format"`
	LogFile       *string `yaml:"log_file"`
	LanguageCheck *bool   `yaml:"language_check"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.MinKeyLength != nil {
		cfg.MinKeyLength = *fc.MinKeyLength
	}
	if fc.MaxKeyLength != nil {
		cfg.MaxKeyLength = *fc.MaxKeyLength
	}
	if fc.Printable != nil {
		cfg.Printable = *fc.Printable
	}
	if fc.InputEncoding != nil {
		cfg.InputEncoding = strings.TrimSpace(*fc.InputEncoding)
	}
	if fc.HistoryPath != nil {
		cfg.HistoryPath = strings.TrimSpace(*fc.HistoryPath)
	}
	if fc.ListenAddr != nil {
		cfg.ListenAddr = strings.TrimSpace(*fc.ListenAddr)
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*fc.LogLevel)
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = strings.TrimSpace(*fc.LogFormat)
	}
	if fc.LogFile != nil {
		cfg.LogFile = strings.TrimSpace(*fc.LogFile)
	}
	if fc.LanguageCheck != nil {
		cfg.LanguageCheck = *fc.LanguageCheck
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := strings.TrimSpace(os.Getenv("XORCRACK_MIN_KEY_LENGTH")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("XORCRACK_MIN_KEY_LENGTH: %w", err)
		}
		cfg.MinKeyLength = n
	}
	if val := strings.TrimSpace(os.Getenv("XORCRACK_MAX_KEY_LENGTH")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("XORCRACK_MAX_KEY_LENGTH: %w", err)
		}
		cfg.MaxKeyLength = n
	}
	if val := strings.TrimSpace(os.Getenv("XORCRACK_PRINTABLE")); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			cfg.Printable = parsed
		}
	}
	if val := strings.TrimSpace(os.Getenv("XORCRACK_INPUT_ENCODING")); val != "" {
		cfg.InputEncoding = val
	}
	if val := strings.TrimSpace(os.Getenv("XORCRACK_HISTORY_PATH")); val != "" {
		cfg.HistoryPath = val
	}
	if val := strings.TrimSpace(os.Getenv("XORCRACK_LISTEN_ADDR")); val != "" {
		cfg.ListenAddr = val
	}
	if val := strings.TrimSpace(os.Getenv("XORCRACK_LOG_LEVEL")); val != "" {
		cfg.LogLevel = val
	}
	if val := strings.TrimSpace(os.Getenv("XORCRACK_LOG_FORMAT")); val != "" {
		cfg.LogFormat = val
	}
	if val := strings.TrimSpace(os.Getenv("XORCRACK_LOG_FILE")); val != "" {
		cfg.LogFile = val
	}
	if val := strings.TrimSpace(os.Getenv("XORCRACK_LANGUAGE_CHECK")); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			cfg.LanguageCheck = parsed
		}
	}
	return nil
}
