package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/harness"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/upstream"
)

type Config struct {
	ListenAddr     string
	ProxyURL       string
	RequestTimeout time.Duration
	RuntimeFile    string
	LogLevel       string
	// Runtime seeds the operator form. Flags and env win over RuntimeFile.
	Runtime harness.RuntimeConfig

	// envErr is a bad environment default, reported by Finish.
	envErr error
}

// NewFlagSet loads .env (if present) and returns a flag set pre-registered
// with the options shared by the console and harnessctl. Call Finish after
// parsing.
func NewFlagSet(name string) (*flag.FlagSet, *Config) {
	_ = godotenv.Load()

	cfg := &Config{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&cfg.Runtime.APIBaseURL, "api-base-url", getEnv("API_BASE_URL", ""), "Default base URL of the chat API under test")
	fs.StringVar(&cfg.Runtime.DefaultModel, "default-model", getEnv("DEFAULT_MODEL", ""), "Default model identifier")
	fs.StringVar(&cfg.Runtime.AdminKey, "admin-key", getEnv("ADMIN_KEY", ""), "Default X-Admin-Key for the stats endpoint")
	fs.StringVar(&cfg.RuntimeFile, "runtime-config", getEnv("RUNTIME_CONFIG_FILE", ""), "YAML file with api_base_url, default_model, admin_key")
	fs.StringVar(&cfg.ProxyURL, "proxy-url", getEnv("HARNESS_PROXY_URL", ""), "HTTP/HTTPS proxy for requests to the chat API")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	// Zero means no timeout: a hung upstream leaves the operation pending.
	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "0s"))
	if err != nil {
		cfg.envErr = fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout
	fs.Func("request-timeout", "Upstream round-trip timeout, e.g. 30s (0 disables)", func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		cfg.RequestTimeout = d
		cfg.envErr = nil
		return nil
	})

	return fs, cfg
}

// Load parses the console server's flags.
func Load(args []string) (*Config, error) {
	fs, cfg := NewFlagSet("harness-console")
	fs.StringVar(&cfg.ListenAddr, "listen-addr", getEnv("LISTEN_ADDR", ":8090"), "Console listen address")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finish validates the parsed values and merges the runtime-config file under
// the flag and env values.
func (c *Config) Finish() error {
	if c.envErr != nil {
		return c.envErr
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %v", c.RequestTimeout)
	}
	if c.ProxyURL != "" {
		if _, err := upstream.ParseProxyURL(c.ProxyURL); err != nil {
			return err
		}
	}
	if c.RuntimeFile == "" {
		return nil
	}
	raw, err := os.ReadFile(c.RuntimeFile)
	if err != nil {
		return fmt.Errorf("read runtime config: %w", err)
	}
	var file harness.RuntimeConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse runtime config %s: %w", c.RuntimeFile, err)
	}
	if c.Runtime.APIBaseURL == "" {
		c.Runtime.APIBaseURL = file.APIBaseURL
	}
	if c.Runtime.DefaultModel == "" {
		c.Runtime.DefaultModel = file.DefaultModel
	}
	if c.Runtime.AdminKey == "" {
		c.Runtime.AdminKey = file.AdminKey
	}
	return nil
}

// SlogLevel maps LogLevel onto slog, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
