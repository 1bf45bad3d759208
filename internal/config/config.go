package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/auragen/internal/llm"
	"github.com/five82/auragen/internal/meditation"
)

// Config captures the settings shared by the auragen client and server.
type Config struct {
	Server  Server
	Client  Client
	Logging Logging
}

// Server configures the script generation endpoint.
type Server struct {
	Listen         string
	Provider       llm.Provider
	Model          string
	BaseURL        string
	TimeoutSeconds int
	CachePath      string // empty disables the script cache
	CacheTTL       time.Duration
	APIKey         string // from the provider's environment variable
}

// Client configures the terminal client.
type Client struct {
	APIBind        string
	PollInterval   time.Duration
	SessionSeconds int
	LoadingDelay   time.Duration
	RequestTimeout time.Duration
}

// Logging configures log output.
type Logging struct {
	Level  string
	Format string
	Dir    string
}

const (
	defaultConfigPath     = "~/.config/auragen/config.toml"
	defaultListen         = "127.0.0.1:8787"
	defaultCachePath      = "~/.local/share/auragen/scripts.db"
	defaultCacheTTL       = 24 * time.Hour
	defaultLogDir         = "~/.local/share/auragen/logs"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultPollInterval   = 5 * time.Second
	defaultLoadingDelay   = 2500 * time.Millisecond
	defaultRequestTimeout = 20 * time.Second
	defaultTimeoutSeconds = 15
)

type rawConfig struct {
	Server struct {
		Listen         string `toml:"listen"`
		Provider       string `toml:"provider"`
		Model          string `toml:"model"`
		BaseURL        string `toml:"base_url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		CachePath      string `toml:"cache_path"`
		CacheTTLHours  *int   `toml:"cache_ttl_hours"`
		DisableCache   bool   `toml:"disable_cache"`
	} `toml:"server"`
	Client struct {
		APIBind               string `toml:"api_bind"`
		PollSeconds           int    `toml:"poll_seconds"`
		SessionSeconds        int    `toml:"session_seconds"`
		LoadingDelayMS        *int   `toml:"loading_delay_ms"`
		RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	} `toml:"client"`
	Logging struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		Dir    string `toml:"dir"`
	} `toml:"logging"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: Server{
			Listen:         defaultListen,
			Provider:       llm.ProviderGroq,
			Model:          llm.ProviderGroq.DefaultModel(),
			TimeoutSeconds: defaultTimeoutSeconds,
			CachePath:      mustExpand(defaultCachePath),
			CacheTTL:       defaultCacheTTL,
		},
		Client: Client{
			APIBind:        defaultListen,
			PollInterval:   defaultPollInterval,
			SessionSeconds: meditation.DefaultDuration,
			LoadingDelay:   defaultLoadingDelay,
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			Dir:    mustExpand(defaultLogDir),
		},
	}
}

// Load locates and parses the auragen config, falling back to defaults when
// missing. The provider API key is always taken from the environment.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.Server.APIKey = apiKeyFromEnv(cfg.Server.Provider)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.apply(raw); err != nil {
		return Config{}, err
	}
	cfg.Server.APIKey = apiKeyFromEnv(cfg.Server.Provider)
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	if v := strings.TrimSpace(raw.Server.Listen); v != "" {
		c.Server.Listen = v
	}
	provider, err := llm.ParseProvider(raw.Server.Provider)
	if err != nil {
		return fmt.Errorf("server.provider: %w", err)
	}
	c.Server.Provider = provider
	c.Server.Model = strings.TrimSpace(raw.Server.Model)
	if c.Server.Model == "" {
		c.Server.Model = provider.DefaultModel()
	}
	c.Server.BaseURL = strings.TrimSpace(raw.Server.BaseURL)
	if raw.Server.TimeoutSeconds > 0 {
		c.Server.TimeoutSeconds = raw.Server.TimeoutSeconds
	}
	if v := strings.TrimSpace(raw.Server.CachePath); v != "" {
		c.Server.CachePath = mustExpand(v)
	}
	if raw.Server.DisableCache {
		c.Server.CachePath = ""
	}
	if raw.Server.CacheTTLHours != nil {
		if *raw.Server.CacheTTLHours < 0 {
			return fmt.Errorf("server.cache_ttl_hours: must not be negative")
		}
		c.Server.CacheTTL = time.Duration(*raw.Server.CacheTTLHours) * time.Hour
	}

	if v := strings.TrimSpace(raw.Client.APIBind); v != "" {
		c.Client.APIBind = v
	} else {
		c.Client.APIBind = c.Server.Listen
	}
	if raw.Client.PollSeconds > 0 {
		c.Client.PollInterval = time.Duration(raw.Client.PollSeconds) * time.Second
	}
	if raw.Client.SessionSeconds > 0 {
		c.Client.SessionSeconds = raw.Client.SessionSeconds
	}
	if raw.Client.LoadingDelayMS != nil {
		if *raw.Client.LoadingDelayMS < 0 {
			return fmt.Errorf("client.loading_delay_ms: must not be negative")
		}
		c.Client.LoadingDelay = time.Duration(*raw.Client.LoadingDelayMS) * time.Millisecond
	}
	if raw.Client.RequestTimeoutSeconds > 0 {
		c.Client.RequestTimeout = time.Duration(raw.Client.RequestTimeoutSeconds) * time.Second
	}

	if v := strings.ToLower(strings.TrimSpace(raw.Logging.Level)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.ToLower(strings.TrimSpace(raw.Logging.Format)); v != "" {
		if v != "console" && v != "json" {
			return fmt.Errorf("logging.format: unsupported value %q", raw.Logging.Format)
		}
		c.Logging.Format = v
	}
	if v := strings.TrimSpace(raw.Logging.Dir); v != "" {
		c.Logging.Dir = mustExpand(v)
	}
	return nil
}

// LLM returns the provider settings for the llm package.
func (s Server) LLM() llm.Config {
	return llm.Config{
		Provider:       s.Provider,
		APIKey:         s.APIKey,
		BaseURL:        s.BaseURL,
		Model:          s.Model,
		TimeoutSeconds: s.TimeoutSeconds,
	}
}

// KeyConfigured reports whether a usable API key was found.
func (s Server) KeyConfigured() bool {
	return llm.KeyConfigured(s.APIKey)
}

// LogPath returns the path to the log file for the named component.
func (c Config) LogPath(component string) string {
	dir := c.Logging.Dir
	if strings.TrimSpace(dir) == "" {
		dir = mustExpand(defaultLogDir)
	}
	if strings.TrimSpace(component) == "" {
		component = "auragen"
	}
	return filepath.Join(dir, component+".log")
}

func apiKeyFromEnv(provider llm.Provider) string {
	return strings.TrimSpace(os.Getenv(provider.EnvVar()))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
