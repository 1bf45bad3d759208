package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider names an upstream model vendor.
type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// PlaceholderAPIKey is the sample value shipped in example env files.
const PlaceholderAPIKey = "your_groq_api_key_here"

type providerDefaults struct {
	label   string
	envVar  string
	baseURL string
	model   string
}

var defaults = map[Provider]providerDefaults{
	ProviderGroq: {
		label:   "Groq",
		envVar:  "GROQ_API_KEY",
		baseURL: "https://api.groq.com/openai/v1/chat/completions",
		model:   "llama-3.3-70b-versatile",
	},
	ProviderOpenAI: {
		label:   "OpenAI",
		envVar:  "OPENAI_API_KEY",
		baseURL: "https://api.openai.com/v1/chat/completions",
		model:   "gpt-4o-mini",
	},
	ProviderGemini: {
		label:  "Gemini",
		envVar: "GEMINI_API_KEY",
		model:  "gemini-2.0-flash",
	},
}

// Config captures the runtime settings required to talk to a provider.
type Config struct {
	Provider       Provider
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// ParseProvider maps a config value onto a known provider.
func ParseProvider(value string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(value)))
	if p == "" {
		return ProviderGroq, nil
	}
	if _, ok := defaults[p]; !ok {
		return "", fmt.Errorf("unknown llm provider %q", value)
	}
	return p, nil
}

// Label returns the display name of the provider.
func (p Provider) Label() string {
	if d, ok := defaults[p]; ok {
		return d.label
	}
	return string(p)
}

// EnvVar returns the environment variable that holds the provider's API key.
func (p Provider) EnvVar() string {
	if d, ok := defaults[p]; ok {
		return d.envVar
	}
	return strings.ToUpper(string(p)) + "_API_KEY"
}

// DefaultModel returns the model used when none is configured.
func (p Provider) DefaultModel() string {
	return defaults[p].model
}

// KeyConfigured reports whether key looks like a real credential.
func KeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderAPIKey
}

func (c Config) normalized() Config {
	out := Config{
		Provider:       Provider(strings.ToLower(strings.TrimSpace(string(c.Provider)))),
		APIKey:         strings.TrimSpace(c.APIKey),
		BaseURL:        strings.TrimSpace(c.BaseURL),
		Model:          strings.TrimSpace(c.Model),
		TimeoutSeconds: c.TimeoutSeconds,
	}
	if out.Provider == "" {
		out.Provider = ProviderGroq
	}
	if !KeyConfigured(out.APIKey) {
		out.APIKey = ""
	}
	d := defaults[out.Provider]
	if out.BaseURL == "" {
		out.BaseURL = d.baseURL
	}
	if out.Model == "" {
		out.Model = d.model
	}
	return out
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return defaultHTTPTimeout
}

// ModelCompleter is a Completer that can report the model it talks to.
type ModelCompleter interface {
	Completer
	Model() string
}

// New builds the Completer for the configured provider.
func New(cfg Config) (ModelCompleter, error) {
	cfg = cfg.normalized()
	switch cfg.Provider {
	case ProviderGroq, ProviderOpenAI:
		if err := validBaseURL(cfg.BaseURL); err != nil {
			return nil, fmt.Errorf("llm base url %q: %w", cfg.BaseURL, err)
		}
		return NewClient(cfg), nil
	case ProviderGemini:
		return NewGeminiClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
