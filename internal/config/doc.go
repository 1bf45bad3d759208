// Package config loads the auragen TOML configuration.
//
// The file lives at ~/.config/auragen/config.toml unless a path is given. A
// missing file is not an error: Default values are used so the client and the
// server both work out of the box.
//
// Example:
//
//	[server]
//	listen = "127.0.0.1:8787"
//	provider = "groq"
//	cache_ttl_hours = 24
//
//	[client]
//	session_seconds = 60
//	loading_delay_ms = 2500
//
//	[logging]
//	level = "info"
//	format = "console"
//
// Provider API keys are never read from the file. Load picks them up from the
// provider's environment variable (GROQ_API_KEY, OPENAI_API_KEY or
// GEMINI_API_KEY).
package config
