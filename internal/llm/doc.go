// Package llm provides chat clients for the models that write meditation scripts.
//
// # Providers
//
// Groq and OpenAI share the OpenAI chat completions wire format and are served
// by Client. Gemini goes through the Google GenAI SDK in GeminiClient. New
// picks one from Config.Provider; both satisfy Completer.
//
// # Configuration
//
// Keys are read from the environment by the caller (GROQ_API_KEY,
// OPENAI_API_KEY, GEMINI_API_KEY). The sample value "your_groq_api_key_here"
// counts as missing.
//
// # Retry Behaviour
//
// Client retries HTTP 408/429/5xx responses, empty completions and network
// timeouts with exponential backoff (base 1s, max 10s, 3 attempts by
// default). Retry-After is honoured. Context cancellation aborts retries.
package llm
