// Package aura is the HTTP client for the auragen script service.
//
// It mirrors the server contract: GenerateScript posts a location and returns
// six sentences, Health reads /healthz. Error bodies of the form
// {"error": "..."} surface as *APIError so callers can show the message and
// decide whether to fall back to offline scripts.
package aura
