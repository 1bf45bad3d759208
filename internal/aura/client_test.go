package aura

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var testScript = []string{"one", "two", "three", "four", "five", "six"}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestClient_GenerateScript(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotUserAgent, gotContentType string
	var gotBody scriptRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotUserAgent = r.Header.Get("User-Agent")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ScriptResponse{Script: testScript, Cached: true})
	})

	resp, err := c.GenerateScript(context.Background(), "Pine Forest")
	if err != nil {
		t.Fatalf("GenerateScript returned error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/generate-script" {
		t.Fatalf("request = %s %s, want POST /api/generate-script", gotMethod, gotPath)
	}
	if gotBody.Location != "Pine Forest" {
		t.Fatalf("location = %q, want Pine Forest", gotBody.Location)
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if len(resp.Script) != 6 || resp.Script[5] != "six" || !resp.Cached {
		t.Fatalf("response = %#v", resp)
	}
}

func TestClient_GenerateScriptSurfacesAPIError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "req-1")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Groq API Key is missing. Please set GROQ_API_KEY in the environment."}`))
	})

	_, err := c.GenerateScript(context.Background(), "lake")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.RequestID != "req-1" {
		t.Fatalf("APIError = %#v", apiErr)
	}
	if apiErr.Message != "Groq API Key is missing. Please set GROQ_API_KEY in the environment." {
		t.Fatalf("Message = %q", apiErr.Message)
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d", StatusCode(err))
	}
}

func TestClient_GenerateScriptRejectsShortScripts(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ScriptResponse{Script: testScript[:3]})
	})

	if _, err := c.GenerateScript(context.Background(), "lake"); err == nil {
		t.Fatalf("GenerateScript accepted a three sentence script")
	}
}

func TestClient_Health(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Provider: "groq", Model: "m", KeyConfigured: true})
	})

	health, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if !health.Ready() || health.Model != "m" {
		t.Fatalf("health = %#v", health)
	}
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.Health(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Message != "" {
		t.Fatalf("Message = %q, want empty for non-JSON body", apiErr.Message)
	}
	if apiErr.Error() != "api /healthz returned status 502" {
		t.Fatalf("Error() = %q", apiErr.Error())
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.Health(context.Background()); err == nil {
		t.Fatalf("nil client returned nil error")
	}
}

func TestHealthResponse_Ready(t *testing.T) {
	if (HealthResponse{Status: "ok"}).Ready() {
		t.Fatalf("Ready() = true without a key")
	}
}
