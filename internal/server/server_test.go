package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/auragen/internal/llm"
	"github.com/five82/auragen/internal/meditation"
	"github.com/five82/auragen/internal/scriptcache"
	"github.com/five82/auragen/internal/scriptgen"
)

var lakeScript = meditation.Script{
	"Settle beside the still water.",
	"Breathe in the cool air.",
	"Let the ripples slow.",
	"Exhale toward the far shore.",
	"Rest with the reflections.",
	"Return gently.",
}

type fakeGenerator struct {
	script meditation.Script
	err    error
	calls  int
	last   string
}

func (f *fakeGenerator) Generate(_ context.Context, location string) (meditation.Script, error) {
	f.calls++
	f.last = location
	if f.err != nil {
		return nil, f.err
	}
	return f.script, nil
}

func defaultOptions() Options {
	return Options{
		Listen:        "127.0.0.1:0",
		Provider:      llm.ProviderGroq,
		Model:         "llama-3.3-70b-versatile",
		KeyConfigured: true,
		CacheTTL:      time.Hour,
	}
}

func doRequest(t *testing.T, h http.Handler, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/generate-script", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload["error"]
}

func TestGenerate_Success(t *testing.T) {
	gen := &fakeGenerator{script: lakeScript}
	srv := New(defaultOptions(), gen, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, `{"location":"  Peaceful Lake "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, []string(lakeScript), payload.Script)
	assert.False(t, payload.Cached)
	assert.Equal(t, "Peaceful Lake", gen.last)
	assert.NotContains(t, rec.Body.String(), "cached")
}

func TestGenerate_CORSHeadersOnEveryResponse(t *testing.T) {
	srv := New(defaultOptions(), &fakeGenerator{script: lakeScript}, nil, nil)

	for _, method := range []string{http.MethodOptions, http.MethodGet, http.MethodPost} {
		rec := doRequest(t, srv.Handler(), method, `{}`)
		h := rec.Header()
		assert.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"), method)
		assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"), method)
		assert.Equal(t, "GET,OPTIONS,PATCH,DELETE,POST,PUT", h.Get("Access-Control-Allow-Methods"), method)
		assert.Contains(t, h.Get("Access-Control-Allow-Headers"), "X-CSRF-Token", method)
		_, err := uuid.Parse(h.Get(RequestIDHeader))
		assert.NoError(t, err, method)
	}
}

func TestGenerate_PreflightReturnsEmptyOK(t *testing.T) {
	gen := &fakeGenerator{script: lakeScript}
	srv := New(defaultOptions(), gen, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodOptions, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Zero(t, gen.calls)
}

func TestGenerate_RequestErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
		msg    string
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed, "Method not allowed"},
		{"put", http.MethodPut, `{"location":"lake"}`, http.StatusMethodNotAllowed, "Method not allowed"},
		{"malformed json", http.MethodPost, `{"location":`, http.StatusBadRequest, "Invalid request body"},
		{"wrong type", http.MethodPost, `{"location":42}`, http.StatusBadRequest, "Invalid request body"},
		{"empty body", http.MethodPost, "", http.StatusBadRequest, "Location is required"},
		{"missing field", http.MethodPost, `{}`, http.StatusBadRequest, "Location is required"},
		{"blank location", http.MethodPost, `{"location":"   "}`, http.StatusBadRequest, "Location is required"},
		{"too long", http.MethodPost, fmt.Sprintf(`{"location":%q}`, strings.Repeat("ø", 201)), http.StatusBadRequest, "Location is too long"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{script: lakeScript}
			srv := New(defaultOptions(), gen, nil, nil)

			rec := doRequest(t, srv.Handler(), tc.method, tc.body)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, decodeError(t, rec))
			assert.Zero(t, gen.calls)
		})
	}
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	opts := defaultOptions()
	opts.KeyConfigured = false
	gen := &fakeGenerator{script: lakeScript}
	srv := New(opts, gen, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, `{"location":"lake"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Groq API Key is missing. Please set GROQ_API_KEY in the environment.", decodeError(t, rec))
	assert.Zero(t, gen.calls)
}

func TestGenerate_GeneratorFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"bad format", fmt.Errorf("parse: %w", scriptgen.ErrUnexpectedFormat), "Unexpected AI response format"},
		{"upstream", errors.New("connection refused"), "Failed to generate meditation script"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := New(defaultOptions(), &fakeGenerator{err: tc.err}, nil, nil)

			rec := doRequest(t, srv.Handler(), http.MethodPost, `{"location":"lake"}`)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tc.msg, decodeError(t, rec))
		})
	}
}

func TestGenerate_UsesCacheOnRepeatRequests(t *testing.T) {
	cache, err := scriptcache.Open(filepath.Join(t.TempDir(), "scripts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	gen := &fakeGenerator{script: lakeScript}
	srv := New(defaultOptions(), gen, cache, nil)

	first := doRequest(t, srv.Handler(), http.MethodPost, `{"location":"Peaceful Lake"}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, srv.Handler(), http.MethodPost, `{"location":"peaceful   lake"}`)
	require.Equal(t, http.StatusOK, second.Code)

	var payload GenerateResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &payload))
	assert.True(t, payload.Cached)
	assert.Equal(t, []string(lakeScript), payload.Script)
	assert.Equal(t, 1, gen.calls)
}

func TestHealth(t *testing.T) {
	opts := defaultOptions()
	opts.KeyConfigured = false
	srv := New(opts, &fakeGenerator{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, HealthResponse{Status: "ok", Provider: "groq", Model: "llama-3.3-70b-versatile"}, payload)
}

func TestRequestIDIsReusedWhenValid(t *testing.T) {
	srv := New(defaultOptions(), &fakeGenerator{}, nil, nil)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	srv := New(defaultOptions(), &fakeGenerator{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decodeError(t, rec))
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(defaultOptions(), &fakeGenerator{script: lakeScript}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
