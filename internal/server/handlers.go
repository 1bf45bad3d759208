package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/five82/auragen/internal/scriptgen"
)

type generateRequest struct {
	Location string `json:"location"`
}

// GenerateResponse is the success body of POST /api/generate-script.
type GenerateResponse struct {
	Script []string `json:"script"`
	Cached bool     `json:"cached,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	KeyConfigured bool   `json:"keyConfigured"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req generateRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		respondError(w, "Location is required", http.StatusBadRequest)
		return
	}
	if utf8.RuneCountInString(location) > maxLocationRunes {
		respondError(w, "Location is too long", http.StatusBadRequest)
		return
	}

	if !s.opts.KeyConfigured {
		provider := s.opts.Provider
		respondError(w, fmt.Sprintf("%s API Key is missing. Please set %s in the environment.", provider.Label(), provider.EnvVar()), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	logger := s.logger.With(zap.String("request_id", RequestIDFrom(ctx)), zap.String("location", location))

	if s.cache != nil {
		entry, ok, err := s.cache.Get(ctx, location, s.opts.CacheTTL)
		switch {
		case err != nil:
			logger.Warn("script cache lookup failed", zap.Error(err))
		case ok:
			logger.Debug("script cache hit")
			respondJSON(w, GenerateResponse{Script: entry.Script, Cached: true}, http.StatusOK)
			return
		}
	}

	script, err := s.generator.Generate(ctx, location)
	if err != nil {
		if errors.Is(err, scriptgen.ErrUnexpectedFormat) {
			logger.Warn("model returned malformed script", zap.Error(err))
			respondError(w, "Unexpected AI response format", http.StatusInternalServerError)
			return
		}
		logger.Error("script generation failed", zap.Error(err))
		respondError(w, "Failed to generate meditation script", http.StatusInternalServerError)
		return
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, location, script, s.opts.Model); err != nil {
			logger.Warn("script cache store failed", zap.Error(err))
		}
	}
	logger.Info("script generated")
	respondJSON(w, GenerateResponse{Script: script}, http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{
		Status:        "ok",
		Provider:      string(s.opts.Provider),
		Model:         s.opts.Model,
		KeyConfigured: s.opts.KeyConfigured,
	}, http.StatusOK)
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
