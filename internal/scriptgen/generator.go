// Package scriptgen turns a location into a six-sentence guided breathing script.
package scriptgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/auragen/internal/llm"
	"github.com/five82/auragen/internal/meditation"
)

// SystemPrompt instructs the model how to shape the script.
const SystemPrompt = "You are a calming meditation guide. Generate a 1-minute breathing exercise script based on the provided location. " +
	"Use the location's atmosphere to make it immersive. The script MUST be exactly 6 short, soothing sentences. " +
	"Return ONLY a JSON object with a 'script' key containing an array of 6 strings."

// ErrUnexpectedFormat is returned when the model answer is not six sentences.
var ErrUnexpectedFormat = errors.New("unexpected AI response format")

// Generator asks a model for meditation scripts.
type Generator struct {
	completer llm.Completer
	logger    *zap.Logger
}

// New returns a Generator backed by completer. A nil logger is replaced by a no-op logger.
func New(completer llm.Completer, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{completer: completer, logger: logger}
}

type scriptPayload struct {
	Script []string `json:"script"`
}

// UserPrompt formats the user message for a location.
func UserPrompt(location string) string {
	return "Location: " + strings.TrimSpace(location)
}

// Generate requests a script for location.
func (g *Generator) Generate(ctx context.Context, location string) (meditation.Script, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, meditation.ErrEmptyLocation
	}
	if g == nil || g.completer == nil {
		return nil, errors.New("script generator not configured")
	}

	content, err := g.completer.CompleteJSON(ctx, SystemPrompt, UserPrompt(location))
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}

	script, err := ParseScript(content)
	if err != nil {
		g.logger.Warn("model returned unusable script",
			zap.String("location", location),
			zap.Error(err),
		)
		return nil, err
	}
	g.logger.Debug("script generated", zap.String("location", location))
	return script, nil
}

// ParseScript extracts and validates the script array from a model response.
func ParseScript(content string) (meditation.Script, error) {
	var payload scriptPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedFormat, err)
	}
	script := make(meditation.Script, 0, len(payload.Script))
	for _, line := range payload.Script {
		script = append(script, strings.TrimSpace(line))
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedFormat, err)
	}
	return script, nil
}
