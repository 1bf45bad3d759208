// Package prefs persists auragen user preferences in
// ~/.config/auragen/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds what auragen remembers between runs.
type Prefs struct {
	LastLocation      string `toml:"last_location"`
	SessionsCompleted int    `toml:"sessions_completed"`
}

const defaultPrefsPath = "~/.config/auragen/prefs.toml"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path. Missing or unreadable files
// yield zero preferences; the error only reports an unresolvable path.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{}, fmt.Errorf("resolve path: %w", err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return Prefs{}, nil // Graceful degradation
	}

	var prefs Prefs
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Prefs{}, nil // Graceful degradation
	}
	prefs.LastLocation = strings.TrimSpace(prefs.LastLocation)
	if prefs.SessionsCompleted < 0 {
		prefs.SessionsCompleted = 0
	}
	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// RecordSession notes a completed session for location.
func (p *Prefs) RecordSession(location string) {
	if trimmed := strings.TrimSpace(location); trimmed != "" {
		p.LastLocation = trimmed
	}
	p.SessionsCompleted++
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
