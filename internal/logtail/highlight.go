package logtail

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Highlighter colors zap console lines: timestamp dimmed, level by severity.
type Highlighter struct {
	timestamp lipgloss.Style
	levels    map[string]lipgloss.Style
}

// NewHighlighter builds a Highlighter that renders through r.
func NewHighlighter(r *lipgloss.Renderer) *Highlighter {
	level := func(color string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}
	return &Highlighter{
		timestamp: r.NewStyle().Foreground(lipgloss.Color("#808080")),
		levels: map[string]lipgloss.Style{
			"DEBUG":  level("#87CEEB"),
			"INFO":   level("#5FD75F"),
			"WARN":   level("#FFD700"),
			"ERROR":  level("#FF6B6B"),
			"DPANIC": level("#FF6B6B"),
			"PANIC":  level("#FF6B6B"),
			"FATAL":  level("#FF6B6B"),
		},
	}
}

// Line highlights a single console-encoded entry. Lines that are not
// tab-separated zap entries are returned unchanged.
func (h *Highlighter) Line(line string) string {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) < 3 {
		return line
	}
	style, ok := h.levels[strings.ToUpper(stripANSI(fields[1]))]
	if !ok {
		return line
	}
	return h.timestamp.Render(fields[0]) + "\t" + style.Render(stripANSI(fields[1])) + "\t" + fields[2]
}

// Lines highlights every entry in lines.
func (h *Highlighter) Lines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = h.Line(line)
	}
	return out
}

// stripANSI removes color escapes zap adds when the level encoder colorizes.
func stripANSI(s string) string {
	if !strings.Contains(s, "\x1b[") {
		return s
	}
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && r == 'm':
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}
