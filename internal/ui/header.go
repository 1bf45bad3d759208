package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	brandText   = "✧ AURA GEN"
	navText     = "LIBRARY   SESSIONS   ABOUT"
	footerLeft  = "© 2026 AURA GEN"
	footerRight = "RELAXED • FOCUSED • PRESENT"
)

// renderHeader renders the brand bar with service status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	left := styles.Brand.Render(brandText)
	middle := styles.FaintText.Render(navText)
	right := m.renderServiceStatus(styles)
	return m.renderBar(styles, left, middle, right)
}

// renderServiceStatus describes the script service as seen by the poller.
func (m Model) renderServiceStatus(styles Styles) string {
	snap := m.snapshot
	switch {
	case m.store == nil:
		return styles.FaintText.Render("○ LOCAL")
	case snap.IsOffline():
		return styles.DangerText.Render("○ " + classifyConnectionError(snap.LastError))
	case !snap.HasHealth:
		return styles.WarningText.Render("◌ CONNECTING")
	case !snap.Health.KeyConfigured:
		return styles.WarningText.Render("● NO API KEY")
	default:
		out := styles.SuccessText.Render("● ONLINE")
		if snap.Health.Model != "" {
			out += " " + styles.FaintText.Render(truncate(snap.Health.Model, 28))
		}
		return out
	}
}

// classifyConnectionError maps a poll error to a short status label.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderFooter renders the closing bar with key hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	left := styles.FaintText.Render(footerLeft)
	middle := styles.MutedText.Render(footerRight)
	right := m.help.ShortHelpView(m.keys.forPhase(m.session.Phase))
	return m.renderBar(styles, left, middle, right)
}

// renderBar lays out three segments across the full width. The middle
// segment is dropped when the terminal is too narrow.
func (m Model) renderBar(styles Styles, left, middle, right string) string {
	inner := m.width - 2
	lw, mw, rw := lipgloss.Width(left), lipgloss.Width(middle), lipgloss.Width(right)

	var line string
	if lw+mw+rw+4 <= inner {
		gap := inner - lw - mw - rw
		lg := gap / 2
		line = left + strings.Repeat(" ", lg) + middle + strings.Repeat(" ", gap-lg) + right
	} else if lw+rw+1 <= inner {
		line = left + strings.Repeat(" ", inner-lw-rw) + right
	} else {
		line = left
	}
	return styles.Bar.Width(m.width).Render(line)
}
