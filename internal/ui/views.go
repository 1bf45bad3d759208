package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/auragen/internal/meditation"
)

// breathFrames grow over the inhale and shrink over the exhale.
var breathFrames = []string{"·", "∘", "○", "◯"}

// renderMain renders header, the phase card and footer.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	body := lipgloss.Place(
		m.width,
		bodyHeight,
		lipgloss.Center,
		lipgloss.Center,
		m.renderCard(),
		lipgloss.WithWhitespaceChars(" "),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderCard() string {
	var content string
	switch m.session.Phase {
	case meditation.PhaseInput:
		content = m.renderInput()
	case meditation.PhaseLoading:
		content = m.renderLoading()
	case meditation.PhaseMeditating:
		content = m.renderMeditating()
	case meditation.PhaseFinished:
		content = m.renderFinished()
	}
	return m.theme.Styles().Card.Width(m.cardWidth()).Render(content)
}

func (m Model) cardWidth() int {
	return clampInt(m.width-4, 20, CardMaxWidth)
}

// textWidth is the usable width inside the card.
func (m Model) textWidth() int {
	return m.cardWidth() - 10
}

func (m Model) centered(s string) string {
	return lipgloss.NewStyle().Width(m.textWidth()).Align(lipgloss.Center).Render(s)
}

func (m Model) renderInput() string {
	styles := m.theme.Styles()
	lines := []string{
		m.centered(styles.Title.Render(InputTitle)),
		"",
		m.centered(styles.MutedText.Render(InputSubtitle)),
		"",
		m.centered(m.input.View()),
		"",
		m.centered(styles.Button.Render("Generate Sanctuary")),
	}
	if m.notice != "" {
		lines = append(lines, "", m.centered(styles.WarningText.Render(m.notice)))
	}
	if m.prefs.SessionsCompleted > 0 {
		lines = append(lines, "", m.centered(styles.FaintText.Render(sessionsLabel(m.prefs.SessionsCompleted))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLoading() string {
	styles := m.theme.Styles()
	return strings.Join([]string{
		m.centered(styles.Title.Render("Crafting...")),
		"",
		m.centered(styles.MutedText.Render("Curating the atmosphere for " + truncate(m.session.Location, 48))),
		"",
		m.centered(m.spinner.View()),
	}, "\n")
}

func (m Model) renderMeditating() string {
	styles := m.theme.Styles()
	s := m.session
	elapsed := time.Duration(s.Elapsed()) * time.Second

	timer := styles.Title.Render(fmt.Sprintf("%d", s.TimeLeft)) + " " + styles.MutedText.Render("seconds")
	breath := styles.GlowText.Render(breathFrame(elapsed) + "  " + meditation.BreathCue(elapsed))
	counter := styles.FaintText.Render(fmt.Sprintf("%d / %d", s.Index+1, len(s.Script)))

	sentence := lipgloss.NewStyle().
		Width(m.textWidth()).
		Align(lipgloss.Center).
		Italic(true).
		Foreground(lipgloss.Color(m.theme.Text)).
		Render(quote(s.Current()))

	lines := []string{
		m.centered(breath),
		"",
		m.centered(timer),
		m.centered(m.progress.ViewAs(s.Progress())),
		"",
		sentence,
		"",
		m.centered(counter + "  " + styles.Badge.Render(s.Source.Label())),
	}
	if m.notice != "" {
		lines = append(lines, "", m.centered(styles.WarningText.Render(m.notice)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFinished() string {
	styles := m.theme.Styles()
	return strings.Join([]string{
		m.centered(styles.Title.Render("Breathe Out.")),
		"",
		m.centered(styles.MutedText.Render("Your sanctuary is always here for you.")),
		"",
		m.centered(styles.Button.Render("New Session")),
		"",
		m.centered(styles.FaintText.Render(sessionsLabel(m.prefs.SessionsCompleted))),
	}, "\n")
}

// breathFrame picks the ring size for the current point of the breath cycle.
func breathFrame(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	half := meditation.BreathCycle / 2
	pos := elapsed % meditation.BreathCycle
	n := len(breathFrames)
	var idx int
	if pos < half {
		idx = int(pos * time.Duration(n) / half)
	} else {
		idx = n - 1 - int((pos-half)*time.Duration(n)/half)
	}
	return breathFrames[clampInt(idx, 0, n-1)]
}

func sessionsLabel(n int) string {
	if n == 1 {
		return "1 session completed"
	}
	return fmt.Sprintf("%d sessions completed", n)
}
