package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/auragen/internal/meditation"
)

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Generate   key.Binding
	EndSession key.Binding
	NewSession key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?/f1", "Toggle help"),
		),
		Generate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Generate Sanctuary"),
		),
		EndSession: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "End session"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "New Session"),
		),
	}
}

// forPhase returns the bindings shown in the footer for phase.
func (k keyMap) forPhase(phase meditation.Phase) []key.Binding {
	switch phase {
	case meditation.PhaseInput:
		return []key.Binding{k.Generate, k.Help, k.Quit}
	case meditation.PhaseLoading, meditation.PhaseMeditating:
		return []key.Binding{k.EndSession, k.Help, k.Quit}
	case meditation.PhaseFinished:
		return []key.Binding{k.NewSession, k.Help, k.Quit}
	default:
		return []key.Binding{k.Help, k.Quit}
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.EndSession, k.NewSession},
		{k.Help, k.Quit},
	}
}
