package meditation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Phase is a step of the meditation flow.
type Phase string

const (
	PhaseInput      Phase = "input"
	PhaseLoading    Phase = "loading"
	PhaseMeditating Phase = "meditating"
	PhaseFinished   Phase = "finished"
)

// DefaultDuration is the length of a breathing session in seconds.
const DefaultDuration = 60

// BreathCycle is the length of one inhale/exhale cycle.
const BreathCycle = 8 * time.Second

var (
	// ErrEmptyLocation is returned when a session is started without a location.
	ErrEmptyLocation = errors.New("location is required")
	// ErrInvalidTransition is returned when an operation does not apply to the current phase.
	ErrInvalidTransition = errors.New("invalid phase transition")
)

// Session tracks one pass through the meditation flow.
// The zero value is not ready for use; call NewSession.
type Session struct {
	Phase    Phase
	Location string
	Theme    string
	Script   Script
	Source   Source
	Duration int // seconds
	TimeLeft int // seconds
	Index    int

	// Generation changes on every start and reset so late timer ticks from a
	// previous session can be told apart.
	Generation int
}

// NewSession returns a session in the input phase. Non-positive durations use
// DefaultDuration.
func NewSession(duration int) *Session {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Session{
		Phase:    PhaseInput,
		Theme:    DefaultTheme,
		Duration: duration,
		TimeLeft: duration,
	}
}

// Start moves from input to loading for the given location.
func (s *Session) Start(location string) error {
	if s.Phase != PhaseInput {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.Phase)
	}
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return ErrEmptyLocation
	}
	s.Location = trimmed
	s.Theme = ThemeFor(trimmed)
	s.Script = nil
	s.Source = ""
	s.Index = 0
	s.TimeLeft = s.Duration
	s.Generation++
	s.Phase = PhaseLoading
	return nil
}

// Begin installs the script and starts the countdown.
func (s *Session) Begin(script Script, source Source) error {
	if s.Phase != PhaseLoading {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, s.Phase)
	}
	if err := script.Validate(); err != nil {
		return err
	}
	s.Script = script.Clone()
	s.Source = source
	s.TimeLeft = s.Duration
	s.Index = 0
	s.Phase = PhaseMeditating
	return nil
}

// Tick advances the countdown by one second. It reports whether anything changed.
func (s *Session) Tick() bool {
	if s.Phase != PhaseMeditating {
		return false
	}
	if s.TimeLeft > 0 {
		s.TimeLeft--
	}
	s.Index = ScriptIndex(s.TimeLeft, s.Duration, len(s.Script))
	if s.TimeLeft == 0 {
		s.Phase = PhaseFinished
	}
	return true
}

// Reset returns the session to the input phase.
func (s *Session) Reset() {
	s.Phase = PhaseInput
	s.Location = ""
	s.Theme = DefaultTheme
	s.Script = nil
	s.Source = ""
	s.Index = 0
	s.TimeLeft = s.Duration
	s.Generation++
}

// Current returns the sentence on display, or "" outside the meditating phase.
func (s *Session) Current() string {
	if s.Phase != PhaseMeditating || len(s.Script) == 0 {
		return ""
	}
	return s.Script[s.Index]
}

// Elapsed returns the seconds spent in the current countdown.
func (s *Session) Elapsed() int {
	return s.Duration - s.TimeLeft
}

// Progress returns the completed fraction of the countdown in [0, 1].
func (s *Session) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := float64(s.Elapsed()) / float64(s.Duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// ScriptIndex maps the remaining time onto a sentence index. Each sentence is
// shown for duration/n seconds; the last one stays up until the end.
func ScriptIndex(timeLeft, duration, n int) int {
	if n <= 0 || duration <= 0 {
		return 0
	}
	elapsed := duration - timeLeft
	if elapsed < 0 {
		elapsed = 0
	}
	// floor(elapsed / (duration/n)) without the float division.
	idx := elapsed * n / duration
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// BreathCue returns "Inhale" for the first half of each breathing cycle and
// "Exhale" for the second.
func BreathCue(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed%BreathCycle < BreathCycle/2 {
		return "Inhale"
	}
	return "Exhale"
}
