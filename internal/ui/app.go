package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/auragen/internal/meditation"
	"github.com/five82/auragen/internal/prefs"
	"github.com/five82/auragen/internal/state"
)

// ScriptProvider supplies the script for a new session.
type ScriptProvider interface {
	Generate(ctx context.Context, location string) meditation.Delivery
}

// Options configures the UI.
type Options struct {
	Context        context.Context
	Provider       ScriptProvider
	Store          *state.Store
	Prefs          prefs.Prefs
	PrefsPath      string
	SessionSeconds int
	StatusTick     time.Duration
	ServiceURL     string
	Logger         *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	provider   ScriptProvider
	store      *state.Store
	prefsPath  string
	statusTick time.Duration
	serviceURL string
	logger     *zap.Logger

	// UI state
	theme    Theme
	keys     keyMap
	width    int
	height   int
	ready    bool
	showHelp bool
	notice   string

	// Session state
	session  *meditation.Session
	prefs    prefs.Prefs
	snapshot state.Snapshot

	// Widgets
	input    textinput.Model
	spinner  spinner.Model
	progress progress.Model
	help     help.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	statusTick := opts.StatusTick
	if statusTick <= 0 {
		statusTick = DefaultStatusInterval
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Placeholder = InputPlaceholder
	input.CharLimit = MaxLocationLength
	input.Width = InputWidth
	input.Prompt = "› "
	input.SetValue(opts.Prefs.LastLocation)
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:        ctx,
		provider:   opts.Provider,
		store:      opts.Store,
		prefsPath:  prefsPath,
		statusTick: statusTick,
		serviceURL: opts.ServiceURL,
		logger:     logger,
		keys:       DefaultKeyMap(),
		session:    meditation.NewSession(opts.SessionSeconds),
		prefs:      opts.Prefs,
		input:      input,
		spinner:    spin,
		progress:   progress.New(progress.WithSolidFill(defaultTheme().Glow), progress.WithoutPercentage()),
		help:       help.New(),
	}
	m.applyTheme(GetTheme(meditation.DefaultTheme))
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, statusTickCmd(m.statusTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clampInt(msg.Width-16, 10, ProgressMaxWidth)
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case scriptMsg:
		return m.handleScript(msg)

	case tickMsg:
		return m.handleTick(msg)

	case spinner.TickMsg:
		if m.session.Phase != meditation.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusTickMsg:
		cmds := []tea.Cmd{statusTickCmd(m.statusTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save prefs", zap.Error(msg.err))
		}
		return m, nil
	}

	if m.session.Phase == meditation.PhaseInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Runes belong to the location field while typing.
	if key.Matches(msg, m.keys.Help) && (m.session.Phase != meditation.PhaseInput || msg.Type != tea.KeyRunes) {
		m.showHelp = true
		return m, nil
	}

	switch m.session.Phase {
	case meditation.PhaseInput:
		if key.Matches(msg, m.keys.Generate) {
			return m.startSession()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.notice != "" && m.input.Value() != "" {
			m.notice = ""
		}
		return m, cmd

	case meditation.PhaseLoading, meditation.PhaseMeditating:
		if key.Matches(msg, m.keys.EndSession) {
			m.logger.Info("session ended early",
				zap.String("location", m.session.Location),
				zap.Int("time_left", m.session.TimeLeft))
			m.reset()
		}
		return m, nil

	case meditation.PhaseFinished:
		if key.Matches(msg, m.keys.NewSession) {
			m.reset()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m Model) startSession() (tea.Model, tea.Cmd) {
	location := m.input.Value()
	if err := m.session.Start(location); err != nil {
		if errors.Is(err, meditation.ErrEmptyLocation) {
			m.notice = "Enter a location to begin."
		}
		return m, nil
	}
	m.notice = ""
	m.input.Blur()
	m.applyTheme(GetTheme(m.session.Theme))
	m.logger.Info("session started",
		zap.String("location", m.session.Location),
		zap.String("theme", m.session.Theme))

	return m, tea.Batch(
		m.spinner.Tick,
		generateCmd(m.ctx, m.provider, m.session.Generation, m.session.Location),
	)
}

func (m Model) handleScript(msg scriptMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.session.Generation || m.session.Phase != meditation.PhaseLoading {
		return m, nil
	}
	delivery := msg.delivery
	if err := m.session.Begin(delivery.Script, delivery.Source); err != nil {
		m.logger.Warn("unusable script, using built-in", zap.Error(err))
		delivery = meditation.OfflineDelivery(m.session.Location, "")
		if err := m.session.Begin(delivery.Script, delivery.Source); err != nil {
			m.logger.Error("begin session", zap.Error(err))
			m.reset()
			return m, nil
		}
	}
	m.notice = delivery.Notice
	return m, tickCmd(m.session.Generation)
}

func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.session.Generation || m.session.Phase != meditation.PhaseMeditating {
		return m, nil
	}
	m.session.Tick()
	if m.session.Phase != meditation.PhaseFinished {
		return m, tickCmd(m.session.Generation)
	}

	m.prefs.RecordSession(m.session.Location)
	m.logger.Info("session finished",
		zap.String("location", m.session.Location),
		zap.String("source", string(m.session.Source)),
		zap.Int("sessions_completed", m.prefs.SessionsCompleted))
	return m, savePrefsCmd(m.prefsPath, m.prefs)
}

// reset returns to the input phase with an empty field.
func (m *Model) reset() {
	m.session.Reset()
	m.notice = ""
	m.input.SetValue("")
	m.input.Focus()
	m.applyTheme(GetTheme(meditation.DefaultTheme))
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	m.input.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	m.input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
	m.input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	m.progress.FullColor = t.Glow
	m.progress.EmptyColor = t.Border
}

// Messages

type tickMsg struct {
	generation int
}

type statusTickMsg time.Time

type snapshotMsg state.Snapshot

type scriptMsg struct {
	generation int
	delivery   meditation.Delivery
}

type prefsSavedMsg struct {
	err error
}

// Commands

func tickCmd(generation int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

func statusTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func generateCmd(ctx context.Context, provider ScriptProvider, generation int, location string) tea.Cmd {
	return func() tea.Msg {
		if provider == nil {
			return scriptMsg{generation: generation, delivery: meditation.OfflineDelivery(location, "")}
		}
		return scriptMsg{generation: generation, delivery: provider.Generate(ctx, location)}
	}
}

func savePrefsCmd(path string, p prefs.Prefs) tea.Cmd {
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
