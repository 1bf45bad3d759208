package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/auragen/internal/aura"
	"github.com/five82/auragen/internal/meditation"
	"github.com/five82/auragen/internal/prefs"
	"github.com/five82/auragen/internal/state"
)

var aiScript = meditation.Script{
	"Step beneath the tall pines.",
	"Breathe in the scent of resin.",
	"Feel the needles soft underfoot.",
	"Exhale into the quiet shade.",
	"Let the wind move through you.",
	"Carry this stillness with you.",
}

type stubProvider struct {
	delivery meditation.Delivery
	calls    []string
}

func (s *stubProvider) Generate(_ context.Context, location string) meditation.Delivery {
	s.calls = append(s.calls, location)
	return s.delivery
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	m := New(opts)
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// startAndDeliver moves a model from input to meditating with script.
func startAndDeliver(t *testing.T, m Model, location string, d meditation.Delivery) Model {
	t.Helper()
	m = typeText(t, m, location)
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter returned nil cmd, want spinner and generate")
	}
	if m.session.Phase != meditation.PhaseLoading {
		t.Fatalf("phase = %q, want loading", m.session.Phase)
	}
	return update(t, m, scriptMsg{generation: m.session.Generation, delivery: d})
}

func TestNew_PrefillsLastLocation(t *testing.T) {
	m := newTestModel(t, Options{Prefs: prefs.Prefs{LastLocation: "Peaceful Lake", SessionsCompleted: 3}})

	if m.input.Value() != "Peaceful Lake" {
		t.Fatalf("input = %q, want Peaceful Lake", m.input.Value())
	}
	if m.session.Phase != meditation.PhaseInput {
		t.Fatalf("phase = %q, want input", m.session.Phase)
	}
	view := m.View()
	for _, want := range []string{"AURA GEN", "Nature Meditation", "Generate Sanctuary", "3 sessions completed", "RELAXED • FOCUSED • PRESENT"} {
		if !strings.Contains(view, want) {
			t.Fatalf("input view missing %q:\n%s", want, view)
		}
	}
}

func TestEnter_BlankLocationStaysOnInput(t *testing.T) {
	m := newTestModel(t, Options{})
	m = typeText(t, m, "   ")

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Fatalf("blank enter returned a cmd")
	}
	if m.session.Phase != meditation.PhaseInput {
		t.Fatalf("phase = %q, want input", m.session.Phase)
	}
	if !strings.Contains(m.View(), "Enter a location to begin.") {
		t.Fatalf("view missing notice")
	}
}

func TestSessionFlow_PresetLocation(t *testing.T) {
	provider := &stubProvider{delivery: meditation.Delivery{Script: aiScript, Source: meditation.SourceAI}}
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, Options{Provider: provider, PrefsPath: prefsPath})

	m = typeText(t, m, "Pine Forest")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.Phase != meditation.PhaseLoading {
		t.Fatalf("phase = %q, want loading", m.session.Phase)
	}
	if m.theme.Name != "pine-forest" {
		t.Fatalf("theme = %q, want pine-forest", m.theme.Name)
	}
	if !strings.Contains(m.View(), "Curating the atmosphere for Pine Forest") {
		t.Fatalf("loading view missing subtitle:\n%s", m.View())
	}
	if cmd == nil {
		t.Fatal("enter returned nil cmd")
	}

	msg := generateCmd(context.Background(), provider, m.session.Generation, m.session.Location)()
	m = update(t, m, msg)
	if len(provider.calls) != 1 || provider.calls[0] != "Pine Forest" {
		t.Fatalf("provider calls = %v, want [Pine Forest]", provider.calls)
	}
	if m.session.Phase != meditation.PhaseMeditating || m.session.TimeLeft != 60 {
		t.Fatalf("session = %+v, want meditating with 60s", m.session)
	}
	view := m.View()
	for _, want := range []string{"60", "seconds", "Step beneath the tall pines.", "1 / 6", "AI guided", "Inhale"} {
		if !strings.Contains(view, want) {
			t.Fatalf("meditating view missing %q:\n%s", want, view)
		}
	}

	gen := m.session.Generation
	var lastCmd tea.Cmd
	for i := 0; i < 60; i++ {
		m, lastCmd = updateCmd(t, m, tickMsg{generation: gen})
		if i == 9 && m.session.Index != 1 {
			t.Fatalf("after 10 ticks index = %d, want 1", m.session.Index)
		}
	}
	if m.session.Phase != meditation.PhaseFinished {
		t.Fatalf("phase = %q, want finished", m.session.Phase)
	}
	if m.session.Index != 5 {
		t.Fatalf("final index = %d, want 5", m.session.Index)
	}
	if m.prefs.SessionsCompleted != 1 || m.prefs.LastLocation != "Pine Forest" {
		t.Fatalf("prefs = %+v, want one session at Pine Forest", m.prefs)
	}
	if !strings.Contains(m.View(), "Breathe Out.") || !strings.Contains(m.View(), "Your sanctuary is always here for you.") {
		t.Fatalf("finished view wrong:\n%s", m.View())
	}

	saved, ok := lastCmd().(prefsSavedMsg)
	if !ok || saved.err != nil {
		t.Fatalf("save cmd = %#v, want successful prefsSavedMsg", saved)
	}
	loaded, err := prefs.Load(prefsPath)
	if err != nil || loaded.SessionsCompleted != 1 {
		t.Fatalf("prefs on disk = %+v (err %v), want one session", loaded, err)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.Phase != meditation.PhaseInput || m.input.Value() != "" || m.theme.Name != meditation.DefaultTheme {
		t.Fatalf("after new session: phase=%q input=%q theme=%q", m.session.Phase, m.input.Value(), m.theme.Name)
	}
}

func TestEsc_EndsSessionAndDropsStaleTicks(t *testing.T) {
	m := newTestModel(t, Options{})
	m = startAndDeliver(t, m, "Misty Mountains", meditation.OfflineDelivery("Misty Mountains", ""))
	oldGen := m.session.Generation

	m = update(t, m, tickMsg{generation: oldGen})
	if m.session.TimeLeft != 59 {
		t.Fatalf("TimeLeft = %d, want 59", m.session.TimeLeft)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.session.Phase != meditation.PhaseInput {
		t.Fatalf("phase = %q, want input after esc", m.session.Phase)
	}

	m, cmd := updateCmd(t, m, tickMsg{generation: oldGen})
	if cmd != nil || m.session.Phase != meditation.PhaseInput {
		t.Fatalf("stale tick changed state: phase=%q cmd=%v", m.session.Phase, cmd != nil)
	}
}

func TestStaleScriptIsIgnored(t *testing.T) {
	m := newTestModel(t, Options{})
	m = typeText(t, m, "lake")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	staleGen := m.session.Generation
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m = update(t, m, scriptMsg{generation: staleGen, delivery: meditation.Delivery{Script: aiScript, Source: meditation.SourceAI}})
	if m.session.Phase != meditation.PhaseInput {
		t.Fatalf("phase = %q, want input", m.session.Phase)
	}
}

func TestInvalidScriptFallsBackToBuiltIn(t *testing.T) {
	m := newTestModel(t, Options{})
	m = startAndDeliver(t, m, "Peaceful Lake", meditation.Delivery{Script: aiScript[:2], Source: meditation.SourceAI})

	if m.session.Phase != meditation.PhaseMeditating {
		t.Fatalf("phase = %q, want meditating", m.session.Phase)
	}
	if m.session.Source != meditation.SourcePreset {
		t.Fatalf("source = %q, want preset", m.session.Source)
	}
}

func TestNoticeIsShownWhileMeditating(t *testing.T) {
	m := newTestModel(t, Options{})
	m = startAndDeliver(t, m, "Sahara", meditation.OfflineDelivery("Sahara", "Script service offline. Using a built-in script."))

	view := m.View()
	if !strings.Contains(view, "Offline") || !strings.Contains(view, "Script service offline.") {
		t.Fatalf("view missing offline badge or notice:\n%s", view)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, Options{})

	m = typeText(t, m, "?")
	if m.showHelp || m.input.Value() != "?" {
		t.Fatalf("'?' while typing should go to the input: showHelp=%v input=%q", m.showHelp, m.input.Value())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("f1 should open help")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned nil cmd")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c cmd did not quit")
	}
}

func TestHeaderReflectsServiceHealth(t *testing.T) {
	store := &state.Store{}
	m := newTestModel(t, Options{Store: store})

	m = update(t, m, snapshotMsg(store.Snapshot()))
	if !strings.Contains(m.renderHeader(), "CONNECTING") {
		t.Fatalf("header = %q, want CONNECTING", m.renderHeader())
	}

	store.Update(&aura.HealthResponse{Status: "ok", Model: "llama-3.3-70b-versatile", KeyConfigured: true}, nil)
	m = update(t, m, snapshotMsg(store.Snapshot()))
	if !strings.Contains(m.renderHeader(), "ONLINE") {
		t.Fatalf("header = %q, want ONLINE", m.renderHeader())
	}

	store.Update(nil, errors.New("dial tcp: connection refused"))
	store.Update(nil, errors.New("dial tcp: connection refused"))
	m = update(t, m, snapshotMsg(store.Snapshot()))
	if !strings.Contains(m.renderHeader(), "OFFLINE") {
		t.Fatalf("header = %q, want OFFLINE", m.renderHeader())
	}
}

func TestGenerateCmd_NilProviderUsesBuiltIn(t *testing.T) {
	msg := generateCmd(context.Background(), nil, 7, "Peaceful Lake")().(scriptMsg)
	if msg.generation != 7 || msg.delivery.Source != meditation.SourcePreset {
		t.Fatalf("msg = %+v, want generation 7 preset delivery", msg)
	}
}

func TestBreathFrame(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "·"},
		{3 * time.Second, "◯"},
		{4 * time.Second, "◯"},
		{7 * time.Second, "·"},
		{8 * time.Second, "·"},
		{-time.Second, "·"},
	}
	for _, tt := range tests {
		if got := breathFrame(tt.elapsed); got != tt.want {
			t.Errorf("breathFrame(%v) = %q, want %q", tt.elapsed, got, tt.want)
		}
	}
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "OFFLINE"},
		{errors.New("dial tcp 127.0.0.1:8787: connect: connection refused"), "OFFLINE"},
		{errors.New("lookup aura: no such host"), "HOST NOT FOUND"},
		{errors.New("context deadline exceeded"), "TIMEOUT"},
		{errors.New("boom"), "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyConnectionError(tt.err); got != tt.want {
			t.Errorf("classifyConnectionError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
