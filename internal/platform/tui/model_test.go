package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-micro/internal/core"
	"github.com/vovakirdan/flappy-micro/internal/leaderboard"
)

type fakeGateway struct {
	mu        sync.Mutex
	submitted []leaderboard.Entry
	top       []leaderboard.Entry
	err       error
}

func (g *fakeGateway) Submit(_ context.Context, e leaderboard.Entry) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.submitted = append(g.submitted, e)
	return nil
}

func (g *fakeGateway) Top(_ context.Context, limit int) ([]leaderboard.Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	if limit < len(g.top) {
		return g.top[:limit], nil
	}
	return g.top, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, gw leaderboard.Gateway) Model {
	t.Helper()
	opts := Options{
		Logger:        log.New(io.Discard),
		Seed:          7,
		ScreenshotDir: t.TempDir(),
	}
	if gw != nil {
		opts.Gateway = gw
	}
	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

// enterName types a name and confirms it.
func enterName(t *testing.T, m Model, name string) Model {
	t.Helper()
	m, _ = update(t, m, runes(name))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phasePlay {
		t.Fatalf("expected play phase after entering %q, got %d", name, m.phase)
	}
	return m
}

// playUntilOver ticks an idle bird until it hits the ground and returns the
// command produced by the final tick.
func playUntilOver(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	for i := 0; i < 500; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, TickMsg{gen: m.gen})
		if !m.ticking {
			return m, cmd
		}
	}
	t.Fatal("run never ended")
	return m, nil
}

func TestNameIsRequired(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, runes("   "))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.phase != phaseName {
		t.Fatalf("blank name should keep the form open, phase %d", m.phase)
	}
	if m.nameErr != "Please enter your name!" {
		t.Errorf("nameErr = %q", m.nameErr)
	}
	if !strings.Contains(m.View(), "Please enter your name!") {
		t.Error("error should be shown on the form")
	}
}

func TestNameFormShowsGameTitle(t *testing.T) {
	m := newTestModel(t, nil)

	if !strings.Contains(m.View(), "FLAPPY MICRO") {
		t.Errorf("name form should carry the game title:\n%s", m.View())
	}
}

func TestNameIsTrimmed(t *testing.T) {
	m := newTestModel(t, nil)
	m = enterName(t, m, "  ann  ")

	if m.Player() != "ann" {
		t.Errorf("Player() = %q, expected %q", m.Player(), "ann")
	}
	if !m.game.Standby() {
		t.Error("game should wait for the first flap")
	}
	if m.ticking {
		t.Error("loop should not run before the first flap")
	}
}

func TestFlapStartsRun(t *testing.T) {
	m := newTestModel(t, nil)
	m = enterName(t, m, "ann")

	m, cmd := update(t, m, runes("w"))

	if !m.ticking || cmd == nil {
		t.Fatal("first flap should start the frame loop")
	}
	if !m.game.Running() {
		t.Error("game should be running")
	}

	m, _ = update(t, m, TickMsg{gen: m.gen})
	if m.game.Engine().Frame() != 1 {
		t.Errorf("frame = %d, expected 1", m.game.Engine().Frame())
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	m := newTestModel(t, nil)
	m = enterName(t, m, "ann")
	m, _ = update(t, m, runes("w"))

	m, cmd := update(t, m, TickMsg{gen: m.gen - 1})

	if cmd != nil {
		t.Error("stale tick should not schedule another")
	}
	if m.game.Engine().Frame() != 0 {
		t.Errorf("stale tick advanced the engine to frame %d", m.game.Engine().Frame())
	}
}

func TestFlapAppliedOnNextTick(t *testing.T) {
	m := newTestModel(t, nil)
	m = enterName(t, m, "ann")
	m, _ = update(t, m, runes("w"))

	m, _ = update(t, m, runes("w"))
	m, _ = update(t, m, TickMsg{gen: m.gen})

	a := m.game.Engine().Actor()
	want := m.opts.Tuning.FlapImpulse + m.opts.Tuning.Gravity
	if a.VY != want {
		t.Errorf("VY = %f, expected %f", a.VY, want)
	}
	if m.input.Has(core.ActionFlap) {
		t.Error("input should be cleared after the tick")
	}
}

func TestRunSubmitsOnGameOver(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(t, gw)
	m = enterName(t, m, "ann")
	m, _ = update(t, m, runes("w"))

	m, cmd := playUntilOver(t, m)

	if !m.game.State().GameOver {
		t.Fatal("expected game over")
	}
	if cmd == nil {
		t.Fatal("game over should produce a submission")
	}
	msg, ok := cmd().(submittedMsg)
	if !ok {
		t.Fatalf("expected submittedMsg, got %T", msg)
	}
	if len(gw.submitted) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(gw.submitted))
	}
	got := gw.submitted[0]
	if got.PlayerName != "ann" || got.Score != m.game.State().Score {
		t.Errorf("submitted %+v", got)
	}

	m, cmd = update(t, m, msg)
	if !strings.Contains(m.status, "saved") {
		t.Errorf("status = %q", m.status)
	}
	if cmd == nil {
		t.Error("a saved score should schedule a refresh")
	}
}

func TestSubmissionFailureKeepsPlaying(t *testing.T) {
	gw := &fakeGateway{err: errors.New("down")}
	m := newTestModel(t, gw)
	m = enterName(t, m, "ann")
	m, _ = update(t, m, runes("w"))
	m, cmd := playUntilOver(t, m)

	m, _ = update(t, m, cmd())

	if !strings.Contains(m.status, "not saved") {
		t.Errorf("status = %q", m.status)
	}
	m, cmd = update(t, m, runes("r"))
	if !m.ticking || cmd == nil {
		t.Error("restart should work after a failed submission")
	}
}

func TestOfflineRunIsNotSubmitted(t *testing.T) {
	m := newTestModel(t, nil)
	m = enterName(t, m, "ann")
	m, _ = update(t, m, runes("w"))

	m, cmd := playUntilOver(t, m)

	if cmd != nil {
		t.Error("no gateway means nothing to submit")
	}
	if !strings.Contains(m.status, "offline") {
		t.Errorf("status = %q", m.status)
	}
}

func TestStopDiscardsRun(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(t, gw)
	m = enterName(t, m, "ann")
	m, _ = update(t, m, runes("w"))
	m, _ = update(t, m, TickMsg{gen: m.gen})
	oldGen := m.gen

	m, _ = update(t, m, runes("b"))

	if m.phase != phaseName {
		t.Errorf("stop should return to the name form, phase %d", m.phase)
	}
	if !m.game.Standby() || m.ticking {
		t.Error("stop should halt the run")
	}
	if _, cmd := update(t, m, TickMsg{gen: oldGen}); cmd != nil {
		t.Error("tick from the stopped loop should be dropped")
	}
	if len(gw.submitted) != 0 {
		t.Errorf("stopped run was submitted: %+v", gw.submitted)
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	m := newTestModel(t, nil)
	m = enterName(t, m, "ann")
	m, _ = update(t, m, runes("w"))
	m, _ = playUntilOver(t, m)
	gen := m.gen

	m, cmd := update(t, m, runes("r"))

	if !m.ticking || cmd == nil || m.gen == gen {
		t.Error("r should start a fresh loop")
	}
	if m.game.State().Score != 0 || m.game.Engine().Frame() != 0 {
		t.Error("restart should reset the run")
	}
	if m.Player() != "ann" {
		t.Errorf("restart should keep the player, got %q", m.Player())
	}
}

func TestNewPlayerAfterGameOver(t *testing.T) {
	m := newTestModel(t, nil)
	m = enterName(t, m, "ann")
	m, _ = update(t, m, runes("w"))
	m, _ = playUntilOver(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.phase != phaseName || m.Player() != "" {
		t.Errorf("enter should ask for a new player, phase %d player %q", m.phase, m.Player())
	}
	if m.nameInput.Value() != "" {
		t.Error("name form should be cleared")
	}
	m = enterName(t, m, "bob")
	if m.Player() != "bob" {
		t.Errorf("Player() = %q", m.Player())
	}
}

func TestRestartIgnoredWhileRunning(t *testing.T) {
	m := newTestModel(t, nil)
	m = enterName(t, m, "ann")
	m, _ = update(t, m, runes("w"))
	gen := m.gen

	m, cmd := update(t, m, runes("r"))

	if cmd != nil || m.gen != gen {
		t.Error("r should do nothing mid-run")
	}
}

func TestScoreboardPausesRun(t *testing.T) {
	m := newTestModel(t, &fakeGateway{})
	m = enterName(t, m, "ann")
	m, _ = update(t, m, runes("w"))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.phase != phaseScores {
		t.Fatalf("tab should open the scoreboard, phase %d", m.phase)
	}
	if !m.game.State().Paused {
		t.Error("opening the scoreboard should pause the run")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.phase != phasePlay {
		t.Errorf("esc should return to play, phase %d", m.phase)
	}
	if !m.game.State().Paused {
		t.Error("run should stay paused until the player resumes")
	}
}

func TestPanelPolling(t *testing.T) {
	gw := &fakeGateway{top: []leaderboard.Entry{{PlayerName: "ann", Score: 3}}}
	m := newTestModel(t, gw)

	msg := fetchTopCmd(gw, m.opts.PanelLimit, true)()
	m, cmd := update(t, m, msg)
	if cmd == nil {
		t.Error("polled fetch should schedule the next poll")
	}
	if len(m.panel.entries) != 1 {
		t.Errorf("panel entries = %d, expected 1", len(m.panel.entries))
	}

	_, cmd = update(t, m, fetchTopCmd(gw, m.opts.PanelLimit, false)())
	if cmd != nil {
		t.Error("one-off fetch should not reschedule")
	}
}

func TestPanelKeepsEntriesOnError(t *testing.T) {
	p := panel{}
	p.apply(scoresMsg{entries: []leaderboard.Entry{{PlayerName: "ann", Score: 3}}})
	p.apply(scoresMsg{err: errors.New("down")})

	if len(p.entries) != 1 {
		t.Errorf("entries dropped on error: %+v", p.entries)
	}
	if !strings.Contains(p.View(), "offline") {
		t.Error("panel should mark itself offline")
	}
}

func TestPanelView(t *testing.T) {
	tests := []struct {
		name  string
		panel panel
		want  string
	}{
		{"loading", panel{}, "Loading..."},
		{"empty", panel{loaded: true}, "No scores yet"},
		{"entries", panel{loaded: true, entries: []leaderboard.Entry{{PlayerName: "bob", Score: 12}}}, "1. bob"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.panel.View(); !strings.Contains(got, tc.want) {
				t.Errorf("View() missing %q:\n%s", tc.want, got)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"ann", 5, "ann"},
		{"annabelle", 5, "anna…"},
		{"ab", 1, "a"},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestResizeMakesRoomForPanel(t *testing.T) {
	m := newTestModel(t, &fakeGateway{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.screen.Width() != 100-panelWidth-1 || m.screen.Height() != 28 {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 50, Height: 30})
	if m.screen.Width() != 50 {
		t.Errorf("narrow terminal should hide the panel, width %d", m.screen.Width())
	}
}

func TestCtrlCQuitsFromAnyPhase(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("ctrl+c on the name form should quit")
	}

	m = enterName(t, m, "ann")
	m, cmd = update(t, m, runes("q"))
	if cmd == nil || !m.quitting {
		t.Error("q during play should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestScreenshot(t *testing.T) {
	m := newTestModel(t, nil)
	m = enterName(t, m, "ann")
	_ = m.View()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if !strings.HasPrefix(m.status, "Saved ") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestMapKey(t *testing.T) {
	k := DefaultPlayKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{runes("w"), "flap"},
		{tea.KeyMsg{Type: tea.KeyUp}, "flap"},
		{runes("p"), "pause"},
		{runes("r"), "restart"},
		{tea.KeyMsg{Type: tea.KeyEnter}, "confirm"},
		{runes("b"), "back"},
		{runes("q"), "quit"},
		{runes("x"), "none"},
	}
	for _, tc := range tests {
		if got := k.MapKey(tc.msg).String(); got != tc.want {
			t.Errorf("MapKey(%q) = %s, expected %s", tc.msg.String(), got, tc.want)
		}
	}
}

func TestMapMouse(t *testing.T) {
	press := tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	if got := MapMouse(press).String(); got != "flap" {
		t.Errorf("left press = %s", got)
	}
	release := tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
	if got := MapMouse(release).String(); got != "none" {
		t.Errorf("left release = %s", got)
	}
}
