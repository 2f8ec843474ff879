package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappy-micro/internal/core"
)

// PlayKeyMap holds the bindings used during a run. It doubles as the help
// source for the status bar.
type PlayKeyMap struct {
	Flap       key.Binding
	Pause      key.Binding
	Restart    key.Binding
	NewPlayer  key.Binding
	Stop       key.Binding
	Scoreboard key.Binding
	Refresh    key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// DefaultPlayKeyMap returns the default bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Flap: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space", "flap"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "play again"),
		),
		NewPlayer: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "new player"),
		),
		Stop: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "stop"),
		),
		Scoreboard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flap, k.Pause, k.Stop, k.Scoreboard, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flap, k.Pause, k.Stop},
		{k.Restart, k.NewPlayer},
		{k.Scoreboard, k.Refresh, k.Screenshot, k.Quit},
	}
}

// MapKey translates a key press into a game action.
func (k PlayKeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Flap):
		return core.ActionFlap
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.NewPlayer):
		return core.ActionConfirm
	case key.Matches(msg, k.Stop):
		return core.ActionBack
	}
	return core.ActionNone
}

// MapMouse treats a left-button press as a flap.
func MapMouse(msg tea.MouseMsg) core.Action {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		return core.ActionFlap
	}
	return core.ActionNone
}
