// Package tui is the Bubble Tea host for the game. It owns the frame loop,
// maps keys and mouse clicks to actions, polls the leaderboard and serves
// sessions over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one simulation step. gen identifies the loop that issued
// it so ticks from an abandoned loop are dropped.
type TickMsg struct {
	Time time.Time
	gen  int
}

// tickCmd schedules the next frame at the given rate.
func tickCmd(tickRate, gen int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, gen: gen}
	})
}
