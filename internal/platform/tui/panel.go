package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-micro/internal/leaderboard"
)

// Leaderboard polling defaults.
const (
	DefaultPanelLimit   = 5
	DefaultRefreshEvery = 3 * time.Second
	refreshAfterSubmit  = 500 * time.Millisecond
	gatewayTimeout      = 5 * time.Second
	panelWidth          = 28
)

// scoresMsg carries a leaderboard fetch result. Only polled fetches
// schedule the next poll.
type scoresMsg struct {
	entries []leaderboard.Entry
	err     error
	polled  bool
}

// pollMsg asks for a polled fetch.
type pollMsg struct{}

// submittedMsg reports a finished submission.
type submittedMsg struct {
	entry leaderboard.Entry
	err   error
}

// refreshMsg asks for a one-off fetch.
type refreshMsg struct{}

func fetchTopCmd(gw leaderboard.Gateway, limit int, polled bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		entries, err := gw.Top(ctx, limit)
		return scoresMsg{entries: entries, err: err, polled: polled}
	}
}

func pollAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return pollMsg{} })
}

// submitCmd reports a finished run. It never blocks the frame loop; the
// result arrives later as a submittedMsg.
func submitCmd(gw leaderboard.Gateway, e leaderboard.Entry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		return submittedMsg{entry: e, err: gw.Submit(ctx, e)}
	}
}

func refreshAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return refreshMsg{} })
}

// panel is the side leaderboard shown next to the playfield and the name
// form.
type panel struct {
	entries []leaderboard.Entry
	err     error
	loaded  bool
	player  string
}

func (p *panel) apply(msg scoresMsg) {
	p.loaded = true
	p.err = msg.err
	if msg.err == nil {
		p.entries = msg.entries
	}
}

var (
	panelBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(panelWidth - 2)
	panelTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	panelDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	panelSelf  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	panelErr   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (p panel) View() string {
	var b strings.Builder
	b.WriteString(panelTitle.Render("Leaderboard"))
	b.WriteString("\n\n")

	switch {
	case !p.loaded:
		b.WriteString(panelDim.Render("Loading..."))
	case len(p.entries) == 0:
		b.WriteString(panelDim.Render("No scores yet"))
	default:
		nameW := panelWidth - 14
		for i, e := range p.entries {
			line := fmt.Sprintf("%d. %-*s %5d", i+1, nameW, truncate(e.PlayerName, nameW), e.Score)
			if p.player != "" && e.PlayerName == p.player {
				line = panelSelf.Render(line)
			}
			b.WriteString(line)
			if i < len(p.entries)-1 {
				b.WriteString("\n")
			}
		}
	}

	if p.err != nil {
		b.WriteString("\n\n")
		b.WriteString(panelErr.Render("offline"))
	}
	return panelBox.Render(b.String())
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
