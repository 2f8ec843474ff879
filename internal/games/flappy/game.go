// Package flappy adapts the simulation engine to the terminal host: it maps
// input frames onto flaps, owns host-level pause and draws the world into a
// character screen.
package flappy

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/flappy-micro/internal/core"
	"github.com/vovakirdan/flappy-micro/internal/games/flappy/engine"
)

// Glyphs used by Render.
const (
	BirdChar      = '@'
	BeakChar      = '>'
	PipeChar      = '█'
	PipeCapTop    = '▀'
	PipeCapBottom = '▄'
	GroundChar    = '▔'
)

// Game wraps one engine for the host.
type Game struct {
	eng     *engine.Engine
	cfg     core.RuntimeConfig
	paused  bool
	standby bool // no run in progress; waiting for Reset
}

// New builds a game over a fresh engine seeded from cfg.Seed (or the clock
// when it is zero). The game stays in standby until Reset.
func New(w engine.World, t engine.Tuning, cfg core.RuntimeConfig, hooks engine.Hooks) (*Game, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eng, err := engine.New(w, t, rand.New(rand.NewSource(seed)), engine.WithHooks(hooks))
	if err != nil {
		return nil, fmt.Errorf("flappy: %w", err)
	}
	return &Game{eng: eng, cfg: cfg, standby: true}, nil
}

// ID returns the game identifier used for scoreboards and screenshots.
func (g *Game) ID() string {
	return "flappy"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Flappy Micro"
}

// Reset starts a new run, discarding the current one.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = cfg
	g.paused = false
	g.standby = false
	g.eng.Start()
}

// Abandon drops the current run without ending it, so no game-over
// notification fires. The game returns to standby.
func (g *Game) Abandon() {
	g.paused = false
	g.standby = true
}

// Standby reports whether the game is waiting for Reset.
func (g *Game) Standby() bool {
	return g.standby
}

// Step applies one frame of input and advances the engine unless paused or
// in standby.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.standby {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) && g.eng.State() == engine.Running {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionFlap) {
		g.eng.Flap()
	}
	res := g.eng.Tick()

	out := core.StepResult{
		State:  g.State(),
		Scored: res.Scored,
		Ended:  res.Ended,
	}
	if res.Ended {
		out.Cause = res.Cause.String()
	}
	return out
}

// State returns the host-visible summary.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.eng.Score(),
		GameOver: !g.standby && g.eng.IsOver(),
		Paused:   g.paused,
	}
}

// Running reports whether a run is in progress (paused or not).
func (g *Game) Running() bool {
	return !g.standby && g.eng.State() == engine.Running
}

// Cause describes what ended the last run, or "" while it is still going.
func (g *Game) Cause() string {
	if c := g.eng.Cause(); c != engine.CauseNone {
		return c.String()
	}
	return ""
}

// Engine exposes the underlying engine for read-only inspection.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// viewport maps world coordinates onto screen cells. The bottom row is
// kept for the ground line.
type viewport struct {
	cols, rows int
	sx, sy     float64
}

func newViewport(w engine.World, dst *core.Screen) viewport {
	rows := core.Max(dst.Height()-1, 1)
	cols := core.Max(dst.Width(), 1)
	return viewport{
		cols: cols,
		rows: rows,
		sx:   float64(cols) / w.Width,
		sy:   float64(rows) / w.Height,
	}
}

func (v viewport) col(x float64) int {
	return int(math.Floor(x * v.sx))
}

func (v viewport) row(y float64) int {
	return int(math.Floor(y * v.sy))
}

// Render draws the world, HUD and pause/game-over overlays. In standby only
// the ground and the start prompt are drawn, so a stopped run leaves nothing
// behind.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}

	v := newViewport(g.eng.World(), dst)
	field := core.NewRect(0, 0, dst.Width(), v.rows)
	dst.DrawHLine(0, v.rows, dst.Width(), GroundChar, core.ColorGround)

	if g.standby {
		drawMessage(dst, "FLAPPY", line{"Press SPACE to start", core.ColorText})
		return
	}

	width := g.eng.Tuning().ObstacleWidth
	for _, o := range g.eng.Obstacles() {
		drawObstacle(dst, v, field, o, width)
	}

	a := g.eng.Actor()
	bx := core.Clamp(v.col(a.X), 0, v.cols-1)
	by := core.Clamp(v.row(a.Y), 0, v.rows-1)
	dst.SetColored(bx, by, BirdChar, core.ColorBird)
	if field.Contains(bx+1, by) {
		dst.SetColored(bx+1, by, BeakChar, core.ColorBeak)
	}

	dst.DrawTextColored(1, 0, fmt.Sprintf(" Score: %d ", g.eng.Score()), core.ColorText)

	switch {
	case g.paused:
		drawMessage(dst, "PAUSED", line{"Press P to resume", core.ColorDim})
	case g.eng.IsOver():
		drawMessage(dst, "Game Over!",
			line{fmt.Sprintf("Your Score: %d", g.eng.Score()), core.ColorText},
			line{g.Cause(), core.ColorDanger},
			line{"R play again  Enter new player", core.ColorDim})
	}
}

// drawObstacle draws both pipes of o, clipped to the playfield above the
// ground.
func drawObstacle(dst *core.Screen, v viewport, field core.Rect, o engine.Obstacle, width float64) {
	x0 := v.col(o.X)
	x1 := core.Max(v.col(o.X+width), x0+1)
	top := v.row(o.GapTop)
	bottom := int(math.Ceil(o.GapBottom() * v.sy))

	pipes := []struct {
		body  core.Rect
		edge  core.Rect
		glyph rune
	}{
		{core.NewRect(x0, 0, x1-x0, top), core.NewRect(x0, top-1, x1-x0, 1), PipeCapTop},
		{core.NewRect(x0, bottom, x1-x0, v.rows-bottom), core.NewRect(x0, bottom, x1-x0, 1), PipeCapBottom},
	}
	for _, p := range pipes {
		body := p.body.Intersect(field)
		if body.Empty() {
			continue
		}
		dst.DrawRectColored(body, PipeChar, core.ColorPipe)
		if c := p.edge.Intersect(body); !c.Empty() {
			dst.DrawRectColored(c, p.glyph, core.ColorPipeCap)
		}
	}
}

// line is one row of a message box.
type line struct {
	text  string
	color core.Color
}

// drawMessage draws a boxed, centred message. Empty lines are skipped.
func drawMessage(dst *core.Screen, title string, lines ...line) {
	body := make([]line, 0, len(lines))
	boxW := len([]rune(title))
	for _, l := range lines {
		if l.text == "" {
			continue
		}
		body = append(body, l)
		boxW = core.Max(boxW, len([]rune(l.text)))
	}
	boxW += 4
	boxH := len(body) + 4

	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	dst.DrawTextColored(box.X+(boxW-len([]rune(title)))/2, box.Y+1, title, core.ColorAccent)
	for i, l := range body {
		dst.DrawTextColored(box.X+(boxW-len([]rune(l.text)))/2, box.Y+3+i, l.text, l.color)
	}
}
