// Package engine is the Flappy simulation: gravity, flaps, obstacle spawning,
// scoring and collision, advanced one frame at a time.
//
// The engine performs no I/O, starts no goroutines and takes no locks. A host
// drives it by calling Tick once per rendered frame and Flap from its input
// handler; both must be called from the same goroutine.
package engine

import "fmt"

// State is the run state machine: Idle -> Running -> Over.
type State int

const (
	Idle State = iota
	Running
	Over
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Over:
		return "over"
	default:
		return "unknown"
	}
}

// Cause records what ended a run.
type Cause int

const (
	CauseNone     Cause = iota
	CauseObstacle       // hit a pipe
	CauseCeiling        // left through the top edge
	CauseFloor          // left through the bottom edge
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseObstacle:
		return "hit a pipe"
	case CauseCeiling:
		return "flew too high"
	case CauseFloor:
		return "hit the ground"
	default:
		return "unknown"
	}
}

// Actor is the player-controlled object. X is fixed for the run.
type Actor struct {
	X      float64
	Y      float64
	VY     float64
	Radius float64
}

// Top returns the upper edge of the actor's hitbox.
func (a Actor) Top() float64 { return a.Y - a.Radius }

// Bottom returns the lower edge of the actor's hitbox.
func (a Actor) Bottom() float64 { return a.Y + a.Radius }

// Left returns the left edge of the actor's hitbox.
func (a Actor) Left() float64 { return a.X - a.Radius }

// Right returns the right edge of the actor's hitbox.
func (a Actor) Right() float64 { return a.X + a.Radius }

// Hooks are notifications fired from inside Tick. Either may be nil.
type Hooks struct {
	// OnScoreChange fires each time the score increments.
	OnScoreChange func(score int)
	// OnGameOver fires exactly once per run, on the tick that ends it.
	OnGameOver func(finalScore int)
}

// Option configures an Engine.
type Option func(*Engine)

// WithHooks installs change notifications.
func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		e.hooks = h
	}
}

// TickResult describes what happened during one Tick.
type TickResult struct {
	State  State
	Score  int
	Scored bool  // score incremented this tick
	Ended  bool  // this tick ended the run
	Cause  Cause // set when Ended
}

// Engine owns a single run's state.
type Engine struct {
	world  World
	tuning Tuning
	rng    Rand
	hooks  Hooks

	state     State
	actor     Actor
	obstacles []Obstacle
	frame     int
	score     int
	spawned   int
	cause     Cause
	notified  bool // OnGameOver already delivered for this run
}

// New creates an engine in the Idle state. It rejects worlds and tunings
// that cannot produce valid gaps rather than clamping them at runtime.
func New(w World, t Tuning, rng Rand, opts ...Option) (*Engine, error) {
	if err := t.Validate(w); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidTuning)
	}

	e := &Engine{
		world:     w,
		tuning:    t,
		rng:       rng,
		obstacles: make([]Obstacle, 0, 8),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resetActor()
	return e, nil
}

// Start begins a new run from any state, discarding the previous run.
func (e *Engine) Start() {
	e.resetActor()
	e.obstacles = e.obstacles[:0]
	e.frame = 0
	e.score = 0
	e.spawned = 0
	e.cause = CauseNone
	e.notified = false
	e.state = Running
}

func (e *Engine) resetActor() {
	e.actor = Actor{
		X:      e.world.Width * e.tuning.ActorXRatio,
		Y:      e.world.Height * 0.5,
		VY:     0,
		Radius: e.tuning.ActorRadius,
	}
}

// Flap sets the actor's vertical velocity to the flap impulse.
// It is a no-op unless the run is Running.
func (e *Engine) Flap() {
	if e.state != Running {
		return
	}
	e.actor.VY = e.tuning.FlapImpulse
}

// Tick advances the run by one frame. It is a no-op unless Running.
func (e *Engine) Tick() TickResult {
	if e.state != Running {
		return TickResult{State: e.state, Score: e.score}
	}

	var res TickResult

	// Gravity, semi-implicit Euler.
	e.actor.VY += e.tuning.Gravity
	e.actor.Y += e.actor.VY

	if e.frame%e.tuning.SpawnInterval == 0 {
		e.obstacles = append(e.obstacles, spawnObstacle(e.rng, e.world, e.tuning))
		e.spawned++
	}

	e.advanceObstacles()

	if e.scorePassed() {
		res.Scored = true
	}

	cause := CauseNone
	if e.hitsObstacle() {
		cause = CauseObstacle
	} else if c := e.hitsBounds(); c != CauseNone {
		cause = c
	}

	e.frame++

	if cause != CauseNone {
		e.finish(cause)
		res.Ended = true
		res.Cause = cause
	}

	res.State = e.state
	res.Score = e.score
	return res
}

// advanceObstacles moves every obstacle left and drops those past the
// removal threshold, preserving spawn order.
func (e *Engine) advanceObstacles() {
	limit := -e.tuning.RemovalMargin
	kept := e.obstacles[:0]
	for _, o := range e.obstacles {
		o.X -= e.tuning.Speed
		if o.Right(e.tuning.ObstacleWidth) < limit {
			continue
		}
		kept = append(kept, o)
	}
	e.obstacles = kept
}

// scorePassed flags obstacles whose trailing edge is behind the actor and
// returns whether any were newly passed.
func (e *Engine) scorePassed() bool {
	scored := false
	for i := range e.obstacles {
		o := &e.obstacles[i]
		if o.Passed || o.Right(e.tuning.ObstacleWidth) >= e.actor.X {
			continue
		}
		o.Passed = true
		e.score++
		scored = true
		if e.hooks.OnScoreChange != nil {
			e.hooks.OnScoreChange(e.score)
		}
	}
	return scored
}

// hitsObstacle checks every obstacle; the result does not depend on order.
func (e *Engine) hitsObstacle() bool {
	p := e.tuning.Collision
	a := e.actor
	for _, o := range e.obstacles {
		if !p.overlaps(a.Left(), a.Right(), o.X, o.Right(e.tuning.ObstacleWidth)) {
			continue
		}
		if p.below(o.GapTop, a.Top()) || p.below(a.Bottom(), o.GapBottom()) {
			return true
		}
	}
	return false
}

func (e *Engine) hitsBounds() Cause {
	p := e.tuning.Collision
	switch {
	case p.below(0, e.actor.Top()):
		return CauseCeiling
	case p.below(e.actor.Bottom(), e.world.Height):
		return CauseFloor
	}
	return CauseNone
}

// finish moves the run to Over and delivers OnGameOver at most once.
func (e *Engine) finish(cause Cause) {
	e.state = Over
	e.cause = cause
	if e.notified {
		return
	}
	e.notified = true
	if e.hooks.OnGameOver != nil {
		e.hooks.OnGameOver(e.score)
	}
}

// Score returns the current run's score.
func (e *Engine) Score() int { return e.score }

// IsOver reports whether the run has ended.
func (e *Engine) IsOver() bool { return e.state == Over }

// State returns the current run state.
func (e *Engine) State() State { return e.state }

// Frame returns the number of ticks processed this run.
func (e *Engine) Frame() int { return e.frame }

// Spawned returns how many obstacles this run has spawned, including those
// already removed.
func (e *Engine) Spawned() int { return e.spawned }

// Cause returns what ended the run, or CauseNone.
func (e *Engine) Cause() Cause { return e.cause }

// Actor returns a copy of the actor.
func (e *Engine) Actor() Actor { return e.actor }

// Obstacles returns a copy of the live obstacles in spawn order.
func (e *Engine) Obstacles() []Obstacle {
	out := make([]Obstacle, len(e.obstacles))
	copy(out, e.obstacles)
	return out
}

// World returns the playfield size.
func (e *Engine) World() World { return e.world }

// Tuning returns the constants the engine was built with.
func (e *Engine) Tuning() Tuning { return e.tuning }
