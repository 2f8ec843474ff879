package engine

import (
	"errors"
	"fmt"
)

// Errors returned by New when a world or tuning cannot produce a playable run.
var (
	ErrInvalidWorld  = errors.New("engine: invalid world")
	ErrInvalidTuning = errors.New("engine: invalid tuning")
)

// GapPolicy selects how an obstacle's gap size is chosen at spawn.
type GapPolicy int

const (
	// GapRandom draws the gap size uniformly from [MinGap, MaxGap].
	GapRandom GapPolicy = iota
	// GapFixed always uses MinGap.
	GapFixed
)

func (p GapPolicy) String() string {
	switch p {
	case GapRandom:
		return "random"
	case GapFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// CollisionPolicy selects whether touching a boundary counts as a hit.
// It applies to obstacles and to the world's top and bottom edges alike.
type CollisionPolicy int

const (
	// CollisionStrict uses open intervals: an actor exactly tangent to a
	// pipe or world edge survives.
	CollisionStrict CollisionPolicy = iota
	// CollisionInclusive uses closed intervals: tangency is a hit.
	CollisionInclusive
)

func (p CollisionPolicy) String() string {
	switch p {
	case CollisionStrict:
		return "strict"
	case CollisionInclusive:
		return "inclusive"
	default:
		return "unknown"
	}
}

// World is the size of the simulated playfield in world units.
// Y grows downward; the top edge is 0.
type World struct {
	Width  float64
	Height float64
}

// Tuning holds every constant the simulation uses. Per-tick quantities are in
// world units per frame.
type Tuning struct {
	Gravity       float64 // added to vertical velocity every tick
	FlapImpulse   float64 // velocity set by a flap (negative = up)
	Speed         float64 // obstacle leftward speed
	SpawnInterval int     // frames between obstacle spawns

	MinGap    float64
	MaxGap    float64
	GapPolicy GapPolicy
	Margin    float64 // minimum distance between a gap and the world's top/bottom

	ActorRadius float64 // half-extent of the actor's square hitbox
	ActorXRatio float64 // actor's fixed X as a fraction of world width

	ObstacleWidth float64
	RemovalMargin float64 // obstacles are dropped once X+ObstacleWidth < -RemovalMargin

	Collision CollisionPolicy
}

// Default world and tuning values.
const (
	DefaultWidth         = 400.0
	DefaultHeight        = 500.0
	DefaultGravity       = 0.6
	DefaultFlapImpulse   = -12.0
	DefaultSpeed         = 5.0
	DefaultSpawnInterval = 80
	DefaultMinGap        = 100.0
	DefaultMaxGap        = 150.0
	DefaultMargin        = 50.0
	DefaultActorRadius   = 12.0
	DefaultActorXRatio   = 0.2
	DefaultObstacleWidth = 60.0
	DefaultRemovalMargin = 40.0
)

// DefaultWorld returns the default playfield.
func DefaultWorld() World {
	return World{Width: DefaultWidth, Height: DefaultHeight}
}

// DefaultTuning returns the default constants.
func DefaultTuning() Tuning {
	return Tuning{
		Gravity:       DefaultGravity,
		FlapImpulse:   DefaultFlapImpulse,
		Speed:         DefaultSpeed,
		SpawnInterval: DefaultSpawnInterval,
		MinGap:        DefaultMinGap,
		MaxGap:        DefaultMaxGap,
		GapPolicy:     GapRandom,
		Margin:        DefaultMargin,
		ActorRadius:   DefaultActorRadius,
		ActorXRatio:   DefaultActorXRatio,
		ObstacleWidth: DefaultObstacleWidth,
		RemovalMargin: DefaultRemovalMargin,
		Collision:     CollisionStrict,
	}
}

// Validate reports whether the world has a usable size.
func (w World) Validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: size %gx%g must be positive", ErrInvalidWorld, w.Width, w.Height)
	}
	return nil
}

// Validate checks the tuning against a world. Any configuration that could
// make spawn logic produce a gap outside the margins is rejected here, so
// Tick never has to clamp.
func (t Tuning) Validate(w World) error {
	if err := w.Validate(); err != nil {
		return err
	}

	switch {
	case t.Gravity <= 0:
		return fmt.Errorf("%w: gravity %g must be positive", ErrInvalidTuning, t.Gravity)
	case t.FlapImpulse >= 0:
		return fmt.Errorf("%w: flap impulse %g must be negative", ErrInvalidTuning, t.FlapImpulse)
	case t.Speed <= 0:
		return fmt.Errorf("%w: speed %g must be positive", ErrInvalidTuning, t.Speed)
	case t.SpawnInterval <= 0:
		return fmt.Errorf("%w: spawn interval %d must be positive", ErrInvalidTuning, t.SpawnInterval)
	case t.MinGap <= 0 || t.MaxGap < t.MinGap:
		return fmt.Errorf("%w: gap bounds [%g, %g] must satisfy 0 < min <= max", ErrInvalidTuning, t.MinGap, t.MaxGap)
	case t.GapPolicy != GapRandom && t.GapPolicy != GapFixed:
		return fmt.Errorf("%w: unknown gap policy %d", ErrInvalidTuning, t.GapPolicy)
	case t.Margin < 0:
		return fmt.Errorf("%w: margin %g must not be negative", ErrInvalidTuning, t.Margin)
	case 2*t.Margin+t.MaxGap > w.Height:
		return fmt.Errorf("%w: margins 2x%g plus gap %g exceed height %g", ErrInvalidTuning, t.Margin, t.MaxGap, w.Height)
	case t.ActorRadius <= 0 || 2*t.ActorRadius >= w.Height:
		return fmt.Errorf("%w: actor radius %g does not fit height %g", ErrInvalidTuning, t.ActorRadius, w.Height)
	case t.ActorXRatio <= 0 || t.ActorXRatio >= 1:
		return fmt.Errorf("%w: actor x ratio %g must be in (0, 1)", ErrInvalidTuning, t.ActorXRatio)
	case t.ObstacleWidth <= 0:
		return fmt.Errorf("%w: obstacle width %g must be positive", ErrInvalidTuning, t.ObstacleWidth)
	case t.RemovalMargin < 0:
		return fmt.Errorf("%w: removal margin %g must not be negative", ErrInvalidTuning, t.RemovalMargin)
	case t.Collision != CollisionStrict && t.Collision != CollisionInclusive:
		return fmt.Errorf("%w: unknown collision policy %d", ErrInvalidTuning, t.Collision)
	}
	return nil
}
