// Package config loads the game's tuning from YAML, applies named rulesets
// and reads the leaderboard service settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/flappy-micro/internal/games/flappy/engine"
)

// FlappyConfig is the full tuning file.
type FlappyConfig struct {
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Obstacles ObstaclesConfig `yaml:"obstacles"`
	Player    PlayerConfig    `yaml:"player"`
	Collision string          `yaml:"collision"` // strict | inclusive
}

// WorldConfig is the playfield size in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds per-frame motion constants.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	FlapImpulse float64 `yaml:"flap_impulse"`
	Speed       float64 `yaml:"speed"`
}

// ObstaclesConfig controls pipe spawning and removal.
type ObstaclesConfig struct {
	Width         float64 `yaml:"width"`
	SpawnInterval int     `yaml:"spawn_interval"`
	MinGap        float64 `yaml:"min_gap"`
	MaxGap        float64 `yaml:"max_gap"`
	GapPolicy     string  `yaml:"gap_policy"` // random | fixed
	Margin        float64 `yaml:"margin"`
	RemovalMargin float64 `yaml:"removal_margin"`
}

// PlayerConfig places and sizes the bird.
type PlayerConfig struct {
	XRatio float64 `yaml:"x_ratio"`
	Radius float64 `yaml:"radius"`
}

// Engine converts the file into engine types. Unknown policy names are an
// error; range checks are left to engine.New.
func (c FlappyConfig) Engine() (engine.World, engine.Tuning, error) {
	w := engine.World{Width: c.World.Width, Height: c.World.Height}

	gap, err := ParseGapPolicy(c.Obstacles.GapPolicy)
	if err != nil {
		return w, engine.Tuning{}, err
	}
	col, err := ParseCollisionPolicy(c.Collision)
	if err != nil {
		return w, engine.Tuning{}, err
	}

	t := engine.Tuning{
		Gravity:       c.Physics.Gravity,
		FlapImpulse:   c.Physics.FlapImpulse,
		Speed:         c.Physics.Speed,
		SpawnInterval: c.Obstacles.SpawnInterval,
		MinGap:        c.Obstacles.MinGap,
		MaxGap:        c.Obstacles.MaxGap,
		GapPolicy:     gap,
		Margin:        c.Obstacles.Margin,
		ActorRadius:   c.Player.Radius,
		ActorXRatio:   c.Player.XRatio,
		ObstacleWidth: c.Obstacles.Width,
		RemovalMargin: c.Obstacles.RemovalMargin,
		Collision:     col,
	}
	return w, t, nil
}

// Validate checks the file the same way engine.New will.
func (c FlappyConfig) Validate() error {
	w, t, err := c.Engine()
	if err != nil {
		return err
	}
	return t.Validate(w)
}

// ParseGapPolicy maps a YAML name to an engine policy. Empty means random.
func ParseGapPolicy(s string) (engine.GapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "random":
		return engine.GapRandom, nil
	case "fixed":
		return engine.GapFixed, nil
	}
	return 0, fmt.Errorf("config: unknown gap_policy %q (want random or fixed)", s)
}

// ParseCollisionPolicy maps a YAML name to an engine policy. Empty means strict.
func ParseCollisionPolicy(s string) (engine.CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return engine.CollisionStrict, nil
	case "inclusive":
		return engine.CollisionInclusive, nil
	}
	return 0, fmt.Errorf("config: unknown collision %q (want strict or inclusive)", s)
}
