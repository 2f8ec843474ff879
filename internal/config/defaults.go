package config

import (
	_ "embed"

	"github.com/vovakirdan/flappy-micro/internal/games/flappy/engine"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the built-in tuning, identical to the
// embedded flappy.yaml.
func DefaultFlappyConfig() FlappyConfig {
	w, t := engine.DefaultWorld(), engine.DefaultTuning()
	return FlappyConfig{
		World: WorldConfig{
			Width:  w.Width,
			Height: w.Height,
		},
		Physics: PhysicsConfig{
			Gravity:     t.Gravity,
			FlapImpulse: t.FlapImpulse,
			Speed:       t.Speed,
		},
		Obstacles: ObstaclesConfig{
			Width:         t.ObstacleWidth,
			SpawnInterval: t.SpawnInterval,
			MinGap:        t.MinGap,
			MaxGap:        t.MaxGap,
			GapPolicy:     t.GapPolicy.String(),
			Margin:        t.Margin,
			RemovalMargin: t.RemovalMargin,
		},
		Player: PlayerConfig{
			XRatio: t.ActorXRatio,
			Radius: t.ActorRadius,
		},
		Collision: t.Collision.String(),
	}
}
