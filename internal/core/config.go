package core

// RuntimeConfig is what the host tells a game at construction.
type RuntimeConfig struct {
	ScreenW  int   // playfield width in cells
	ScreenH  int   // playfield height in cells
	TickRate int   // ticks per second
	Seed     int64 // 0 means seed from the clock
}

// DefaultConfig returns an 80x24 playfield at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the host-visible summary of a game after a step.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool
}

// StepResult is returned by a game's Step.
type StepResult struct {
	State  GameState
	Scored bool   // score changed during this step
	Ended  bool   // this step ended the run
	Cause  string // what ended the run, when Ended
}
