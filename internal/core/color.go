package core

// Color is a foreground colour for a screen cell, mapped to an ANSI
// 256-colour code by the renderer.
type Color uint8

// Palette used by the game and its overlays.
const (
	ColorDefault Color = iota
	ColorPipe
	ColorPipeCap
	ColorBird
	ColorBeak
	ColorGround
	ColorText
	ColorAccent
	ColorDim
	ColorDanger
)
