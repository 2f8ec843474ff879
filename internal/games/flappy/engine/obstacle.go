package engine

import "math"

// Obstacle is a pair of pipes with a vertical gap between them.
type Obstacle struct {
	X       float64 // left edge
	GapTop  float64 // Y where the gap starts
	GapSize float64 // height of the gap
	Passed  bool    // set once the actor is past the trailing edge
}

// GapBottom returns the Y where the lower pipe starts.
func (o Obstacle) GapBottom() float64 {
	return o.GapTop + o.GapSize
}

// Right returns the trailing edge for a given obstacle width.
func (o Obstacle) Right(width float64) float64 {
	return o.X + width
}

// Rand is the random source used for gap placement.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// spawnObstacle builds a new obstacle at the right edge of the world.
// Tuning.Validate guarantees Margin+gap <= Height-Margin, so the draw
// range is never negative.
func spawnObstacle(rng Rand, w World, t Tuning) Obstacle {
	gap := t.MinGap
	if t.GapPolicy == GapRandom {
		gap = t.MinGap + rng.Float64()*(t.MaxGap-t.MinGap)
	}

	limit := w.Height - t.Margin
	span := limit - t.Margin - gap
	top := t.Margin + rng.Float64()*span
	// Rounding in the subtraction above can leave the gap bottom one ulp
	// past the margin.
	for top > t.Margin && top+gap > limit {
		top = math.Nextafter(top, math.Inf(-1))
	}

	return Obstacle{
		X:       w.Width,
		GapTop:  top,
		GapSize: gap,
	}
}

// below reports whether a is beyond b in the direction of a hit: a > b for
// strict collision, a >= b for inclusive.
func (p CollisionPolicy) below(a, b float64) bool {
	if p == CollisionInclusive {
		return a >= b
	}
	return a > b
}

// overlaps reports whether the open (strict) or closed (inclusive) intervals
// [aMin, aMax] and [bMin, bMax] intersect.
func (p CollisionPolicy) overlaps(aMin, aMax, bMin, bMax float64) bool {
	return p.below(aMax, bMin) && p.below(bMax, aMin)
}
