// Package autopilot contains the two automatic pilots: a tabular
// Q-learner and a small DQN. Both answer one question per tick: thrust
// or not.
package autopilot

import "github.com/vovakirdan/starhop/internal/core"

// Actions a pilot can choose.
const (
	ActionCoast  = 0
	ActionThrust = 1
	numActions   = 2
)

// Observation is what the game exposes to a pilot each tick.
// Positions are world units.
type Observation struct {
	ShipY     float64 // Hitbox centre
	ShipVY    float64
	ObstacleX float64 // Left edge of the next unpassed obstacle, or world width
	GapY      float64 // Its gap centre, or mid playfield
	Gravity   float64 // Planet gravity factor
	Distance  float64 // ObstacleX minus the hitbox right edge
	Bounds    Bounds
}

// Bounds are the ranges used to normalize an Observation.
type Bounds struct {
	Width    float64
	Height   float64 // Playable height
	MaxSpeed float64
}

// Vector returns the six-feature normalized state used by the DQN.
func (o Observation) Vector() []float64 {
	b := o.Bounds.safe()
	return []float64{
		core.ClampF(o.ShipY/b.Height, 0, 1),
		core.ClampF(o.ShipVY/b.MaxSpeed, -1, 1),
		core.ClampF(o.ObstacleX/b.Width, 0, 1),
		core.ClampF(o.GapY/b.Height, 0, 1),
		core.ClampF(o.Gravity/2, 0, 1),
		core.ClampF(o.Distance/b.Width, -1, 1),
	}
}

// GapOffset is the signed vertical distance from the ship to the gap centre.
func (o Observation) GapOffset() float64 {
	return o.GapY - o.ShipY
}

func (b Bounds) safe() Bounds {
	if b.Width <= 0 {
		b.Width = 1
	}
	if b.Height <= 0 {
		b.Height = 1
	}
	if b.MaxSpeed <= 0 {
		b.MaxSpeed = 1
	}
	return b
}
