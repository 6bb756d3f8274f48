package starhop

import (
	"fmt"

	"github.com/vovakirdan/starhop/internal/config"
	"github.com/vovakirdan/starhop/internal/sound"
)

// Side tags where a collision happened.
type Side int

const (
	SideNone Side = iota
	SideCeiling
	SideFloor
	SideUpper
	SideLower
)

func (s Side) String() string {
	switch s {
	case SideCeiling:
		return "ceiling"
	case SideFloor:
		return "floor"
	case SideUpper:
		return "upper"
	case SideLower:
		return "lower"
	default:
		return "none"
	}
}

// Hit describes one resolved collision.
type Hit struct {
	Side      Side
	ObstacleX float64 // Centre x of the obstacle, for horizontal push
}

// Effects are the screen feedback counters set by a hit.
type Effects struct {
	Shake int
	Flash int
}

// Tick counts the effects down by one frame.
func (e *Effects) Tick() {
	if e.Shake > 0 {
		e.Shake--
	}
	if e.Flash > 0 {
		e.Flash--
	}
}

// CollisionManager checks the ship against the world and applies hits.
type CollisionManager struct {
	cfg      config.CollisionConfig
	invuln   int
	playable float64

	ship     *Spacecraft
	session  *Session
	effects  *Effects
	narrator *Narrator
	sound    sound.Player
}

// NewCollisionManager wires the manager to the objects it mutates.
func NewCollisionManager(cfg *config.GameConfig, ship *Spacecraft, session *Session, fx *Effects, n *Narrator, p sound.Player) *CollisionManager {
	return &CollisionManager{
		cfg:      cfg.Collision,
		invuln:   cfg.Spacecraft.InvulnerableFrames,
		playable: cfg.World.PlayableHeight(),
		ship:     ship,
		session:  session,
		effects:  fx,
		narrator: n,
		sound:    p,
	}
}

// Check looks for at most one collision this frame. Nothing is checked
// while the ship is invulnerable. Boundary hits push the ship back into
// the playfield before being reported.
func (c *CollisionManager) Check(obstacles []Obstacle) (Hit, bool) {
	if c.ship.Invulnerable() {
		return Hit{}, false
	}

	box := c.ship.Hitbox()
	if box.Y <= 0 {
		c.ship.Y = 0
		c.ship.VY = c.cfg.BoundaryKnockback
		return Hit{Side: SideCeiling, ObstacleX: c.ship.X}, true
	}
	if box.Bottom() >= c.playable {
		c.ship.Y = c.playable - c.ship.HitH
		c.ship.VY = -c.cfg.BoundaryKnockback
		return Hit{Side: SideFloor, ObstacleX: c.ship.X}, true
	}

	for _, o := range obstacles {
		if !box.OverlapsX(o.Body(c.playable)) {
			continue
		}
		if box.Y < o.UpperLimit() {
			return Hit{Side: SideUpper, ObstacleX: o.X + o.Width/2}, true
		}
		if box.Bottom() > o.LowerLimit() {
			return Hit{Side: SideLower, ObstacleX: o.X + o.Width/2}, true
		}
	}
	return Hit{}, false
}

// HandleCollision applies a hit: one life lost, knockback, invulnerability,
// shake and flash, a narrator line. It does nothing while invulnerable.
// Returns whether the player still has lives; the caller ends the run
// when it does not.
func (c *CollisionManager) HandleCollision(hit Hit) bool {
	if c.ship.Invulnerable() {
		return c.session.Lives > 0
	}

	alive := c.session.LoseLife()

	switch hit.Side {
	case SideUpper:
		c.ship.VY = c.cfg.KnockbackY
	case SideLower:
		c.ship.VY = -c.cfg.KnockbackY
	}
	if hit.Side == SideUpper || hit.Side == SideLower {
		if c.ship.Hitbox().CenterX() < hit.ObstacleX {
			c.ship.VX = -c.cfg.KnockbackX
		} else {
			c.ship.VX = c.cfg.KnockbackX
		}
	}

	c.ship.InvulnerableFrames = c.invuln
	c.effects.Shake = c.cfg.ShakeFrames
	c.effects.Flash = c.cfg.FlashFrames
	c.sound.Play(sound.CueCollision)

	switch {
	case !alive:
		c.narrator.Interrupt("Hull breached. The voyage ends here.")
	case c.session.Lives == 1:
		c.narrator.Interrupt("Last life! Careful now.")
	default:
		c.narrator.Interrupt(fmt.Sprintf("Impact on the %s! %d lives left.", hit.Side, c.session.Lives))
	}
	return alive
}
