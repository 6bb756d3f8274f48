package starhop

import (
	"math"

	"github.com/vovakirdan/starhop/internal/config"
	"github.com/vovakirdan/starhop/internal/core"
)

// Spacecraft is the player's ship. X and Y locate the top-left corner of
// the hitbox; the sprite extends further left to include the engine flame.
type Spacecraft struct {
	X, Y   float64
	VX, VY float64
	Tilt   float64 // Degrees, positive = nose down
	HomeX  float64 // Horizontal rest position after knockback

	HitW, HitH       float64
	SpriteW, SpriteH float64

	InvulnerableFrames int
}

// NewSpacecraft creates a ship from its geometry config.
func NewSpacecraft(cfg config.SpacecraftConfig) Spacecraft {
	return Spacecraft{
		X:       cfg.X,
		HomeX:   cfg.X,
		HitW:    cfg.HitboxWidth,
		HitH:    cfg.HitboxHeight,
		SpriteW: cfg.SpriteWidth,
		SpriteH: cfg.SpriteHeight,
	}
}

// Hitbox returns the body used for collisions.
func (s *Spacecraft) Hitbox() core.Box {
	return core.NewBox(s.X, s.Y, s.HitW, s.HitH)
}

// Sprite returns the drawn extent, flame included.
func (s *Spacecraft) Sprite() core.Box {
	flame := s.SpriteW - s.HitW
	return core.NewBox(s.X-flame, s.Y-(s.SpriteH-s.HitH)/2, s.SpriteW, s.SpriteH)
}

// Invulnerable reports whether hits are currently ignored.
func (s *Spacecraft) Invulnerable() bool {
	return s.InvulnerableFrames > 0
}

// Thrust sets the vertical velocity to the engine impulse.
func (s *Spacecraft) Thrust(impulse float64) {
	s.VY = impulse
}

// Update integrates one tick of motion. gravity is the planet's factor.
func (s *Spacecraft) Update(dt, gravity float64, p config.PhysicsConfig) {
	s.VY += p.Gravity * gravity * dt
	s.VY = core.ClampF(s.VY, -p.MaxRiseSpeed, p.MaxFallSpeed)
	s.Y += s.VY * dt

	// Knockback pushes X away from home; it decays back exponentially.
	s.X += s.VX * dt
	pull := core.ClampF(p.KnockbackDecay*dt, 0, 1)
	s.VX -= s.VX * pull
	s.X += (s.HomeX - s.X) * pull

	s.Tilt = core.ClampF(s.VY*p.TiltFactor, -p.MaxTilt, p.MaxTilt)
}

// Confine keeps the hitbox between top and bottom and stops motion into
// the edge it touches.
func (s *Spacecraft) Confine(top, bottom float64) {
	switch {
	case s.Y < top:
		s.Y = top
		s.VY = math.Max(s.VY, 0)
	case s.Y+s.HitH > bottom:
		s.Y = bottom - s.HitH
		s.VY = math.Min(s.VY, 0)
	}
}

// TickInvulnerable counts down the invulnerability window.
func (s *Spacecraft) TickInvulnerable() {
	if s.InvulnerableFrames > 0 {
		s.InvulnerableFrames--
	}
}

// ResetTo places the ship at rest at its home x and the given y.
func (s *Spacecraft) ResetTo(y float64) {
	s.X = s.HomeX
	s.Y = y
	s.VX, s.VY = 0, 0
	s.Tilt = 0
	s.InvulnerableFrames = 0
}

// Obstacle is a pair of columns with a fixed gap between them.
type Obstacle struct {
	X      float64 // Left edge
	Width  float64
	GapY   float64 // Gap centre
	Gap    float64 // Gap height
	Scored bool    // Set once the ship has passed it
}

// UpperLimit is the bottom edge of the upper segment.
func (o Obstacle) UpperLimit() float64 {
	return o.GapY - o.Gap/2
}

// LowerLimit is the top edge of the lower segment.
func (o Obstacle) LowerLimit() float64 {
	return o.GapY + o.Gap/2
}

// Right returns the obstacle's right edge.
func (o Obstacle) Right() float64 {
	return o.X + o.Width
}

// Body returns the full-height column used for horizontal overlap.
func (o Obstacle) Body(playable float64) core.Box {
	return core.NewBox(o.X, 0, o.Width, playable)
}

// UpperBox returns the upper segment.
func (o Obstacle) UpperBox() core.Box {
	return core.NewBox(o.X, 0, o.Width, o.UpperLimit())
}

// LowerBox returns the lower segment down to the floor.
func (o Obstacle) LowerBox(playable float64) core.Box {
	return core.NewBox(o.X, o.LowerLimit(), o.Width, playable-o.LowerLimit())
}

// CollectibleKind identifies a pickup.
type CollectibleKind int

const (
	KindData CollectibleKind = iota
	KindFuel
	KindWeapon
	KindLife
	kindCount
)

// Effect is what a collectible does when picked up.
type Effect int

const (
	EffectInfo   Effect = iota // Points, counts toward the quiz threshold
	EffectTime                 // Points only
	EffectAttack               // Temporary weapon
	EffectLife                 // Extra life
)

// Effect returns the effect a kind triggers.
func (k CollectibleKind) Effect() Effect {
	switch k {
	case KindData:
		return EffectInfo
	case KindFuel:
		return EffectTime
	case KindWeapon:
		return EffectAttack
	default:
		return EffectLife
	}
}

// String returns the config key for the kind.
func (k CollectibleKind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindFuel:
		return "fuel"
	case KindWeapon:
		return "weapon"
	case KindLife:
		return "life"
	default:
		return "?"
	}
}

// Glyph returns the display character for a kind.
func (k CollectibleKind) Glyph() rune {
	switch k {
	case KindData:
		return '◆'
	case KindFuel:
		return '▲'
	case KindWeapon:
		return '✦'
	case KindLife:
		return '♥'
	default:
		return '?'
	}
}

// Collectible is a pickup drifting toward the ship.
type Collectible struct {
	X, Y      float64
	Size      float64
	Kind      CollectibleKind
	Value     int
	Collected bool
}

// Box returns the pickup's bounds.
func (c Collectible) Box() core.Box {
	return core.NewBox(c.X, c.Y, c.Size, c.Size)
}

// Projectile is a shot fired while the weapon is active.
type Projectile struct {
	X, Y float64
	W, H float64
}

// Box returns the shot's bounds.
func (p Projectile) Box() core.Box {
	return core.NewBox(p.X, p.Y, p.W, p.H)
}

// Portal is the gateway shown while arriving at a planet.
type Portal struct {
	X, Y   float64 // Centre
	Radius float64
	Phase  float64 // Animation phase in [0, 1)
}

// Update scrolls the portal toward targetX and spins it.
func (p *Portal) Update(dt, speed, targetX float64) {
	if p.X > targetX {
		p.X -= speed * dt
		if p.X < targetX {
			p.X = targetX
		}
	}
	p.Phase += dt
	for p.Phase >= 1 {
		p.Phase--
	}
}
