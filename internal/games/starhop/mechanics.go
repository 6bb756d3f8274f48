package starhop

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/starhop/internal/config"
	"github.com/vovakirdan/starhop/internal/core"
)

// Mechanics owns the scrolling world: obstacle and collectible spawning,
// movement, pruning and weapon fire.
type Mechanics struct {
	cfg *config.GameConfig
	rng *rand.Rand

	Obstacles    []Obstacle
	Collectibles []Collectible
	Projectiles  []Projectile

	speed               float64
	obstacleInterval    float64
	collectibleInterval float64
	obstacleTimer       float64
	collectibleTimer    float64

	weaponLeft   float64
	fireCooldown float64
}

// NewMechanics creates the world manager. rng must be the game's seeded RNG.
func NewMechanics(cfg *config.GameConfig, rng *rand.Rand) *Mechanics {
	m := &Mechanics{
		cfg:          cfg,
		rng:          rng,
		Obstacles:    make([]Obstacle, 0, 8),
		Collectibles: make([]Collectible, 0, 8),
		Projectiles:  make([]Projectile, 0, 8),
	}
	m.Configure(cfg.Physics.BaseSpeed, cfg.Obstacles.SpawnInterval, cfg.Collectibles.SpawnInterval)
	return m
}

// Configure sets the scroll speed and spawn intervals for the current planet.
func (m *Mechanics) Configure(speed, obstacleInterval, collectibleInterval float64) {
	m.speed = speed
	m.obstacleInterval = obstacleInterval
	m.collectibleInterval = collectibleInterval
}

// Speed returns the current scroll speed.
func (m *Mechanics) Speed() float64 { return m.speed }

// ObstacleInterval returns seconds between obstacle spawns.
func (m *Mechanics) ObstacleInterval() float64 { return m.obstacleInterval }

// Clear removes every entity and restarts the spawn timers.
// The first obstacle arrives after one full interval.
func (m *Mechanics) Clear() {
	m.Obstacles = m.Obstacles[:0]
	m.Collectibles = m.Collectibles[:0]
	m.Projectiles = m.Projectiles[:0]
	m.obstacleTimer = 0
	m.collectibleTimer = 0
	m.weaponLeft = 0
	m.fireCooldown = 0
}

// GapPlacement picks a gap centre for an obstacle. The centre is uniform in
// [gap/2, playable-gap/2]. When the gap does not fit, the range collapses
// to the playable midpoint and the gap is clamped to the playable band.
func GapPlacement(rng *rand.Rand, gap, playable float64) (center, height float64) {
	lo, hi := gap/2, playable-gap/2
	if hi <= lo {
		return playable / 2, math.Min(gap, playable)
	}
	return lo + rng.Float64()*(hi-lo), gap
}

// SpawnObstacle adds an obstacle at the right edge of the world.
func (m *Mechanics) SpawnObstacle() Obstacle {
	center, gap := GapPlacement(m.rng, m.cfg.Obstacles.GapHeight, m.cfg.World.PlayableHeight())
	o := Obstacle{
		X:     m.cfg.World.Width,
		Width: m.cfg.Obstacles.Width,
		GapY:  center,
		Gap:   gap,
	}
	m.Obstacles = append(m.Obstacles, o)
	return o
}

// SpawnCollectible adds a collectible at the right edge at a random height.
func (m *Mechanics) SpawnCollectible() Collectible {
	size := m.cfg.Collectibles.Size
	maxY := math.Max(m.cfg.World.PlayableHeight()-size, 0)
	kind := m.rollKind()
	c := Collectible{
		X:     m.cfg.World.Width,
		Y:     m.rng.Float64() * maxY,
		Size:  size,
		Kind:  kind,
		Value: m.cfg.Collectibles.Values[kind.String()],
	}
	m.Collectibles = append(m.Collectibles, c)
	return c
}

// rollKind selects a collectible kind based on weights. Weapons are not
// offered while one is already active.
func (m *Mechanics) rollKind() CollectibleKind {
	weights := make([]int, kindCount)
	total := 0
	for k := CollectibleKind(0); k < kindCount; k++ {
		w := m.cfg.Collectibles.Weights[k.String()]
		if k == KindWeapon && m.WeaponActive() {
			w = 0
		}
		if w < 0 {
			w = 0
		}
		weights[k] = w
		total += w
	}

	if total <= 0 {
		return KindData
	}

	roll := m.rng.Intn(total)
	cumulative := 0
	for k, w := range weights {
		cumulative += w
		if roll < cumulative {
			return CollectibleKind(k)
		}
	}
	return KindData
}

// Advance moves everything by one tick, runs the spawn timers and
// prunes entities that left the world.
func (m *Mechanics) Advance(dt float64) {
	step := m.speed * dt

	for i := range m.Obstacles {
		m.Obstacles[i].X -= step
	}
	for i := range m.Collectibles {
		m.Collectibles[i].X -= step
	}
	shot := m.cfg.Collectibles.ProjectileSpeed * dt
	for i := range m.Projectiles {
		m.Projectiles[i].X += shot
	}

	if m.weaponLeft > 0 {
		m.weaponLeft = math.Max(m.weaponLeft-dt, 0)
	}
	if m.fireCooldown > 0 {
		m.fireCooldown = math.Max(m.fireCooldown-dt, 0)
	}

	m.obstacleTimer += dt
	if m.obstacleInterval > 0 && m.obstacleTimer >= m.obstacleInterval {
		m.obstacleTimer -= m.obstacleInterval
		m.SpawnObstacle()
	}
	m.collectibleTimer += dt
	if m.collectibleInterval > 0 && m.collectibleTimer >= m.collectibleInterval {
		m.collectibleTimer -= m.collectibleInterval
		m.SpawnCollectible()
	}

	m.prune()
}

func (m *Mechanics) prune() {
	obstacles := m.Obstacles[:0]
	for _, o := range m.Obstacles {
		if o.Right() > 0 {
			obstacles = append(obstacles, o)
		}
	}
	m.Obstacles = obstacles

	items := m.Collectibles[:0]
	for _, c := range m.Collectibles {
		if !c.Collected && c.X+c.Size > 0 {
			items = append(items, c)
		}
	}
	m.Collectibles = items

	shots := m.Projectiles[:0]
	for _, p := range m.Projectiles {
		if p.X < m.cfg.World.Width {
			shots = append(shots, p)
		}
	}
	m.Projectiles = shots
}

// ScorePasses marks obstacles whose right edge the hitbox has cleared.
// It returns how many were passed and, for the last one, the ship's
// distance from the gap centre as a fraction of half the gap.
func (m *Mechanics) ScorePasses(hitbox core.Box) (int, float64) {
	passed := 0
	offset := 0.0
	for i := range m.Obstacles {
		o := &m.Obstacles[i]
		if o.Scored || o.Right() >= hitbox.X {
			continue
		}
		o.Scored = true
		passed++
		if o.Gap > 0 {
			offset = math.Abs(hitbox.CenterY()-o.GapY) / (o.Gap / 2)
		}
	}
	return passed, offset
}

// Collect removes and returns every collectible touching the hitbox.
func (m *Mechanics) Collect(hitbox core.Box) []Collectible {
	var got []Collectible
	for i := range m.Collectibles {
		c := &m.Collectibles[i]
		if c.Collected || !hitbox.Intersects(c.Box()) {
			continue
		}
		c.Collected = true
		got = append(got, *c)
	}
	if len(got) > 0 {
		m.prune()
	}
	return got
}

// ArmWeapon opens the weapon window.
func (m *Mechanics) ArmWeapon() {
	m.weaponLeft = m.cfg.Collectibles.WeaponDuration
}

// WeaponActive reports whether the ship can fire.
func (m *Mechanics) WeaponActive() bool { return m.weaponLeft > 0 }

// WeaponLeft returns the remaining weapon time in seconds.
func (m *Mechanics) WeaponLeft() float64 { return m.weaponLeft }

// Fire launches a projectile from the ship's nose if the weapon is
// active and off cooldown.
func (m *Mechanics) Fire(hitbox core.Box) bool {
	if !m.WeaponActive() || m.fireCooldown > 0 {
		return false
	}
	m.fireCooldown = m.cfg.Collectibles.FireCooldown
	m.Projectiles = append(m.Projectiles, Projectile{
		X: hitbox.Right(),
		Y: hitbox.CenterY() - 2,
		W: 24,
		H: 4,
	})
	return true
}

// ResolveProjectiles removes every obstacle hit by a projectile.
// A projectile is spent on the first obstacle it touches.
// Returns the number of obstacles destroyed.
func (m *Mechanics) ResolveProjectiles() int {
	if len(m.Projectiles) == 0 || len(m.Obstacles) == 0 {
		return 0
	}

	playable := m.cfg.World.PlayableHeight()
	destroyed := 0
	shots := m.Projectiles[:0]
	for _, p := range m.Projectiles {
		hit := -1
		for i, o := range m.Obstacles {
			if p.Box().Intersects(o.UpperBox()) || p.Box().Intersects(o.LowerBox(playable)) {
				hit = i
				break
			}
		}
		if hit < 0 {
			shots = append(shots, p)
			continue
		}
		m.Obstacles = append(m.Obstacles[:hit], m.Obstacles[hit+1:]...)
		destroyed++
	}
	m.Projectiles = shots
	return destroyed
}

// NextObstacle returns the nearest obstacle the hitbox has not yet cleared.
func (m *Mechanics) NextObstacle(hitbox core.Box) (Obstacle, bool) {
	for _, o := range m.Obstacles {
		if o.Right() >= hitbox.X {
			return o, true
		}
	}
	return Obstacle{}, false
}
