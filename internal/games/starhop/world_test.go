package starhop

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/starhop/internal/config"
	"github.com/vovakirdan/starhop/internal/core"
	"github.com/vovakirdan/starhop/internal/sound"
)

func TestObstacleLimits(t *testing.T) {
	o := Obstacle{X: 500, Width: 90, GapY: 400, Gap: 225}
	if o.UpperLimit() != 287.5 {
		t.Errorf("UpperLimit = %v, want 287.5", o.UpperLimit())
	}
	if o.LowerLimit() != 512.5 {
		t.Errorf("LowerLimit = %v, want 512.5", o.LowerLimit())
	}
}

func TestSpawnedObstaclesStayInPlayfield(t *testing.T) {
	for _, gap := range []float64{100, 225, 700, 750, 900} {
		cfg := config.DefaultGameConfig()
		cfg.Obstacles.GapHeight = gap
		m := NewMechanics(&cfg, rand.New(rand.NewSource(7)))
		playable := cfg.World.PlayableHeight()

		for i := 0; i < 500; i++ {
			o := m.SpawnObstacle()
			if o.UpperLimit() < 0 {
				t.Fatalf("gap %v: upper limit %v above the ceiling", gap, o.UpperLimit())
			}
			if o.LowerLimit() > playable {
				t.Fatalf("gap %v: lower limit %v below the floor %v", gap, o.LowerLimit(), playable)
			}
		}
	}
}

func TestGapPlacementCollapses(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	center, height := GapPlacement(rng, 900, 750)
	if center != 375 || height != 750 {
		t.Errorf("GapPlacement(900, 750) = (%v, %v), want (375, 750)", center, height)
	}

	center, height = GapPlacement(rng, 225, 750)
	if height != 225 || center < 112.5 || center > 637.5 {
		t.Errorf("GapPlacement(225, 750) = (%v, %v)", center, height)
	}
}

func TestWeaponNotOfferedWhileActive(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Collectibles.Weights = map[string]int{"data": 1, "weapon": 1}
	m := NewMechanics(&cfg, rand.New(rand.NewSource(3)))

	m.ArmWeapon()
	for i := 0; i < 200; i++ {
		if k := m.rollKind(); k == KindWeapon {
			t.Fatal("weapon rolled while one is active")
		}
	}

	m.Clear()
	seen := false
	for i := 0; i < 200 && !seen; i++ {
		seen = m.rollKind() == KindWeapon
	}
	if !seen {
		t.Error("weapon never rolled once inactive")
	}
}

func TestProjectilesDestroyObstacles(t *testing.T) {
	cfg := config.DefaultGameConfig()
	m := NewMechanics(&cfg, rand.New(rand.NewSource(1)))
	ship := NewSpacecraft(cfg.Spacecraft)
	ship.ResetTo(300)

	if m.Fire(ship.Hitbox()) {
		t.Fatal("fired without a weapon")
	}
	m.ArmWeapon()
	if !m.Fire(ship.Hitbox()) {
		t.Fatal("armed weapon should fire")
	}
	if m.Fire(ship.Hitbox()) {
		t.Error("second shot should wait for the cooldown")
	}

	// Gap well away from the shot so it hits the upper column.
	m.Obstacles = append(m.Obstacles, Obstacle{X: ship.Hitbox().Right() + 10, Width: 90, GapY: 600, Gap: 100})
	m.Advance(cfg.World.Width / cfg.Collectibles.ProjectileSpeed / 20)
	if n := m.ResolveProjectiles(); n != 1 {
		t.Fatalf("ResolveProjectiles = %d, want 1", n)
	}
	if len(m.Obstacles) != 0 || len(m.Projectiles) != 0 {
		t.Errorf("obstacle and shot should be gone: %d obstacles, %d shots", len(m.Obstacles), len(m.Projectiles))
	}
}

func TestScorePasses(t *testing.T) {
	cfg := config.DefaultGameConfig()
	m := NewMechanics(&cfg, rand.New(rand.NewSource(1)))
	ship := NewSpacecraft(cfg.Spacecraft)
	ship.ResetTo(400 - ship.HitH/2)

	m.Obstacles = append(m.Obstacles,
		Obstacle{X: 50, Width: 90, GapY: 400, Gap: 200},
		Obstacle{X: 600, Width: 90, GapY: 400, Gap: 200},
	)
	n, offset := m.ScorePasses(ship.Hitbox())
	if n != 1 {
		t.Fatalf("passed = %d, want 1", n)
	}
	if offset != 0 {
		t.Errorf("offset = %v, want 0 for a centred pass", offset)
	}
	if n, _ := m.ScorePasses(ship.Hitbox()); n != 0 {
		t.Errorf("an obstacle scored twice")
	}
}

func collisionFixture(t *testing.T) (*CollisionManager, *Spacecraft, *Session) {
	t.Helper()
	cfg := config.DefaultGameConfig()
	ship := NewSpacecraft(cfg.Spacecraft)
	ship.ResetTo(360)
	session := &Session{Lives: 3, MaxLives: 5}
	fx := &Effects{}
	cm := NewCollisionManager(&cfg, &ship, session, fx, NewNarrator(1), sound.Silent{})
	return cm, &ship, session
}

func TestCollisionSides(t *testing.T) {
	cm, ship, _ := collisionFixture(t)

	upper := Obstacle{X: ship.X, Width: 90, GapY: 600, Gap: 100}
	if hit, ok := cm.Check([]Obstacle{upper}); !ok || hit.Side != SideUpper {
		t.Errorf("Check = %v %v, want upper", hit.Side, ok)
	}

	lower := Obstacle{X: ship.X, Width: 90, GapY: 100, Gap: 100}
	if hit, ok := cm.Check([]Obstacle{lower}); !ok || hit.Side != SideLower {
		t.Errorf("Check = %v %v, want lower", hit.Side, ok)
	}

	clear := Obstacle{X: ship.X, Width: 90, GapY: 375, Gap: 200}
	if _, ok := cm.Check([]Obstacle{clear}); ok {
		t.Error("ship inside the gap should not collide")
	}

	ship.Y = -5
	if hit, ok := cm.Check(nil); !ok || hit.Side != SideCeiling {
		t.Errorf("Check = %v %v, want ceiling", hit.Side, ok)
	}
	if ship.Y != 0 || ship.VY <= 0 {
		t.Errorf("ceiling hit should clamp and push down: y=%v vy=%v", ship.Y, ship.VY)
	}
}

func TestNoCollisionWhileInvulnerable(t *testing.T) {
	cm, ship, session := collisionFixture(t)
	upper := Obstacle{X: ship.X, Width: 90, GapY: 600, Gap: 100}

	hit, ok := cm.Check([]Obstacle{upper})
	if !ok {
		t.Fatal("expected a hit")
	}
	if !cm.HandleCollision(hit) {
		t.Fatal("player should survive the first hit")
	}
	if session.Lives != 2 {
		t.Errorf("Lives = %d, want 2", session.Lives)
	}

	if _, ok := cm.Check([]Obstacle{upper}); ok {
		t.Error("Check should report nothing while invulnerable")
	}
	cm.HandleCollision(hit)
	if session.Lives != 2 {
		t.Errorf("Lives = %d after a hit while invulnerable, want 2", session.Lives)
	}
}

func TestSessionLivesFloor(t *testing.T) {
	s := &Session{Lives: 1, MaxLives: 2}
	if s.LoseLife() {
		t.Error("LoseLife should report no lives left")
	}
	if s.LoseLife() || s.Lives != 0 {
		t.Errorf("Lives = %d, must not go below zero", s.Lives)
	}
	if !s.GainLife() || !s.GainLife() || s.GainLife() {
		t.Error("GainLife should stop at MaxLives")
	}
}

func TestStateMachine(t *testing.T) {
	var entered []State
	m := NewStateMachine(StateSplash, func(from, to State) { entered = append(entered, to) })

	if err := m.Transition(StatePlaying); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("splash -> playing: err = %v, want ErrIllegalTransition", err)
	}
	if m.Current() != StateSplash {
		t.Errorf("illegal transition changed state to %s", m.Current())
	}

	for _, s := range []State{StateMenu, StatePlaying, StateQuiz, StateQuizFailure, StatePlaying, StateGameOver} {
		if err := m.Transition(s); err != nil {
			t.Fatalf("Transition(%s): %v", s, err)
		}
	}
	if len(entered) != 6 {
		t.Errorf("enter hook ran %d times, want 6", len(entered))
	}
}

func TestStateMachineReentrant(t *testing.T) {
	var m *StateMachine
	var nested error
	var seen State
	m = NewStateMachine(StateMenu, func(from, to State) {
		seen = m.Current()
		nested = m.Transition(StateQuiz)
	})

	if err := m.Transition(StatePlaying); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if seen != StatePlaying {
		t.Errorf("hook saw %s, want the committed state playing", seen)
	}
	if !errors.Is(nested, ErrReentrantTransition) {
		t.Errorf("nested transition err = %v, want ErrReentrantTransition", nested)
	}
	if m.Current() != StatePlaying {
		t.Errorf("Current = %s, want playing", m.Current())
	}
}

func TestNarrator(t *testing.T) {
	n := NewNarrator(1)
	n.Say("one")
	n.Say("two")
	if n.Current() != "one" || n.Pending() != 1 {
		t.Fatalf("Current = %q Pending = %d", n.Current(), n.Pending())
	}
	n.Update(1)
	if n.Current() != "two" {
		t.Errorf("Current = %q, want two", n.Current())
	}
	n.Interrupt("urgent")
	if n.Current() != "urgent" || n.Pending() != 0 {
		t.Errorf("Interrupt should replace the line and clear the queue")
	}
	if got := n.Drain(); len(got) != 3 {
		t.Errorf("Drain = %v, want 3 lines", got)
	}
	if n.Drain() != nil {
		t.Error("second Drain should be empty")
	}
}

func TestSpacecraftConfine(t *testing.T) {
	cfg := config.DefaultGameConfig()
	tests := []struct {
		name   string
		y, vy  float64
		wantY  func(s Spacecraft) float64
		wantVY float64
	}{
		{"below floor", 800, 300, func(s Spacecraft) float64 { return 750 - s.HitH }, 0},
		{"above ceiling", -20, -100, func(Spacecraft) float64 { return 0 }, 0},
		{"inside keeps motion", 300, 120, func(Spacecraft) float64 { return 300 }, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpacecraft(cfg.Spacecraft)
			s.Y, s.VY = tt.y, tt.vy
			s.Confine(0, 750)
			if s.Y != tt.wantY(s) {
				t.Errorf("Y = %v, want %v", s.Y, tt.wantY(s))
			}
			if s.VY != tt.wantVY {
				t.Errorf("VY = %v, want %v", s.VY, tt.wantVY)
			}
		})
	}
}

func TestShipStaysInPlayfieldWhileInvulnerable(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, 0)
	playable := g.cfg.World.PlayableHeight()

	sawInvulnerable := false
	for i := 0; i < 600 && g.Current() == StatePlaying; i++ {
		g.Step(core.NewInputFrame())
		ship := g.Ship()
		box := ship.Hitbox()
		if box.Y < 0 || box.Bottom() > playable {
			t.Fatalf("tick %d: hitbox [%.1f, %.1f] left the playfield [0, %.1f]", i, box.Y, box.Bottom(), playable)
		}
		if ship.Invulnerable() {
			sawInvulnerable = true
		}
	}
	if !sawInvulnerable {
		t.Error("falling ship should hit the floor and become invulnerable")
	}
}
