package starhop

import "math"

// Snapshot contains the observable game state for replay and determinism checks.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick        uint64
	State       string
	Score       int
	TotalScore  int
	Lives       int
	PlanetIndex int
	QuizStarts  int

	ShipY  float64
	ShipVY float64

	// Each obstacle is 3 values: X, GapY, Gap
	ObstacleData []float64
	// Each collectible is 3 values: X, Y, Kind
	CollectibleData []float64
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	obstacles := make([]float64, 0, len(g.mech.Obstacles)*3)
	for _, o := range g.mech.Obstacles {
		obstacles = append(obstacles, o.X, o.GapY, o.Gap)
	}
	items := make([]float64, 0, len(g.mech.Collectibles)*3)
	for _, c := range g.mech.Collectibles {
		items = append(items, c.X, c.Y, float64(c.Kind))
	}

	return Snapshot{
		Tick:            g.tick,
		State:           g.machine.Current().String(),
		Score:           g.session.Score,
		TotalScore:      g.session.TotalScore,
		Lives:           g.session.Lives,
		PlanetIndex:     g.session.PlanetIndex,
		QuizStarts:      g.session.quizStarts,
		ShipY:           g.ship.Y,
		ShipVY:          g.ship.VY,
		ObstacleData:    obstacles,
		CollectibleData: items,
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Score)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.TotalScore)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Lives)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PlanetIndex) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.QuizStarts)  //#nosec G115 -- hash computation
	for _, r := range snap.State {
		h = h*31 + uint64(r) //#nosec G115 -- hash computation
	}
	h = h*31 + math.Float64bits(snap.ShipY)
	h = h*31 + math.Float64bits(snap.ShipVY)

	for _, v := range snap.ObstacleData {
		h = h*31 + math.Float64bits(v)
	}
	for _, v := range snap.CollectibleData {
		h = h*31 + math.Float64bits(v)
	}
	return h
}
