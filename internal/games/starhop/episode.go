package starhop

import (
	"github.com/vovakirdan/starhop/internal/core"
)

// EpisodeResult summarizes one headless autopilot run.
type EpisodeResult struct {
	Steps       int
	Reward      float64
	TotalScore  int
	PlanetIndex int
	Planet      string
	Crashed     bool // Ended in game over rather than hitting the step cap
}

// RunEpisode launches a voyage at planet and lets the pilot fly until the
// run ends or maxSteps ticks pass. Whether the pilot learns follows the
// Learn flag the game was built with.
func (g *Game) RunEpisode(planet, maxSteps int) (EpisodeResult, error) {
	// A capped episode can stop mid-voyage. Start over from the splash
	// screen with a fresh seed drawn from the current one.
	switch g.machine.Current() {
	case StateSplash, StateMenu, StateGameOver:
	default:
		next := g.runtime
		next.Seed = g.rng.Int63()
		g.Reset(next)
	}
	if err := g.Launch(planet); err != nil {
		return EpisodeResult{}, err
	}
	if err := g.SetAutopilot(true); err != nil {
		return EpisodeResult{}, err
	}
	g.ResetEpisodeReward()

	idle := core.NewInputFrame()
	var res EpisodeResult
	for res.Steps < maxSteps && g.Current() != StateGameOver {
		g.Step(idle)
		res.Steps++
		if g.err != nil {
			return res, g.err
		}
	}

	st := g.State()
	res.Reward = g.episodeReward
	res.TotalScore = st.TotalScore
	res.PlanetIndex = st.PlanetIndex
	res.Planet = st.Planet
	res.Crashed = st.GameOver
	return res, nil
}
