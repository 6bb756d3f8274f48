package autopilot

import (
	"math"

	"github.com/vovakirdan/starhop/internal/config"
)

// Outcome summarizes what happened during one tick.
type Outcome struct {
	ScoreDelta int     // Points gained
	LivesLost  int     // Lives lost
	Passed     bool    // An obstacle was cleared this tick
	PassOffset float64 // |ship - gap centre| / (gap/2) at the moment of passing
	GameOver   bool
}

// TabularReward shapes the Q-learner's signal: survival, score, lives.
func TabularReward(r config.RewardConfig, o Outcome) float64 {
	reward := r.Survive
	reward += r.Score * float64(o.ScoreDelta)
	reward += r.LifeLost * float64(o.LivesLost)
	return reward
}

// DQNReward extends TabularReward with a crash penalty and a bonus for
// threading an obstacle close to its gap centre.
func DQNReward(r config.RewardConfig, o Outcome) float64 {
	reward := TabularReward(r, o)
	if o.LivesLost > 0 {
		reward += r.Crash
	}
	if o.Passed {
		closeness := 1 - math.Min(math.Abs(o.PassOffset), 1)
		reward += r.GapBonus * closeness
	}
	return reward
}
