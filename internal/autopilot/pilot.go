package autopilot

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/starhop/internal/config"
)

// Pilot decides whether to thrust and can learn from the result.
type Pilot interface {
	Name() string
	// Decide returns true to thrust this tick.
	Decide(obs Observation) bool
	// Learn records one transition. done marks the end of an episode.
	Learn(prev Observation, thrust bool, out Outcome, next Observation, done bool) float64
	// SetExploring turns ε-greedy exploration on or off.
	SetExploring(on bool)
	Save(path string) error
	Load(path string) error
}

// Kinds of pilot.
const (
	KindQLearning = "qlearn"
	KindDQN       = "dqn"
)

// New builds a pilot by kind.
func New(kind string, cfg config.AutopilotConfig, seed int64) (Pilot, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindQLearning, "q", "tabular":
		return NewQLearner(cfg.QLearning, cfg.Rewards, seed), nil
	case KindDQN:
		return NewDQN(cfg.DQN, cfg.Rewards, seed), nil
	default:
		return nil, fmt.Errorf("autopilot: unknown kind %q (want %s or %s)", kind, KindQLearning, KindDQN)
	}
}

func actionOf(thrust bool) int {
	if thrust {
		return ActionThrust
	}
	return ActionCoast
}
