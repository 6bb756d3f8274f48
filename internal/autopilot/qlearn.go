package autopilot

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/vovakirdan/starhop/internal/config"
	"github.com/vovakirdan/starhop/internal/core"
)

type stateKey [4]int

// QLearner is a tabular one-step Q-learning pilot over four binned
// features: ship y, ship velocity, distance to the next obstacle and
// offset from its gap.
type QLearner struct {
	cfg       config.QLearningConfig
	rewards   config.RewardConfig
	table     map[stateKey][numActions]float64
	rng       *rand.Rand
	exploring bool
}

// NewQLearner creates an empty Q-table.
func NewQLearner(cfg config.QLearningConfig, rewards config.RewardConfig, seed int64) *QLearner {
	if cfg.Bins <= 0 {
		cfg.Bins = 10
	}
	return &QLearner{
		cfg:       cfg,
		rewards:   rewards,
		table:     make(map[stateKey][numActions]float64),
		rng:       rand.New(rand.NewSource(seed)),
		exploring: true,
	}
}

func (q *QLearner) Name() string { return KindQLearning }

// SetExploring toggles ε-greedy exploration.
func (q *QLearner) SetExploring(on bool) { q.exploring = on }

// Epsilon returns the exploration rate in effect, zero when not exploring.
func (q *QLearner) Epsilon() float64 {
	if !q.exploring {
		return 0
	}
	return q.cfg.Epsilon
}

// States returns how many states have been visited.
func (q *QLearner) States() int { return len(q.table) }

// Value returns the estimates for the state an observation falls into.
func (q *QLearner) Value(obs Observation) [numActions]float64 {
	return q.table[q.key(obs)]
}

// key bins each feature after min-max clamping.
func (q *QLearner) key(obs Observation) stateKey {
	b := obs.Bounds.safe()
	return stateKey{
		discretize(obs.ShipY, 0, b.Height, q.cfg.Bins),
		discretize(obs.ShipVY, -b.MaxSpeed, b.MaxSpeed, q.cfg.Bins),
		discretize(obs.Distance, 0, b.Width, q.cfg.Bins),
		discretize(obs.GapOffset(), -b.Height/2, b.Height/2, q.cfg.Bins),
	}
}

func discretize(v, lo, hi float64, bins int) int {
	if hi <= lo {
		return 0
	}
	scaled := (core.ClampF(v, lo, hi) - lo) / (hi - lo)
	return core.Clamp(int(scaled*float64(bins)), 0, bins-1)
}

// Decide picks an action ε-greedily. Ties go to coasting.
func (q *QLearner) Decide(obs Observation) bool {
	if q.exploring && q.rng.Float64() < q.cfg.Epsilon {
		return q.rng.Intn(numActions) == ActionThrust
	}
	v := q.table[q.key(obs)]
	return v[ActionThrust] > v[ActionCoast]
}

// Learn applies Q(s,a) += α(r + γ·max Q(s',·) − Q(s,a)) and returns r.
func (q *QLearner) Learn(prev Observation, thrust bool, out Outcome, next Observation, done bool) float64 {
	reward := TabularReward(q.rewards, out)
	s, a := q.key(prev), actionOf(thrust)

	target := reward
	if !done {
		nv := q.table[q.key(next)]
		target += q.cfg.Discount * maxOf(nv)
	}

	v := q.table[s]
	v[a] += q.cfg.LearningRate * (target - v[a])
	q.table[s] = v
	return reward
}

func maxOf(v [numActions]float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

type qTableFile struct {
	Kind  string                         `json:"kind"`
	Bins  int                            `json:"bins"`
	Table map[string][numActions]float64 `json:"table"`
}

// Save writes the Q-table as JSON.
func (q *QLearner) Save(path string) error {
	doc := qTableFile{
		Kind:  KindQLearning,
		Bins:  q.cfg.Bins,
		Table: make(map[string][numActions]float64, len(q.table)),
	}
	for k, v := range q.table {
		doc.Table[fmt.Sprintf("%d,%d,%d,%d", k[0], k[1], k[2], k[3])] = v
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("autopilot: cannot encode q-table: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("autopilot: cannot write q-table: %w", err)
	}
	return nil
}

// Load replaces the Q-table with one saved by Save.
func (q *QLearner) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("autopilot: cannot read q-table: %w", err)
	}

	var doc qTableFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("autopilot: cannot decode q-table: %w", err)
	}
	if doc.Kind != KindQLearning {
		return fmt.Errorf("autopilot: %s holds a %q model, not a q-table", path, doc.Kind)
	}
	if doc.Bins != q.cfg.Bins {
		return fmt.Errorf("autopilot: q-table uses %d bins, configured for %d", doc.Bins, q.cfg.Bins)
	}

	table := make(map[stateKey][numActions]float64, len(doc.Table))
	for ks, v := range doc.Table {
		parts := strings.Split(ks, ",")
		if len(parts) != 4 {
			return fmt.Errorf("autopilot: bad q-table key %q", ks)
		}
		var k stateKey
		for i, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return fmt.Errorf("autopilot: bad q-table key %q: %w", ks, err)
			}
			k[i] = n
		}
		table[k] = v
	}
	q.table = table
	return nil
}
