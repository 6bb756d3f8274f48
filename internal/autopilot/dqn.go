package autopilot

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/vovakirdan/starhop/internal/config"
)

const featureCount = 6

// DQN is a deep Q-network pilot: a 6→H→H→2 MLP trained from an
// experience replay buffer against a periodically synced target network.
type DQN struct {
	cfg       config.DQNConfig
	rewards   config.RewardConfig
	online    *Network
	target    *Network
	replay    *Replay
	rng       *rand.Rand
	steps     int
	exploring bool
	lastLoss  float64
}

// NewDQN creates a freshly initialized DQN.
func NewDQN(cfg config.DQNConfig, rewards config.RewardConfig, seed int64) *DQN {
	if cfg.Hidden <= 0 {
		cfg.Hidden = 32
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	if cfg.HuberDelta <= 0 {
		cfg.HuberDelta = 1
	}
	rng := rand.New(rand.NewSource(seed))
	online := NewNetwork([]int{featureCount, cfg.Hidden, cfg.Hidden, numActions}, rng)
	return &DQN{
		cfg:       cfg,
		rewards:   rewards,
		online:    online,
		target:    online.Clone(),
		replay:    NewReplay(cfg.ReplayCapacity),
		rng:       rng,
		exploring: true,
	}
}

func (d *DQN) Name() string { return KindDQN }

// SetExploring toggles ε-greedy exploration.
func (d *DQN) SetExploring(on bool) { d.exploring = on }

// Steps returns how many transitions the agent has learned from.
func (d *DQN) Steps() int { return d.steps }

// LastLoss returns the mean Huber loss of the latest training batch.
func (d *DQN) LastLoss() float64 { return d.lastLoss }

// Epsilon returns the exploration rate, decaying exponentially with steps.
func (d *DQN) Epsilon() float64 {
	if d.cfg.EpsilonDecay <= 0 {
		return d.cfg.EpsilonEnd
	}
	return d.cfg.EpsilonEnd + (d.cfg.EpsilonStart-d.cfg.EpsilonEnd)*math.Exp(-float64(d.steps)/d.cfg.EpsilonDecay)
}

// QValues returns the online network's estimates for an observation.
func (d *DQN) QValues(obs Observation) []float64 {
	return d.online.Forward(obs.Vector())
}

// Decide picks an action ε-greedily from the online network.
func (d *DQN) Decide(obs Observation) bool {
	if d.exploring && d.rng.Float64() < d.Epsilon() {
		return d.rng.Intn(numActions) == ActionThrust
	}
	return floats.MaxIdx(d.QValues(obs)) == ActionThrust
}

// Learn stores the transition, trains on a replay batch once warmed up
// and syncs the target network every TargetSync steps.
func (d *DQN) Learn(prev Observation, thrust bool, out Outcome, next Observation, done bool) float64 {
	reward := DQNReward(d.rewards, out)
	d.replay.Add(Experience{
		State:  prev.Vector(),
		Action: actionOf(thrust),
		Reward: reward,
		Next:   next.Vector(),
		Done:   done,
	})
	d.steps++

	warm := d.cfg.WarmUp
	if warm < d.cfg.BatchSize {
		warm = d.cfg.BatchSize
	}
	if d.replay.Len() >= warm {
		d.lastLoss = d.train(d.replay.Sample(d.rng, d.cfg.BatchSize))
	}
	if d.cfg.TargetSync > 0 && d.steps%d.cfg.TargetSync == 0 {
		d.target.CopyFrom(d.online)
	}
	return reward
}

// train runs one gradient step over batch and returns the mean loss.
func (d *DQN) train(batch []Experience) float64 {
	g := d.online.zeroGrads()
	var loss float64

	for _, e := range batch {
		y := e.Reward
		if !e.Done {
			y += d.cfg.Discount * floats.Max(d.target.Forward(e.Next))
		}

		acts := d.online.activations(e.State)
		q := acts[len(acts)-1]
		diff := q[e.Action] - y

		l, grad := huber(diff, d.cfg.HuberDelta)
		loss += l

		outGrad := make([]float64, numActions)
		outGrad[e.Action] = grad
		d.online.backward(acts, outGrad, g)
	}

	d.online.apply(g, d.cfg.LearningRate, d.cfg.GradClip, len(batch))
	return loss / float64(len(batch))
}

// huber returns the smooth-L1 loss of diff and its derivative.
func huber(diff, delta float64) (float64, float64) {
	a := math.Abs(diff)
	if a <= delta {
		return 0.5 * diff * diff, diff
	}
	return delta * (a - 0.5*delta), math.Copysign(delta, diff)
}

type dqnFile struct {
	Kind   string   `json:"kind"`
	Steps  int      `json:"steps"`
	Online *Network `json:"online"`
	Target *Network `json:"target"`
}

// Save writes both networks as JSON. The replay buffer is not saved.
func (d *DQN) Save(path string) error {
	raw, err := json.Marshal(dqnFile{
		Kind:   KindDQN,
		Steps:  d.steps,
		Online: d.online,
		Target: d.target,
	})
	if err != nil {
		return fmt.Errorf("autopilot: cannot encode dqn: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("autopilot: cannot write dqn: %w", err)
	}
	return nil
}

// Load restores networks saved by Save.
func (d *DQN) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("autopilot: cannot read dqn: %w", err)
	}

	var doc dqnFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("autopilot: cannot decode dqn: %w", err)
	}
	if doc.Kind != KindDQN || doc.Online == nil {
		return fmt.Errorf("autopilot: %s does not hold a dqn model", path)
	}
	if err := checkShape(doc.Online, d.online); err != nil {
		return err
	}

	d.online = doc.Online
	if doc.Target != nil && checkShape(doc.Target, d.online) == nil {
		d.target = doc.Target
	} else {
		d.target = d.online.Clone()
	}
	d.steps = doc.Steps
	return nil
}

func checkShape(got, want *Network) error {
	if len(got.Layers) != len(want.Layers) {
		return fmt.Errorf("autopilot: dqn has %d layers, expected %d", len(got.Layers), len(want.Layers))
	}
	for i := range got.Layers {
		g, w := got.Layers[i], want.Layers[i]
		if g.In != w.In || g.Out != w.Out || len(g.W) != g.In*g.Out || len(g.B) != g.Out {
			return fmt.Errorf("autopilot: dqn layer %d is %dx%d, expected %dx%d", i, g.In, g.Out, w.In, w.Out)
		}
	}
	return nil
}
