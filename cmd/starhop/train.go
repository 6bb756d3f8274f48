package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/starhop/internal/core"
	"github.com/vovakirdan/starhop/internal/games/starhop"
	"github.com/vovakirdan/starhop/internal/registry"
	"github.com/vovakirdan/starhop/internal/storage"
)

var (
	flagEpisodes    int
	flagMaxSteps    int
	flagTrainPilot  string
	flagTrainModel  string
	flagTrainResume bool
	flagStartPlanet int
	flagLogEvery    int
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the autopilot headless",
	Long: `Fly the autopilot without a terminal for a number of episodes,
learning as it goes. Each episode is recorded in the runs database under
one training run id, and the model is written at the end.

Examples:
  starhop train --episodes 1000
  starhop train --pilot dqn --model ~/.starhop/dqn.json
  starhop train --resume --model ~/.starhop/pilot.json --episodes 200`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&flagEpisodes, "episodes", 200, "Episodes to fly")
	trainCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 60*60*5, "Tick cap per episode")
	trainCmd.Flags().StringVar(&flagTrainPilot, "pilot", "qlearn", "Autopilot kind: qlearn or dqn")
	trainCmd.Flags().StringVar(&flagTrainModel, "model", "~/.starhop/pilot.json", "Where to write the trained model")
	trainCmd.Flags().BoolVar(&flagTrainResume, "resume", false, "Continue from the model file")
	trainCmd.Flags().IntVar(&flagStartPlanet, "planet", 0, "Planet index to start each episode at")
	trainCmd.Flags().IntVar(&flagLogEvery, "log-every", 10, "Log a summary every N episodes")
}

func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func trainingOptions(seed int64, modelPath, progressPath string, logger *log.Logger) registry.Options {
	return registry.Options{
		ConfigPath:   flagConfig,
		Difficulty:   flagDifficulty,
		ProgressPath: progressPath,
		PilotKind:    flagTrainPilot,
		ModelPath:    modelPath,
		Learn:        true,
		Seed:         seed,
		Logger:       logger,
	}
}

type epsilonReporter interface {
	Epsilon() float64
}

func runTrain(_ *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "train",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	modelPath := expandPath(flagTrainModel)
	loadPath := ""
	if flagTrainResume {
		loadPath = modelPath
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Training never touches the player's progress file.
	progressDir, err := os.MkdirTemp("", "starhop-train-")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(progressDir)

	game, err := starhop.Build(trainingOptions(seed, loadPath, filepath.Join(progressDir, "progress.json"), logger),
		starhop.AutopilotID, "Starhop training", true)
	if err != nil {
		return err
	}
	game.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: seed})

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database, episodes will not be recorded", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	runID := uuid.NewString()
	pilot := game.Pilot()
	logger.Info("training started", "run", runID, "pilot", pilot.Name(), "episodes", flagEpisodes, "seed", seed)

	var windowReward float64
	best := -1
	for ep := 1; ep <= flagEpisodes; ep++ {
		res, err := game.RunEpisode(flagStartPlanet, flagMaxSteps)
		if err != nil {
			return fmt.Errorf("episode %d: %w", ep, err)
		}
		windowReward += res.Reward
		best = max(best, res.TotalScore)

		var epsilon float64
		if r, ok := pilot.(epsilonReporter); ok {
			epsilon = r.Epsilon()
		}

		if store != nil {
			if _, err := store.SaveEpisode(storage.Episode{
				RunID:   runID,
				Agent:   pilot.Name(),
				Episode: ep,
				Reward:  res.Reward,
				Score:   res.TotalScore,
				Steps:   res.Steps,
				Epsilon: epsilon,
			}); err != nil {
				logger.Warn("could not record episode", "episode", ep, "error", err)
			}
		}

		logger.Debug("episode", "n", ep, "reward", res.Reward, "score", res.TotalScore,
			"planet", res.Planet, "steps", res.Steps, "crashed", res.Crashed)
		if flagLogEvery > 0 && ep%flagLogEvery == 0 {
			logger.Info("progress",
				"episode", ep,
				"avg_reward", fmt.Sprintf("%.2f", windowReward/float64(flagLogEvery)),
				"best_score", best,
				"epsilon", fmt.Sprintf("%.3f", epsilon))
			windowReward = 0
		}
	}

	if err := os.MkdirAll(filepath.Dir(modelPath), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	if err := pilot.Save(modelPath); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	logger.Info("training finished", "run", runID, "model", modelPath, "best_score", best)
	return nil
}
