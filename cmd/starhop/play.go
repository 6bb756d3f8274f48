package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/starhop/internal/core"
	"github.com/vovakirdan/starhop/internal/games/starhop"
	"github.com/vovakirdan/starhop/internal/platform/tui"
	"github.com/vovakirdan/starhop/internal/registry"
	"github.com/vovakirdan/starhop/internal/storage"
)

var (
	flagAutopilot bool
	flagPilot     string
	flagModel     string
	flagLearn     bool
	flagProgress  string
	flagNoHelp    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a voyage",
	Long: `Fly from planet to planet. Reach the score threshold to open the
planet quiz; answer correctly to hop to the next planet.

Controls:
  Space/W/Up  - Thrust
  F           - Fire (when the weapon is active)
  1-4         - Answer quiz
  Tab         - Toggle autopilot
  P           - Pause
  R           - Restart (after game over)
  B/Esc       - Back to menu
  Q/Ctrl+C    - Quit

Examples:
  starhop play
  starhop play --difficulty hard
  starhop play --autopilot --pilot dqn --model ./pilot.json
  starhop play --config ./my-starhop.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagAutopilot, "autopilot", false, "Let the autopilot fly from the start")
	playCmd.Flags().StringVar(&flagPilot, "pilot", "qlearn", "Autopilot kind: qlearn or dqn")
	playCmd.Flags().StringVar(&flagModel, "model", "", "Trained autopilot model to load")
	playCmd.Flags().BoolVar(&flagLearn, "learn", false, "Keep training the autopilot while it flies")
	playCmd.Flags().StringVar(&flagProgress, "progress", "", "Progress file (default ~/.starhop/planet_progress.json)")
	playCmd.Flags().BoolVar(&flagNoHelp, "no-help", false, "Hide the key help bar")
}

func currentPlayer() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

func runPlay(_ *cobra.Command, _ []string) {
	gameID := starhop.GameID
	if flagAutopilot {
		gameID = starhop.AutopilotID
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// The TUI owns the terminal, so warnings go to stderr before it starts
	// and are kept quiet while it runs.
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "starhop", Level: log.WarnLevel})

	game, err := registry.Create(gameID, registry.Options{
		ConfigPath:   flagConfig,
		Difficulty:   flagDifficulty,
		ProgressPath: flagProgress,
		PilotKind:    flagPilot,
		ModelPath:    flagModel,
		Learn:        flagLearn,
		Seed:         flagSeed,
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - the voyage still works
		store = nil
	}

	runErr := tui.Run(game, store, cfg, tui.Options{
		Player:     currentPlayer(),
		Difficulty: flagDifficulty,
		Logger:     logger,
		ShowHelp:   !flagNoHelp,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}

	// A learning session keeps what it learned.
	if flagLearn && flagModel != "" {
		if g, ok := game.(*starhop.Game); ok && g.Pilot() != nil {
			if err := g.Pilot().Save(flagModel); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save model: %v\n", err)
			}
		}
	}
}
