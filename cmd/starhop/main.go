// starhop is a terminal space voyage: fly between planets, dodge
// obstacles, answer a quiz at each threshold, and let a learning
// autopilot take the stick.
//
// Usage:
//
//	starhop play              - Start a voyage
//	starhop list              - List game modes
//	starhop scores            - Show the best runs
//	starhop board             - Interactive scoreboard
//	starhop serve             - Start SSH server for remote play
//	starhop train             - Train the autopilot headless
//	starhop progress show     - Show saved planet progress
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 60)
//	--seed <value>         - Set RNG seed for reproducible flights
//	--db <path>            - Set database path (default: ~/.starhop/runs.db)
//	--config <path>        - Game config YAML
//	--difficulty <preset>  - easy, normal or hard
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/starhop/internal/games/starhop"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagVerbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "starhop",
	Short: "Starhop - a planet-hopping voyage in your terminal",
	Long: `Starhop is a terminal arcade voyage from Earth to the outer planets.
Collect stars to reach each planet's threshold, pass the quiz, and hop on.

Available commands:
  play      - Start a voyage
  list      - Show game modes
  scores    - Print the best runs
  board     - Interactive scoreboard
  serve     - Start SSH server for remote play
  train     - Train the autopilot without a terminal
  progress  - Show or reset saved planet progress

Examples:
  starhop play
  starhop play --autopilot --model ~/.starhop/pilot.json
  starhop train --episodes 500 --pilot dqn
  starhop serve --ssh :2222`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.starhop/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "normal", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(progressCmd)
}
