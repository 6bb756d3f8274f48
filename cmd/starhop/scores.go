package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starhop/internal/games/starhop"
	"github.com/vovakirdan/starhop/internal/registry"
	"github.com/vovakirdan/starhop/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show the best runs",
	Long: `Display the best runs for a game mode, ranked by total score and then
by the furthest planet reached.

Examples:
  starhop scores
  starhop scores starhop_autopilot --limit 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "How many runs to show")
}

func runScores(_ *cobra.Command, args []string) {
	mode := starhop.GameID
	if len(args) == 1 {
		mode = args[0]
	}

	if !registry.Exists(mode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'starhop list' to see available modes.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.TopRuns(mode, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	fmt.Printf("Best runs - %s\n", mode)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'starhop play' to set the first record!")
		return
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %-8s  %-6s  %s\n", "Rank", "Player", "Total", "Planet", "Diff", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-8s  %-6s  %s\n", "----", "------", "-----", "------", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-12s  %-8d  %-8s  %-6s  %s\n",
			i+1, r.Player, r.TotalScore, r.Planet, r.Difficulty, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.GetModeStats(mode); err == nil {
		fmt.Printf("Runs: %d  Best: %d  Average: %.1f\n", stats.RunsCount, stats.HighScore, stats.AvgScore)
	}
}
