package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/starhop/internal/config"
	"github.com/vovakirdan/starhop/internal/games/starhop/planets"
	"github.com/vovakirdan/starhop/internal/progress"
)

var flagProgressFile string

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show or reset saved planet progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the last and furthest planet",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		tracker, catalog, err := openTracker()
		if err != nil {
			return err
		}
		p := tracker.Progress()
		fmt.Printf("Progress file: %s\n", tracker.Path())
		fmt.Printf("  Last planet:     %s\n", planetName(catalog, p.LastPlanet))
		fmt.Printf("  Furthest planet: %s\n", planetName(catalog, p.FurthestPlanet))
		if !tracker.AllowSave() {
			fmt.Println("  (saving is disabled in the config)")
		}
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start over from the first planet",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		tracker, _, err := openTracker()
		if err != nil {
			return err
		}
		if err := tracker.Reset(); err != nil {
			return err
		}
		fmt.Printf("Progress reset: %s\n", tracker.Path())
		return nil
	},
}

func init() {
	progressCmd.PersistentFlags().StringVar(&flagProgressFile, "file", "", "Progress file (default ~/.starhop/planet_progress.json)")
	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressResetCmd)
}

func openTracker() (*progress.Tracker, *planets.Catalog, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	config.ApplyPreset(&cfg, preset)
	catalog, err := planets.Default()
	if err != nil {
		return nil, nil, err
	}
	path := expandPath(flagProgressFile)
	if path == "" {
		path = progress.DefaultPath()
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "progress"})
	tracker, err := progress.Open(path, catalog.IDs(), cfg.Checkpoints.AllowSave, logger)
	if err != nil {
		return nil, nil, err
	}
	return tracker, catalog, nil
}

func planetName(catalog *planets.Catalog, id string) string {
	if i, ok := catalog.IndexOf(id); ok {
		return catalog.At(i).Name
	}
	return id
}
