package starhop

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starhop/internal/autopilot"
	"github.com/vovakirdan/starhop/internal/config"
	"github.com/vovakirdan/starhop/internal/games/starhop/planets"
	"github.com/vovakirdan/starhop/internal/progress"
	"github.com/vovakirdan/starhop/internal/registry"
	"github.com/vovakirdan/starhop/internal/sound"
)

// NarratorHold is how long each narrator line stays on screen, in seconds.
const NarratorHold = 2.5

// Build assembles a game and its collaborators from registry options.
// autopilotOn hands control to the pilot from the first tick.
func Build(opts registry.Options, id, title string, autopilotOn bool) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	preset, err := config.ParsePreset(opts.Difficulty)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	config.ApplyPreset(&cfg, preset)

	catalog, err := planets.Default()
	if err != nil {
		return nil, err
	}

	path := opts.ProgressPath
	if path == "" {
		path = progress.DefaultPath()
	}
	tracker, err := progress.Open(path, catalog.IDs(), cfg.Checkpoints.AllowSave, logger)
	if err != nil {
		return nil, err
	}

	kind := opts.PilotKind
	if kind == "" {
		kind = autopilot.KindQLearning
	}
	pilot, err := autopilot.New(kind, cfg.Autopilot, opts.Seed)
	if err != nil {
		return nil, err
	}
	if opts.ModelPath != "" {
		if err := pilot.Load(opts.ModelPath); err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		logger.Info("autopilot model loaded", "kind", pilot.Name(), "path", opts.ModelPath)
	}
	pilot.SetExploring(opts.Learn)

	return New(Deps{
		Config:         &cfg,
		Catalog:        catalog,
		Progress:       tracker,
		Sound:          sound.NewMixer(cfg.Sound.CueSeconds, cfg.Sound.Volume, logger),
		Narrator:       NewNarrator(NarratorHold),
		Difficulty:     preset,
		Pilot:          pilot,
		Learn:          opts.Learn,
		StartAutopilot: autopilotOn,
		ID:             id,
		Title:          title,
	})
}

// Register the game with the registry
func init() {
	register(GameID, "Starhop", false)
	register(AutopilotID, "Starhop (autopilot)", true)
}

func register(id, title string, autopilotOn bool) {
	registry.Register(id, title, func(opts registry.Options) (registry.Game, error) {
		g, err := Build(opts, id, title, autopilotOn)
		if err != nil {
			return nil, err
		}
		return g, nil
	})
}
