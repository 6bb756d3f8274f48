package config

import "math"

// DifficultyManager calculates dynamic game parameters based on how far
// along the voyage the player is.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty level (0.0 to 1.0) for a planet index.
func (d *DifficultyManager) Level(planetIndex int) float64 {
	if !d.IsEnabled() || d.cfg.Progression.Type != "planet" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	progress := clampF(float64(planetIndex)/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed returns the obstacle scroll speed for a planet index.
func (d *DifficultyManager) Speed(baseSpeed float64, planetIndex int) float64 {
	level := d.Level(planetIndex)
	// Speed increases from base to base * (1 + speedMultiplier)
	return baseSpeed * (1.0 + level*d.cfg.Scaling.SpeedMultiplier)
}

// SpawnInterval returns the seconds between spawns for a planet index.
func (d *DifficultyManager) SpawnInterval(baseInterval float64, planetIndex int) float64 {
	level := d.Level(planetIndex)
	result := baseInterval * (1.0 - level*d.cfg.Scaling.IntervalReduction)
	if minInterval := d.cfg.Scaling.MinSpawnInterval; result < minInterval {
		result = minInterval
	}
	return result
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
