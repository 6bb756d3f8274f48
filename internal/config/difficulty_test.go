package config

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDifficultyLevelByPlanet(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "planet", MaxAt: 4},
	})

	tests := []struct {
		planet int
		want   float64
	}{
		{0, 0.2},
		{2, 0.6},
		{4, 1.0},
		{9, 1.0},
	}

	for _, tt := range tests {
		if got := dm.Level(tt.planet); !almostEqual(got, tt.want) {
			t.Errorf("Level(%d) = %v, expected %v", tt.planet, got, tt.want)
		}
	}
}

func TestDifficultyDisabled(t *testing.T) {
	dm := NewDifficultyManager(DefaultGameConfig().Difficulty)
	dm.SetEnabled(false)
	dm.SetInitialLevel(1.5)

	if dm.IsEnabled() {
		t.Error("manager should report disabled")
	}
	if got := dm.Level(7); got != 1.0 {
		t.Errorf("Level() = %v, expected clamped initial level 1.0", got)
	}
}

func TestDifficultySpeedAndInterval(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "planet", MaxAt: 2},
		Scaling: ScalingConfig{
			SpeedMultiplier:   0.5,
			IntervalReduction: 0.5,
			MinSpawnInterval:  1.5,
		},
	})

	if got := dm.Speed(200, 0); !almostEqual(got, 200) {
		t.Errorf("Speed at planet 0 = %v, expected 200", got)
	}
	if got := dm.Speed(200, 2); !almostEqual(got, 300) {
		t.Errorf("Speed at max = %v, expected 300", got)
	}
	if got := dm.SpawnInterval(4, 1); !almostEqual(got, 3) {
		t.Errorf("SpawnInterval at half = %v, expected 3", got)
	}
	if got := dm.SpawnInterval(2, 2); !almostEqual(got, 1.5) {
		t.Errorf("SpawnInterval should floor at 1.5, got %v", got)
	}
}
