package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg GameConfig
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultGameConfig()) {
		t.Errorf("embedded defaults drifted from DefaultGameConfig:\n%+v\n%+v", cfg, DefaultGameConfig())
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Obstacles.GapHeight != 225 {
		t.Errorf("GapHeight = %v, expected 225", cfg.Obstacles.GapHeight)
	}
}

func TestLoadCustomPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("gameplay:\n  lives: 7\nobstacles:\n  gap_height: 300\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gameplay.Lives != 7 {
		t.Errorf("Lives = %d, expected 7", cfg.Gameplay.Lives)
	}
	if cfg.Obstacles.GapHeight != 300 {
		t.Errorf("GapHeight = %v, expected 300", cfg.Obstacles.GapHeight)
	}
	// Untouched keys keep their defaults.
	if cfg.World.Width != 1200 {
		t.Errorf("World.Width = %v, expected default 1200", cfg.World.Width)
	}
}

func TestLoadCustomMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := []byte("world:\n  height: 40\n  floor_height: 50\ncheckpoints:\n  resume: sometimes\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{" HARD ", DifficultyHard, false},
		{"", DifficultyNormal, false},
		{"nightmare", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePreset(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePreset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePreset(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	easy := DefaultGameConfig()
	ApplyPreset(&easy, DifficultyEasy)
	if easy.Gameplay.Lives != 5 || easy.Checkpoints.Resume != ResumeLastPlanet {
		t.Errorf("easy preset: lives=%d resume=%s", easy.Gameplay.Lives, easy.Checkpoints.Resume)
	}

	hard := DefaultGameConfig()
	ApplyPreset(&hard, DifficultyHard)
	if hard.Checkpoints.AllowSave {
		t.Error("hard preset should disable checkpoint saves")
	}
	if hard.Checkpoints.Resume != ResumeStart {
		t.Errorf("hard resume = %s, expected start", hard.Checkpoints.Resume)
	}
	if hard.Obstacles.GapHeight >= easy.Obstacles.GapHeight {
		t.Error("hard gaps should be narrower than easy gaps")
	}
}
