package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFile = "starhop.yaml"

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Load loads the starhop configuration.
// Search order: customPath -> ~/.starhop/configs/starhop.yaml -> ./configs/starhop.yaml -> embedded default
//
// Files are decoded over the hardcoded defaults, so a partial file only
// overrides the keys it names.
func Load(customPath string) (GameConfig, error) {
	cfg := DefaultGameConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
			cfg = DefaultGameConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
		cfg = DefaultGameConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultStarhopYAML, &cfg); err != nil {
		return DefaultGameConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".starhop", "configs", filename)
}

// Validate checks the values the simulation cannot run without.
func (c GameConfig) Validate() error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.World.Width > 0, "world.width must be positive")
	check(c.World.Height > 0, "world.height must be positive")
	check(c.World.FloorHeight >= 0, "world.floor_height must not be negative")
	check(c.World.PlayableHeight() > 0, "world.floor_height must leave a playable band")
	check(c.Obstacles.Width > 0, "obstacles.width must be positive")
	check(c.Obstacles.GapHeight > 0, "obstacles.gap_height must be positive")
	check(c.Obstacles.SpawnInterval > 0, "obstacles.spawn_interval must be positive")
	check(c.Collectibles.SpawnInterval > 0, "collectibles.spawn_interval must be positive")
	check(c.Spacecraft.HitboxWidth > 0 && c.Spacecraft.HitboxHeight > 0, "spacecraft hitbox must be positive")
	check(c.Spacecraft.SpriteWidth >= c.Spacecraft.HitboxWidth, "spacecraft.sprite_width must cover the hitbox")
	check(c.Gameplay.Lives > 0, "gameplay.lives must be positive")
	check(c.Quiz.AnswerSeconds > 0, "quiz.answer_seconds must be positive")

	switch c.Checkpoints.Resume {
	case ResumeLastPlanet, ResumeCheckpoint, ResumeStart:
	default:
		problems = append(problems, fmt.Sprintf("checkpoints.resume %q is not one of last_planet, checkpoint, start", c.Checkpoints.Resume))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ParsePreset converts a flag value into a DifficultyPreset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(name))); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	case "":
		return DifficultyNormal, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	// Adjust gameplay and checkpointing based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.Lives = 5
		cfg.Obstacles.GapHeight *= 1.15
		cfg.Obstacles.SpawnInterval *= 1.2
		cfg.Quiz.AnswerSeconds *= 1.5
		setWeight(cfg, "life", 25)
		cfg.Checkpoints.AllowSave = true
		cfg.Checkpoints.Resume = ResumeLastPlanet
	case DifficultyNormal:
		cfg.Checkpoints.AllowSave = true
		cfg.Checkpoints.Resume = ResumeCheckpoint
	case DifficultyHard:
		cfg.Gameplay.Lives = 2
		cfg.Obstacles.GapHeight *= 0.85
		cfg.Obstacles.SpawnInterval *= 0.85
		cfg.Quiz.AnswerSeconds *= 0.7
		setWeight(cfg, "life", 5)
		setWeight(cfg, "weapon", 10)
		cfg.Checkpoints.AllowSave = false
		cfg.Checkpoints.Resume = ResumeStart
	}
}

func setWeight(cfg *GameConfig, kind string, weight int) {
	if cfg.Collectibles.Weights == nil {
		cfg.Collectibles.Weights = make(map[string]int)
	}
	cfg.Collectibles.Weights[kind] = weight
}
