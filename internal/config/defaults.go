package config

import (
	_ "embed"
)

//go:embed defaults/starhop.yaml
var defaultStarhopYAML []byte

// DefaultGameConfig returns the hardcoded starhop configuration.
// It mirrors defaults/starhop.yaml and is the last fallback when the
// embedded file cannot be parsed.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		World: WorldConfig{
			Width:       1200,
			Height:      800,
			FloorHeight: 50,
		},
		Physics: PhysicsConfig{
			Gravity:        1400,
			ThrustImpulse:  -420,
			MaxFallSpeed:   600,
			MaxRiseSpeed:   500,
			TiltFactor:     0.06,
			MaxTilt:        30,
			KnockbackDecay: 4,
			BaseSpeed:      260,
		},
		Spacecraft: SpacecraftConfig{
			X:                  200,
			SpriteWidth:        90,
			SpriteHeight:       40,
			HitboxWidth:        60,
			HitboxHeight:       30,
			InvulnerableFrames: 90,
		},
		Collision: CollisionConfig{
			BoundaryKnockback: 300,
			KnockbackX:        250,
			KnockbackY:        350,
			ShakeFrames:       20,
			FlashFrames:       10,
		},
		Obstacles: ObstacleConfig{
			Width:         90,
			GapHeight:     225,
			SpawnInterval: 2.2,
		},
		Collectibles: CollectibleConfig{
			Size:          36,
			SpawnInterval: 3.5,
			Values: map[string]int{
				"data":   2,
				"fuel":   1,
				"weapon": 0,
				"life":   0,
			},
			Weights: map[string]int{
				"data":   40,
				"fuel":   30,
				"weapon": 15,
				"life":   15,
			},
			WeaponDuration:  6,
			FireCooldown:    0.35,
			ProjectileSpeed: 900,
			MaxLives:        5,
		},
		Gameplay: GameplayConfig{
			Lives:            3,
			QuizRetryPenalty: 3,
			SplashSeconds:    2,
		},
		Quiz: QuizConfig{
			AnswerSeconds:    15,
			ResultSeconds:    2.5,
			FailureCountdown: 3,
		},
		Transition: TransitionConfig{
			Duration: 2.5,
		},
		Checkpoints: CheckpointConfig{
			AllowSave: true,
			Resume:    ResumeCheckpoint,
		},
		Sound: SoundConfig{
			Volume:           0.8,
			MusicFadeSeconds: 1.5,
			CueSeconds: map[string]float64{
				"welcome":   3,
				"collision": 0.5,
				"pickup":    0.3,
				"correct":   1,
				"incorrect": 1,
				"countdown": 0.4,
				"game_over": 2,
				"laser":     0.2,
			},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "planet",
				MaxAt: 7,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   0.8,
				IntervalReduction: 0.35,
				MinSpawnInterval:  0.8,
			},
		},
		Autopilot: AutopilotConfig{
			AnswerQuizzes: true,
			AnswerDelay:   1,
			Rewards: RewardConfig{
				Survive:  0.1,
				Score:    1.0,
				LifeLost: -5.0,
				Crash:    -10.0,
				GapBonus: 0.5,
			},
			QLearning: QLearningConfig{
				Epsilon:      0.1,
				LearningRate: 0.1,
				Discount:     0.95,
				Bins:         10,
			},
			DQN: DQNConfig{
				Hidden:         32,
				LearningRate:   0.001,
				Discount:       0.99,
				BatchSize:      32,
				ReplayCapacity: 10000,
				WarmUp:         256,
				TargetSync:     500,
				EpsilonStart:   1.0,
				EpsilonEnd:     0.05,
				EpsilonDecay:   5000,
				GradClip:       1.0,
				HuberDelta:     1.0,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultStarhopYAML
}
