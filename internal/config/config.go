// Package config provides YAML-based game configuration loading and
// difficulty management for starhop.
package config

// GameConfig contains all configuration for a starhop run.
// Distances are world units, durations are simulated seconds.
type GameConfig struct {
	World        WorldConfig       `yaml:"world"`
	Physics      PhysicsConfig     `yaml:"physics"`
	Spacecraft   SpacecraftConfig  `yaml:"spacecraft"`
	Collision    CollisionConfig   `yaml:"collision"`
	Obstacles    ObstacleConfig    `yaml:"obstacles"`
	Collectibles CollectibleConfig `yaml:"collectibles"`
	Gameplay     GameplayConfig    `yaml:"gameplay"`
	Quiz         QuizConfig        `yaml:"quiz"`
	Transition   TransitionConfig  `yaml:"transition"`
	Checkpoints  CheckpointConfig  `yaml:"checkpoints"`
	Sound        SoundConfig       `yaml:"sound"`
	Difficulty   DifficultyConfig  `yaml:"difficulty"`
	Autopilot    AutopilotConfig   `yaml:"autopilot"`
}

// WorldConfig defines the simulated playfield.
type WorldConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	FloorHeight float64 `yaml:"floor_height"`
}

// PlayableHeight is the vertical band between the ceiling and the floor.
func (w WorldConfig) PlayableHeight() float64 {
	return w.Height - w.FloorHeight
}

// PhysicsConfig defines spacecraft and scrolling physics.
type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`         // Downward acceleration at gravity factor 1.0
	ThrustImpulse  float64 `yaml:"thrust_impulse"`  // Vertical velocity set by a thrust (negative = up)
	MaxFallSpeed   float64 `yaml:"max_fall_speed"`  // Terminal velocity downward
	MaxRiseSpeed   float64 `yaml:"max_rise_speed"`  // Terminal velocity upward
	TiltFactor     float64 `yaml:"tilt_factor"`     // Degrees of tilt per unit of vertical velocity
	MaxTilt        float64 `yaml:"max_tilt"`        // Tilt clamp in degrees
	KnockbackDecay float64 `yaml:"knockback_decay"` // Per-second rate pulling the ship back to its home x
	BaseSpeed      float64 `yaml:"base_speed"`      // Obstacle scroll speed on the first planet
}

// SpacecraftConfig defines the ship geometry.
// The sprite includes the engine flame; the hitbox is the body only.
type SpacecraftConfig struct {
	X                  float64 `yaml:"x"`
	SpriteWidth        float64 `yaml:"sprite_width"`
	SpriteHeight       float64 `yaml:"sprite_height"`
	HitboxWidth        float64 `yaml:"hitbox_width"`
	HitboxHeight       float64 `yaml:"hitbox_height"`
	InvulnerableFrames int     `yaml:"invulnerable_frames"`
}

// FlameWidth returns the part of the sprite trailing the hitbox.
func (s SpacecraftConfig) FlameWidth() float64 {
	return s.SpriteWidth - s.HitboxWidth
}

// CollisionConfig defines knockback and hit feedback.
type CollisionConfig struct {
	BoundaryKnockback float64 `yaml:"boundary_knockback"`
	KnockbackX        float64 `yaml:"knockback_x"`
	KnockbackY        float64 `yaml:"knockback_y"`
	ShakeFrames       int     `yaml:"shake_frames"`
	FlashFrames       int     `yaml:"flash_frames"`
}

// ObstacleConfig defines obstacle geometry and spawning.
type ObstacleConfig struct {
	Width         float64 `yaml:"width"`
	GapHeight     float64 `yaml:"gap_height"`
	SpawnInterval float64 `yaml:"spawn_interval"`
}

// CollectibleConfig defines pickups, their values and spawn weights.
type CollectibleConfig struct {
	Size            float64        `yaml:"size"`
	SpawnInterval   float64        `yaml:"spawn_interval"`
	Values          map[string]int `yaml:"values"`  // Points per kind
	Weights         map[string]int `yaml:"weights"` // Relative spawn weights per kind
	WeaponDuration  float64        `yaml:"weapon_duration"`
	FireCooldown    float64        `yaml:"fire_cooldown"`
	ProjectileSpeed float64        `yaml:"projectile_speed"`
	MaxLives        int            `yaml:"max_lives"`
}

// GameplayConfig defines run-level rules.
type GameplayConfig struct {
	Lives            int     `yaml:"lives"`
	QuizRetryPenalty int     `yaml:"quiz_retry_penalty"` // Points below the threshold after a failed quiz
	SplashSeconds    float64 `yaml:"splash_seconds"`
}

// QuizConfig defines quiz timers.
type QuizConfig struct {
	AnswerSeconds    float64 `yaml:"answer_seconds"`
	ResultSeconds    float64 `yaml:"result_seconds"`
	FailureCountdown float64 `yaml:"failure_countdown"`
}

// TransitionConfig defines the planet arrival sequence.
type TransitionConfig struct {
	Duration float64 `yaml:"duration"` // Minimum time spent in the transition state
}

// CheckpointConfig defines how progress is saved and resumed.
type CheckpointConfig struct {
	AllowSave bool   `yaml:"allow_save"`
	Resume    string `yaml:"resume"` // "last_planet", "checkpoint" or "start"
}

// Resume policies after a game over.
const (
	ResumeLastPlanet = "last_planet"
	ResumeCheckpoint = "checkpoint"
	ResumeStart      = "start"
)

// SoundConfig defines simulated cue lengths and music volume.
type SoundConfig struct {
	Volume           float64            `yaml:"volume"`
	MusicFadeSeconds float64            `yaml:"music_fade_seconds"`
	CueSeconds       map[string]float64 `yaml:"cue_seconds"`
}

// DifficultyConfig defines the per-planet difficulty progression.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases along the voyage.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "planet" or "none"
	MaxAt int    `yaml:"max_at"` // Planet index at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`   // Multiplier added to speed at max difficulty
	IntervalReduction float64 `yaml:"interval_reduction"` // Fraction removed from spawn intervals at max difficulty
	MinSpawnInterval  float64 `yaml:"min_spawn_interval"`
}

// AutopilotConfig holds learning parameters for both autopilots.
type AutopilotConfig struct {
	AnswerQuizzes bool            `yaml:"answer_quizzes"` // Autopilot picks the right answer so unattended voyages keep going
	AnswerDelay   float64         `yaml:"answer_delay"`   // Seconds before the autopilot answers
	Rewards       RewardConfig    `yaml:"rewards"`
	QLearning     QLearningConfig `yaml:"qlearning"`
	DQN           DQNConfig       `yaml:"dqn"`
}

// RewardConfig shapes the learning signal.
type RewardConfig struct {
	Survive  float64 `yaml:"survive"`   // Per tick survived
	Score    float64 `yaml:"score"`     // Per score increment
	LifeLost float64 `yaml:"life_lost"` // Per life lost
	Crash    float64 `yaml:"crash"`     // Terminal penalty (DQN)
	GapBonus float64 `yaml:"gap_bonus"` // Bonus for passing near a gap center (DQN)
}

// QLearningConfig configures the tabular autopilot.
type QLearningConfig struct {
	Epsilon      float64 `yaml:"epsilon"`
	LearningRate float64 `yaml:"learning_rate"`
	Discount     float64 `yaml:"discount"`
	Bins         int     `yaml:"bins"`
}

// DQNConfig configures the neural autopilot.
type DQNConfig struct {
	Hidden         int     `yaml:"hidden"`
	LearningRate   float64 `yaml:"learning_rate"`
	Discount       float64 `yaml:"discount"`
	BatchSize      int     `yaml:"batch_size"`
	ReplayCapacity int     `yaml:"replay_capacity"`
	WarmUp         int     `yaml:"warm_up"`
	TargetSync     int     `yaml:"target_sync"`
	EpsilonStart   float64 `yaml:"epsilon_start"`
	EpsilonEnd     float64 `yaml:"epsilon_end"`
	EpsilonDecay   float64 `yaml:"epsilon_decay"` // Steps per e-fold of exploration decay
	GradClip       float64 `yaml:"grad_clip"`
	HuberDelta     float64 `yaml:"huber_delta"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.15
	case DifficultyHard:
		return 0.4
	default:
		return 0.0
	}
}
