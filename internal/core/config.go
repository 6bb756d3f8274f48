package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses this to size its screen and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Delta returns the simulated seconds covered by one tick.
func (c RuntimeConfig) Delta() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score       int    // Score on the current planet
	TotalScore  int    // Score accumulated over the whole run
	Lives       int    // Remaining lives
	Planet      string // Current planet identifier
	PlanetIndex int    // Position of the planet in the voyage
	Phase       string // Name of the active state (menu, playing, quiz...)
	Autopilot   bool   // Whether the autopilot is flying
	GameOver    bool   // Whether the run has ended
	Paused      bool   // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State  GameState
	Events []string // Narrator lines emitted during the tick
}
