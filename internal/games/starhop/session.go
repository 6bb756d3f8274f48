package starhop

import "github.com/vovakirdan/starhop/internal/config"

// Session is the mutable run aggregate: score, lives and voyage position.
// The active state lives in the StateMachine; Session only reads it.
type Session struct {
	Score         int // Score on the current planet
	TotalScore    int // Score over the whole run
	Lives         int
	MaxLives      int
	PlanetIndex   int
	FurthestIndex int
	DiedAt        int // Planet index of the last game over
	Difficulty    config.DifficultyPreset

	quizArmed  bool
	quizStarts int
	machine    *StateMachine
}

// State returns the active state.
func (s *Session) State() State {
	if s.machine == nil {
		return StateSplash
	}
	return s.machine.Current()
}

// Begin resets the run counters for a voyage starting at planet.
func (s *Session) Begin(planet, lives int) {
	s.Score = 0
	s.TotalScore = 0
	s.Lives = lives
	s.PlanetIndex = planet
	if planet > s.FurthestIndex {
		s.FurthestIndex = planet
	}
	s.quizArmed = true
}

// AddScore adds points to both the planet and run totals.
func (s *Session) AddScore(n int) {
	if n <= 0 {
		return
	}
	s.Score += n
	s.TotalScore += n
}

// LoseLife removes one life, never going below zero.
// Returns whether any lives remain.
func (s *Session) LoseLife() bool {
	if s.Lives > 0 {
		s.Lives--
	}
	return s.Lives > 0
}

// GainLife adds a life up to MaxLives.
func (s *Session) GainLife() bool {
	if s.MaxLives > 0 && s.Lives >= s.MaxLives {
		return false
	}
	s.Lives++
	return true
}

// Advance moves to the next planet and starts its score from zero.
func (s *Session) Advance() {
	s.PlanetIndex++
	if s.PlanetIndex > s.FurthestIndex {
		s.FurthestIndex = s.PlanetIndex
	}
	s.Score = 0
	s.quizArmed = true
}

// QuizStarts returns how many quizzes this session has started.
func (s *Session) QuizStarts() int { return s.quizStarts }
