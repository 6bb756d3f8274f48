// Package sound provides the cue player the game talks to.
//
// Nothing here touches an audio device. The Mixer tracks which cues are
// playing and for how long, so gameplay that waits on a cue (the planet
// welcome narration) behaves the same with or without speakers.
package sound

import (
	"github.com/charmbracelet/log"
)

// Cue names used by the game.
const (
	CueWelcome   = "welcome"
	CueCollision = "collision"
	CuePickup    = "pickup"
	CueCorrect   = "correct"
	CueIncorrect = "incorrect"
	CueCountdown = "countdown"
	CueGameOver  = "game_over"
	CueLaser     = "laser"
)

// Player is the sound collaborator used by the game.
type Player interface {
	Play(cue string)
	Stop(cue string)
	IsPlaying(cue string) bool
	Update(dt float64)
	FadeMusic(target, seconds float64)
	Volume() float64
}

// Mixer simulates cue playback with fixed durations and timed volume ramps.
// It is driven from the game loop; it has no goroutines.
type Mixer struct {
	durations map[string]float64
	playing   map[string]float64 // cue -> seconds remaining
	missing   map[string]bool
	volume    float64
	fade      *ramp
	logger    *log.Logger
}

type ramp struct {
	from, to float64
	elapsed  float64
	duration float64
}

// NewMixer creates a mixer with the given cue lengths in seconds.
// A nil logger disables cue logging.
func NewMixer(durations map[string]float64, volume float64, logger *log.Logger) *Mixer {
	d := make(map[string]float64, len(durations))
	for k, v := range durations {
		d[k] = v
	}
	return &Mixer{
		durations: d,
		playing:   make(map[string]float64),
		missing:   make(map[string]bool),
		volume:    clamp01(volume),
		logger:    logger,
	}
}

// Play starts a cue, restarting it if it is already playing.
// Unknown cues are logged once and otherwise ignored.
func (m *Mixer) Play(cue string) {
	d, ok := m.durations[cue]
	if !ok {
		if !m.missing[cue] {
			m.missing[cue] = true
			if m.logger != nil {
				m.logger.Warn("sound cue not found, continuing silently", "cue", cue)
			}
		}
		return
	}
	m.playing[cue] = d
	if m.logger != nil {
		m.logger.Debug("cue", "name", cue, "seconds", d)
	}
}

// Stop ends a cue early.
func (m *Mixer) Stop(cue string) {
	delete(m.playing, cue)
}

// IsPlaying reports whether a cue still has time remaining.
func (m *Mixer) IsPlaying(cue string) bool {
	_, ok := m.playing[cue]
	return ok
}

// Update advances cue timers and any running fade.
func (m *Mixer) Update(dt float64) {
	for cue, left := range m.playing {
		left -= dt
		if left <= 0 {
			delete(m.playing, cue)
			continue
		}
		m.playing[cue] = left
	}

	if m.fade != nil {
		m.fade.elapsed += dt
		t := m.fade.elapsed / m.fade.duration
		if t >= 1 {
			m.volume = m.fade.to
			m.fade = nil
			return
		}
		m.volume = m.fade.from + (m.fade.to-m.fade.from)*t
	}
}

// FadeMusic ramps the music volume to target over the given seconds.
// A non-positive duration applies the target immediately.
func (m *Mixer) FadeMusic(target, seconds float64) {
	target = clamp01(target)
	if seconds <= 0 {
		m.volume = target
		m.fade = nil
		return
	}
	m.fade = &ramp{from: m.volume, to: target, duration: seconds}
}

// Volume returns the current music volume in [0, 1].
func (m *Mixer) Volume() float64 { return m.volume }

// Silent is a Player that never plays anything.
type Silent struct{}

func (Silent) Play(string) {}
func (Silent) Stop(string) {}
func (Silent) IsPlaying(string) bool { return false }
func (Silent) Update(float64) {}
func (Silent) FadeMusic(float64, float64) {}
func (Silent) Volume() float64 { return 0 }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
