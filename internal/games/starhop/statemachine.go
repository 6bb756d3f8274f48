package starhop

import (
	"errors"
	"fmt"
)

// State is the active phase of the game. Exactly one is live at a time.
type State int

const (
	StateSplash State = iota
	StateMenu
	StateTransition
	StatePlaying
	StateQuiz
	StateQuizFailure
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateSplash:
		return "splash"
	case StateMenu:
		return "menu"
	case StateTransition:
		return "transition"
	case StatePlaying:
		return "playing"
	case StateQuiz:
		return "quiz"
	case StateQuizFailure:
		return "quiz_failure"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

var (
	// ErrIllegalTransition is returned for an edge not in the state table.
	ErrIllegalTransition = errors.New("starhop: illegal state transition")
	// ErrReentrantTransition is returned when an enter hook requests
	// another transition.
	ErrReentrantTransition = errors.New("starhop: transition requested during transition")
)

// edges lists the states reachable from each state.
var edges = map[State][]State{
	StateSplash:      {StateMenu},
	StateMenu:        {StateTransition, StatePlaying},
	StateTransition:  {StatePlaying},
	StatePlaying:     {StateQuiz, StateGameOver},
	StateQuiz:        {StateTransition, StateQuizFailure},
	StateQuizFailure: {StatePlaying},
	StateGameOver:    {StateTransition, StateMenu},
}

// EnterFunc runs the side effects of arriving in a state.
type EnterFunc func(from, to State)

// StateMachine owns the current state. The only way to change it is
// Transition, which commits the new state before running the enter hook.
type StateMachine struct {
	current State
	busy    bool
	enter   EnterFunc
}

// NewStateMachine starts in initial without running its enter hook.
func NewStateMachine(initial State, enter EnterFunc) *StateMachine {
	return &StateMachine{current: initial, enter: enter}
}

// Current returns the active state.
func (m *StateMachine) Current() State { return m.current }

// CanTransition reports whether to is reachable from the current state.
func (m *StateMachine) CanTransition(to State) bool {
	for _, s := range edges[m.current] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves to a new state and runs its enter hook.
func (m *StateMachine) Transition(to State) error {
	if m.busy {
		return fmt.Errorf("%w: %s -> %s", ErrReentrantTransition, m.current, to)
	}
	if !m.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.current, to)
	}

	from := m.current
	m.current = to

	m.busy = true
	defer func() { m.busy = false }()
	if m.enter != nil {
		m.enter(from, to)
	}
	return nil
}
