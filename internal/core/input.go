package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the game to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone            Action = iota
	ActionThrust                 // Space, W, Up - fire the engine
	ActionFire                   // F, X - shoot while a weapon is active
	ActionToggleAutopilot        // Tab, M - hand control to the autopilot and back
	ActionAnswer1                // 1 - quiz option 1
	ActionAnswer2                // 2 - quiz option 2
	ActionAnswer3                // 3 - quiz option 3
	ActionAnswer4                // 4 - quiz option 4
	ActionUp                     // K, Up arrow in menus
	ActionDown                   // J, S, Down arrow in menus
	ActionConfirm                // Enter - confirm selection in menu
	ActionSkip                   // Enter, S during a planet transition
	ActionRestart                // R key - restart after game over
	ActionBack                   // B, Escape - go back to menu
	ActionPause                  // P - pause/unpause game
	ActionQuit                   // Q, Ctrl+C - exit
	ActionClick                  // Left mouse button (position in InputFrame)
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionThrust:
		return "Thrust"
	case ActionFire:
		return "Fire"
	case ActionToggleAutopilot:
		return "ToggleAutopilot"
	case ActionAnswer1, ActionAnswer2, ActionAnswer3, ActionAnswer4:
		return "Answer"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionSkip:
		return "Skip"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	case ActionClick:
		return "Click"
	default:
		return "Unknown"
	}
}

// AnswerIndex returns the zero-based quiz option for an answer action,
// or -1 for any other action.
func (a Action) AnswerIndex() int {
	if a >= ActionAnswer1 && a <= ActionAnswer4 {
		return int(a - ActionAnswer1)
	}
	return -1
}

// InputFrame represents the input state during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	// ClickX and ClickY hold the screen cell of the last click this frame.
	// Only meaningful when ActionClick is set.
	ClickX, ClickY int
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// SetClick records a mouse click at the given screen cell.
func (f *InputFrame) SetClick(x, y int) {
	f.Set(ActionClick)
	f.ClickX = x
	f.ClickY = y
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Answer returns the first quiz option selected by key this frame, or -1.
func (f InputFrame) Answer() int {
	for a := ActionAnswer1; a <= ActionAnswer4; a++ {
		if f.Has(a) {
			return a.AnswerIndex()
		}
	}
	return -1
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.ClickX, f.ClickY = 0, 0
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.ClickX, clone.ClickY = f.ClickX, f.ClickY
	return clone
}
