package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/starhop/internal/core"
)

// KeyMap holds the in-game key bindings. It also feeds the help bar.
type KeyMap struct {
	Thrust    key.Binding
	Fire      key.Binding
	Autopilot key.Binding
	Answer    key.Binding
	Up        key.Binding
	Down      key.Binding
	Confirm   key.Binding
	Skip      key.Binding
	Pause     key.Binding
	Restart   key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Thrust: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space/w", "thrust"),
		),
		Fire: key.NewBinding(
			key.WithKeys("f", "x"),
			key.WithHelp("f", "fire"),
		),
		Autopilot: key.NewBinding(
			key.WithKeys("tab", "m"),
			key.WithHelp("tab", "autopilot"),
		),
		Answer: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "answer"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "menu up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "menu down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Skip: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("s", "skip"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Thrust, k.Fire, k.Answer, k.Autopilot, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Thrust, k.Fire, k.Autopilot},
		{k.Answer, k.Skip, k.Confirm},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// MapKeyToFrame updates an input frame based on a key message.
// One key may set several actions; up both thrusts and moves the menu.
// Returns true if the key was a quit request.
func (k KeyMap) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	if key.Matches(msg, k.Quit) {
		frame.Set(core.ActionQuit)
		return true
	}

	bindings := []struct {
		binding key.Binding
		action  core.Action
	}{
		{k.Thrust, core.ActionThrust},
		{k.Fire, core.ActionFire},
		{k.Autopilot, core.ActionToggleAutopilot},
		{k.Up, core.ActionUp},
		{k.Down, core.ActionDown},
		{k.Confirm, core.ActionConfirm},
		{k.Skip, core.ActionSkip},
		{k.Pause, core.ActionPause},
		{k.Restart, core.ActionRestart},
		{k.Back, core.ActionBack},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			frame.Set(b.action)
		}
	}

	if key.Matches(msg, k.Answer) {
		switch msg.String() {
		case "1":
			frame.Set(core.ActionAnswer1)
		case "2":
			frame.Set(core.ActionAnswer2)
		case "3":
			frame.Set(core.ActionAnswer3)
		case "4":
			frame.Set(core.ActionAnswer4)
		}
	}
	return false
}

// MapMouseToFrame records a left-button press as a click.
func MapMouseToFrame(msg tea.MouseMsg, frame *core.InputFrame) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		frame.SetClick(msg.X, msg.Y)
	}
}
