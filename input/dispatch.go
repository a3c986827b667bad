package input

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Command is what a key asks the player to do.
type Command int

const (
	None Command = iota
	TogglePlay
	SeekBack
	SeekForward
	VolumeUp
	VolumeDown
	ToggleMute
	ToggleFullscreen
	SpeedUp
	SpeedDown
	OpenSettings
	OpenQuality
	JumpPrompt
	Retry
	ToggleHelp
	Quit
	MenuUp
	MenuDown
	MenuSelect
	MenuBack
)

var commandNames = [...]string{
	"none", "toggle-play", "seek-back", "seek-forward", "volume-up", "volume-down",
	"toggle-mute", "toggle-fullscreen", "speed-up", "speed-down", "open-settings",
	"open-quality", "jump-prompt", "retry", "toggle-help", "quit",
	"menu-up", "menu-down", "menu-select", "menu-back",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "unknown"
}

const (
	// SeekStep is the keyboard seek distance in seconds.
	SeekStep = 10.0
	// VolumeStep is the keyboard volume change.
	VolumeStep = 0.1
)

// Dispatcher resolves key presses against a KeyMap. While a text field has
// focus every key except ForceQuit resolves to None, and while a menu is open
// the navigation keys drive the menu.
type Dispatcher struct {
	Keys KeyMap

	textFocus bool
	menuOpen  bool
}

func NewDispatcher(keys KeyMap) *Dispatcher {
	return &Dispatcher{Keys: keys}
}

// SetTextFocus marks whether a text field receives the keys.
func (d *Dispatcher) SetTextFocus(focused bool) {
	d.textFocus = focused
}

func (d *Dispatcher) TextFocus() bool {
	return d.textFocus
}

// SetMenuOpen switches the navigation keys between the menu and the player.
func (d *Dispatcher) SetMenuOpen(open bool) {
	d.menuOpen = open
}

func (d *Dispatcher) Dispatch(msg tea.KeyMsg) Command {
	k := d.Keys

	if key.Matches(msg, k.ForceQuit) {
		return Quit
	}
	if d.textFocus {
		return None
	}

	if d.menuOpen {
		switch {
		case key.Matches(msg, k.MenuUp):
			return MenuUp
		case key.Matches(msg, k.MenuDown):
			return MenuDown
		case key.Matches(msg, k.MenuSelect):
			return MenuSelect
		case key.Matches(msg, k.MenuBack):
			return MenuBack
		}
	}

	switch {
	case key.Matches(msg, k.TogglePlay):
		return TogglePlay
	case key.Matches(msg, k.SeekBack):
		return SeekBack
	case key.Matches(msg, k.SeekForward):
		return SeekForward
	case key.Matches(msg, k.VolumeUp):
		return VolumeUp
	case key.Matches(msg, k.VolumeDown):
		return VolumeDown
	case key.Matches(msg, k.Mute):
		return ToggleMute
	case key.Matches(msg, k.Fullscreen):
		return ToggleFullscreen
	case key.Matches(msg, k.SpeedUp):
		return SpeedUp
	case key.Matches(msg, k.SpeedDown):
		return SpeedDown
	case key.Matches(msg, k.Settings):
		return OpenSettings
	case key.Matches(msg, k.Quality):
		return OpenQuality
	case key.Matches(msg, k.Jump):
		return JumpPrompt
	case key.Matches(msg, k.Retry):
		return Retry
	case key.Matches(msg, k.Help):
		return ToggleHelp
	case key.Matches(msg, k.Quit):
		return Quit
	}
	return None
}
