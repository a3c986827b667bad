// Package input maps terminal keys and pointer positions to player commands.
package input

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding of the control surface.
type KeyMap struct {
	TogglePlay, SeekBack, SeekForward,
	VolumeUp, VolumeDown, Mute,
	Fullscreen, SpeedUp, SpeedDown,
	Settings, Quality, Jump, Retry,
	Help, Quit, ForceQuit,
	MenuUp, MenuDown, MenuSelect, MenuBack key.Binding
}

// DefaultKeyMap returns the standard bindings. Letters match in both cases.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		TogglePlay: key.NewBinding(
			key.WithKeys(" ", "k", "K"),
			key.WithHelp("space/k", "play/pause"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left", "j", "J"),
			key.WithHelp("←/j", "-10s"),
		),
		SeekForward: key.NewBinding(
			key.WithKeys("right", "l", "L"),
			key.WithHelp("→/l", "+10s"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "volume up"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "volume down"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m", "M"),
			key.WithHelp("m", "mute"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("f", "F"),
			key.WithHelp("f", "fullscreen"),
		),
		SpeedUp: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "faster"),
		),
		SpeedDown: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "slower"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "settings"),
		),
		Quality: key.NewBinding(
			key.WithKeys("v", "V"),
			key.WithHelp("v", "quality"),
		),
		Jump: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "jump to time"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r", "R"),
			key.WithHelp("r", "retry"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		MenuUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		MenuDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		MenuSelect: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		MenuBack: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TogglePlay, k.SeekBack, k.SeekForward, k.Settings, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TogglePlay, k.SeekBack, k.SeekForward, k.Jump},
		{k.VolumeUp, k.VolumeDown, k.Mute, k.Fullscreen},
		{k.SpeedUp, k.SpeedDown, k.Settings, k.Quality},
		{k.Retry, k.Help, k.Quit},
	}
}

// MenuHelp lists the bindings active while a menu is open.
func (k KeyMap) MenuHelp() []key.Binding {
	return []key.Binding{k.MenuUp, k.MenuDown, k.MenuSelect, k.MenuBack}
}
