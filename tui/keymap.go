package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/mafilu-cli/mafilu/color"
	"github.com/mafilu-cli/mafilu/input"
	"github.com/mafilu-cli/mafilu/style"
)

// statefulKeymap selects the bindings shown in the help line.
type statefulKeymap struct {
	input.KeyMap

	state    state
	menuOpen bool

	confirm, cancel key.Binding
}

func newStatefulKeymap() *statefulKeymap {
	keys := input.DefaultKeyMap()
	keys.Retry.SetHelp(style.Fg(color.Yellow)("r"), style.Fg(color.Yellow)("retry"))

	return &statefulKeymap{
		KeyMap: keys,
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "jump"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, [][]key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, [][]key.Binding) {
		return a, [][]key.Binding{a}
	}

	if k.menuOpen {
		return to2(k.MenuHelp())
	}

	switch k.state {
	case loadingState:
		return to2(h(k.Quit))
	case promptState:
		return to2(h(k.confirm, k.cancel))
	case errorState:
		return to2(h(k.Mute, k.Quit))
	case fatalState:
		return to2(h(k.Retry, k.Quit))
	default:
		return k.KeyMap.ShortHelp(), k.KeyMap.FullHelp()
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return full
}
