// Package overlay holds what is drawn on top of the playback controls: the
// settings menu, the quality shortcut and whether the controls are shown.
package overlay

// Menu is a page of the settings panel.
type Menu int

const (
	Root Menu = iota
	Speed
	Quality
)

func (m Menu) String() string {
	switch m {
	case Speed:
		return "Playback speed"
	case Quality:
		return "Quality"
	default:
		return "Settings"
	}
}

type Action int

const (
	// Open shows the panel at Root.
	Open Action = iota
	// Close hides the panel and resets it to Root.
	Close
	// EnterSpeed and EnterQuality go from Root to a page.
	EnterSpeed
	EnterQuality
	// Back returns to Root, or closes the panel from Root.
	Back
	// Choose applies a value on a page, which closes the panel.
	Choose
)

// Settings is the state of the settings panel.
type Settings struct {
	Open bool
	Menu Menu
}

// Transition returns the panel state after action. Actions that make no
// sense in the given state leave it unchanged.
func Transition(s Settings, action Action) Settings {
	switch action {
	case Open:
		return Settings{Open: true, Menu: Root}
	case Close:
		return Settings{}
	}

	if !s.Open {
		return s
	}

	switch action {
	case EnterSpeed:
		if s.Menu == Root {
			s.Menu = Speed
		}
	case EnterQuality:
		if s.Menu == Root {
			s.Menu = Quality
		}
	case Back:
		if s.Menu == Root {
			return Settings{}
		}
		s.Menu = Root
	case Choose:
		if s.Menu != Root {
			return Settings{}
		}
	}
	return s
}
