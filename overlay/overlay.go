package overlay

import "github.com/mafilu-cli/mafilu/util"

type Panel int

const (
	NoPanel Panel = iota
	SettingsPanel
	QualityPanel
)

// RootEntries are the rows of the Root page, in order.
var RootEntries = []Menu{Speed, Quality}

// Overlay tracks the open panel and the highlighted row. At most one of the
// settings panel and the quality shortcut is open.
type Overlay struct {
	settings Settings
	shortcut bool
	cursor   int
}

func New() *Overlay {
	return &Overlay{}
}

func (o *Overlay) Panel() Panel {
	switch {
	case o.settings.Open:
		return SettingsPanel
	case o.shortcut:
		return QualityPanel
	default:
		return NoPanel
	}
}

func (o *Overlay) IsOpen() bool {
	return o.Panel() != NoPanel
}

// Menu is the settings page shown. It is Root while the panel is closed.
func (o *Overlay) Menu() Menu {
	return o.settings.Menu
}

func (o *Overlay) Cursor() int {
	return o.cursor
}

// ToggleSettings opens the settings panel at Root, or closes it.
func (o *Overlay) ToggleSettings() {
	o.shortcut = false
	o.cursor = 0
	if o.settings.Open {
		o.settings = Transition(o.settings, Close)
		return
	}
	o.settings = Transition(o.settings, Open)
}

// ToggleQuality opens the quality shortcut, or closes it.
func (o *Overlay) ToggleQuality() {
	o.settings = Transition(o.settings, Close)
	o.shortcut = !o.shortcut
	o.cursor = 0
}

// Close hides any panel.
func (o *Overlay) Close() {
	o.settings = Transition(o.settings, Close)
	o.shortcut = false
	o.cursor = 0
}

// Move shifts the cursor by delta within rows entries.
func (o *Overlay) Move(delta, rows int) {
	if rows <= 0 {
		o.cursor = 0
		return
	}
	o.cursor = util.Clamp(o.cursor+delta, 0, rows-1)
}

// Point places the cursor on row, e.g. the current value of a page.
func (o *Overlay) Point(row int) {
	o.cursor = max(row, 0)
}

// Back steps out of a page, or closes the panel.
func (o *Overlay) Back() {
	if o.shortcut {
		o.Close()
		return
	}
	from := o.settings.Menu
	o.settings = Transition(o.settings, Back)
	o.cursor = 0
	if o.settings.Open {
		for i, m := range RootEntries {
			if m == from {
				o.cursor = i
			}
		}
	}
}

// Enter opens the page under the cursor on Root. It reports whether a page was opened.
func (o *Overlay) Enter() bool {
	if !o.settings.Open || o.settings.Menu != Root || o.cursor >= len(RootEntries) {
		return false
	}

	action := EnterSpeed
	if RootEntries[o.cursor] == Quality {
		action = EnterQuality
	}
	o.settings = Transition(o.settings, action)
	o.cursor = 0
	return true
}

// Chosen closes the panel after a value was applied.
func (o *Overlay) Chosen() {
	if o.shortcut {
		o.Close()
		return
	}
	o.settings = Transition(o.settings, Choose)
	o.cursor = 0
}
